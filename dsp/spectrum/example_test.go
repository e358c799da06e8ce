package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/vocalsync/dsp/spectrum"
)

func ExampleMagnitude() {
	bins := []complex128{1 + 0i, 0 + 1i, -1 + 0i}
	mag := spectrum.Magnitude(bins)
	fmt.Printf("%.1f %.1f %.1f\n", mag[0], mag[1], mag[2])
	// Output:
	// 1.0 1.0 1.0
}

func ExampleBinFrequencies() {
	fmt.Println(spectrum.BinFrequencies(4, 22050))
	// Output:
	// [0 5512.5 11025]
}
