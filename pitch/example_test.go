package pitch_test

import (
	"fmt"

	"github.com/cwbudde/vocalsync/internal/testutil"
	"github.com/cwbudde/vocalsync/pitch"
)

func ExampleTrack() {
	tone := testutil.DeterministicSine(220, 22050, 0.5, 22050)
	c, err := pitch.Track(tone, 22050)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("frames=%d median=%.0f Hz\n", c.Len(), c.Median())
	// Output:
	// frames=87 median=220 Hz
}
