package align_test

import (
	"fmt"

	"github.com/cwbudde/vocalsync/align"
)

func ExampleAlign() {
	ref := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	target := [][]float64{{1, 0}, {1, 0}, {0, 1}, {1, 1}}

	res, err := align.Align(ref, target)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Path, res.Cost)
	// Output:
	// [{0 0} {0 1} {1 2} {2 3}] 0
}
