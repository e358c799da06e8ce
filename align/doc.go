// Package align computes dynamic-time-warping alignments between two
// feature sequences.
//
// Given a reference and a target sequence, [Align] fills the cumulative cost
// matrix
//
//	D[i][j] = d(ref[i], target[j]) + min(D[i-1][j], D[i][j-1], D[i-1][j-1])
//
// with D[0][0] = d(ref[0], target[0]) and cumulative sums along both borders,
// then walks back from the last cell to (0,0). At each step the cheapest
// predecessor wins. Ties go to the diagonal first, then to the predecessor
// that steps back along the dimension with the larger remaining index.
//
// The returned [Path] is monotonic in both coordinates, starts at (0,0) and
// ends at (len(ref)-1, len(target)-1). Anything else is reported as
// [ErrDegeneratePath] rather than returned.
//
// Complexity is O(n·m) in time and memory. [WithBand] restricts the search
// to a Sakoe–Chiba band around the diagonal of the (possibly rectangular)
// matrix; local costs are computed row-parallel.
package align
