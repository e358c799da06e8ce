// Package core holds the small numeric vocabulary shared by every stage of
// the vocal alignment pipeline: analysis grid configuration, finite-range
// sanitising, decibel conversions, and the error taxonomy that batch stages
// report through.
package core
