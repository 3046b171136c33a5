// Package secret draws the hidden number for a guessing session from an
// injectable randomness source.
package secret

import "fmt"

// Source is the randomness provider for secret draws.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Draw returns an integer uniformly distributed over [min, max] inclusive.
//
// Precondition: min <= max; src must be non-nil.
// Postcondition: min <= result <= max.
func Draw(min, max int, src Source) int {
	if min > max {
		panic(fmt.Sprintf("secret: Draw called with min %d > max %d", min, max))
	}
	return min + src.Intn(max-min+1)
}
