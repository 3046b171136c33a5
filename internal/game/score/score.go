// Package score computes the points awarded for a winning guess.
package score

import (
	"fmt"
	"time"
)

const (
	// MaxBase is the base score for winning with the full attempt budget left.
	MaxBase = 1000
	// MaxTimePenalty is the largest penalty deducted for elapsed time.
	MaxTimePenalty = 200
	// PenaltyWindow is the elapsed time at which the penalty reaches MaxTimePenalty.
	PenaltyWindow = 60 * time.Second
)

// Calculate returns floor(attemptsLeft/maxAttempts*1000 - min(t, 60s)/60s*200),
// truncated toward zero. The result is not clamped and may be negative.
//
// Precondition: maxAttempts > 0.
func Calculate(attemptsLeft, maxAttempts int, elapsed time.Duration) int {
	if maxAttempts <= 0 {
		panic(fmt.Sprintf("score: Calculate called with maxAttempts %d", maxAttempts))
	}
	base := float64(attemptsLeft) / float64(maxAttempts) * MaxBase
	seconds := min(elapsed.Seconds(), PenaltyWindow.Seconds())
	penalty := seconds / PenaltyWindow.Seconds() * MaxTimePenalty
	return int(base - penalty)
}
