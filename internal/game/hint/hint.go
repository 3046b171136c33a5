// Package hint classifies a wrong guess by direction and by its distance from
// the secret, measured as a percentage of the guessing range.
package hint

import "fmt"

// Direction is which side of the secret a guess fell on.
type Direction int

const (
	// High means the guess exceeded the secret.
	High Direction = iota
	// Low means the guess fell short of the secret.
	Low
)

// String returns "high" or "low".
func (d Direction) String() string {
	if d == High {
		return "high"
	}
	return "low"
}

// Band is the distance bucket of a guess.
type Band int

const (
	// Far is a distance above 30% of the range.
	Far Band = iota
	// Near is a distance above 15% and at most 30% of the range.
	Near
	// Close is a distance of at most 15% of the range.
	Close
)

// String returns "far", "near" or "close".
func (b Band) String() string {
	switch b {
	case Far:
		return "far"
	case Near:
		return "near"
	default:
		return "close"
	}
}

// Band thresholds, in percent of the range.
const (
	FarThreshold  = 30
	NearThreshold = 15
)

// Hint is the classification of one wrong guess.
type Hint struct {
	Direction Direction
	Band      Band
	// Percent is |guess-secret| / (max-min) * 100, kept for display and logging.
	Percent float64
}

var messages = map[Direction]map[Band]string{
	High: {
		Far:   "Way too high! Try a much lower number.",
		Near:  "Too high! Try going lower.",
		Close: "A little high - you're getting closer!",
	},
	Low: {
		Far:   "Way too low! Try a much higher number.",
		Near:  "Too low! Try going higher.",
		Close: "A little low - you're getting closer!",
	},
}

// Message returns the player-facing text for h.
func (h Hint) Message() string {
	return messages[h.Direction][h.Band]
}

// Evaluate classifies guess against secret within [min, max].
// Band boundaries are compared exactly: a distance of exactly 30% is Near and
// exactly 15% is Close.
//
// Precondition: min < max; guess != secret.
// Postcondition: Returns exactly one of the six Direction/Band combinations.
func Evaluate(guess, secret, min, max int) Hint {
	if min >= max {
		panic(fmt.Sprintf("hint: Evaluate called with min %d >= max %d", min, max))
	}
	if guess == secret {
		panic("hint: Evaluate called with a winning guess")
	}

	span := max - min
	diff := guess - secret
	dir := High
	if diff < 0 {
		dir = Low
		diff = -diff
	}

	var band Band
	switch {
	case diff*100 > FarThreshold*span:
		band = Far
	case diff*100 > NearThreshold*span:
		band = Near
	default:
		band = Close
	}

	return Hint{
		Direction: dir,
		Band:      band,
		Percent:   float64(diff) / float64(span) * 100,
	}
}
