// Package testutil provides test helpers: a scripted console, fixed
// randomness and a stepping clock.
package testutil

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/numguess/internal/frontend/console"
)

// ScriptedConsole is a console.Conn fed from a fixed list of input lines with
// all output captured.
type ScriptedConsole struct {
	*console.Conn
	out *bytes.Buffer
}

// NewScriptedConsole returns a console whose input is lines joined by "\n".
// Reading past the last line yields io.EOF.
//
// Postcondition: Output() is empty until the console is written to.
func NewScriptedConsole(t *testing.T, lines ...string) *ScriptedConsole {
	t.Helper()
	input := ""
	if len(lines) > 0 {
		input = strings.Join(lines, "\n") + "\n"
	}
	out := &bytes.Buffer{}
	return &ScriptedConsole{
		Conn: console.NewConn(strings.NewReader(input), out),
		out:  out,
	}
}

// Output returns everything written so far with ANSI sequences removed.
func (c *ScriptedConsole) Output() string {
	return console.StripANSI(c.out.String())
}

// RawOutput returns everything written so far, unmodified.
func (c *ScriptedConsole) RawOutput() string {
	return c.out.String()
}

// Count returns how many times substr occurs in Output().
func (c *ScriptedConsole) Count(substr string) int {
	return strings.Count(c.Output(), substr)
}

// FixedSource is a secret.Source that replays a fixed sequence of values.
// It fails the test when exhausted or when a value falls outside [0, n).
type FixedSource struct {
	t      *testing.T
	values []int
	next   int
}

// NewFixedSource returns a source replaying values in order.
func NewFixedSource(t *testing.T, values ...int) *FixedSource {
	return &FixedSource{t: t, values: values}
}

// Intn returns the next scripted value.
func (f *FixedSource) Intn(n int) int {
	f.t.Helper()
	if f.next >= len(f.values) {
		f.t.Fatalf("FixedSource exhausted after %d values", len(f.values))
	}
	v := f.values[f.next]
	f.next++
	if v < 0 || v >= n {
		f.t.Fatalf("FixedSource value %d outside [0, %d)", v, n)
	}
	return v
}

// StepClock returns a clock that starts at a fixed instant and advances by
// step on every call.
func StepClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}
