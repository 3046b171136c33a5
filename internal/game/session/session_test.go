package session_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/numguess/internal/frontend/console"
	"github.com/cory-johannsen/numguess/internal/game/difficulty"
	"github.com/cory-johannsen/numguess/internal/game/secret"
	"github.com/cory-johannsen/numguess/internal/game/session"
	"github.com/cory-johannsen/numguess/internal/testutil"
)

func newGame(t *testing.T, con *testutil.ScriptedConsole, src secret.Source, step time.Duration) *session.Game {
	t.Helper()
	return session.NewGame(con, session.Options{
		Source: src,
		Now:    testutil.StepClock(step),
		Logger: zaptest.NewLogger(t),
	})
}

// TestPlay_WinOnThirdAttempt selects Easy, converges on the secret and checks
// the score is computed from 8 attempts left.
func TestPlay_WinOnThirdAttempt(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1", "10", "25", "30")
	g := newGame(t, con, testutil.NewFixedSource(t, 29), 3*time.Second)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Won, res.Outcome)
	assert.Equal(t, "easy", res.Profile.ID)
	assert.Equal(t, 30, res.Secret)
	assert.Equal(t, 8, res.AttemptsLeft)
	assert.Equal(t, []int{10, 25, 30}, res.Guesses)
	assert.Equal(t, 3*time.Second, res.Elapsed)
	// 8/10*1000 - 3/60*200
	assert.Equal(t, 790, res.Score)

	out := con.Output()
	assert.Contains(t, out, "I'm thinking of a number between 1 and 50.")
	assert.Contains(t, out, "You have 10 attempts to guess it!")
	assert.Contains(t, out, "Way too low! Try a much higher number.")
	assert.Contains(t, out, "A little low - you're getting closer!")
	assert.Contains(t, out, "Congratulations! You've found the number 30!")
	assert.Contains(t, out, "Time taken: 3.00 seconds")
	assert.Contains(t, out, "Score: 790 points")
	assert.Contains(t, out, "Your guesses: 10 (Too low), 25 (Too low), 30 (Correct!)")
	assert.Equal(t, 3, con.Count("Attempts left:"))
}

// TestPlay_Exhausted makes six wrong guesses on Hard.
func TestPlay_Exhausted(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "3", "1", "2", "3", "4", "5", "6")
	g := newGame(t, con, testutil.NewFixedSource(t, 99), time.Second)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Exhausted, res.Outcome)
	assert.Equal(t, "hard", res.Profile.ID)
	assert.Equal(t, 100, res.Secret)
	assert.Equal(t, 0, res.AttemptsLeft)
	assert.Len(t, res.Guesses, 6)
	assert.Equal(t, 0, res.Score)

	out := con.Output()
	assert.Contains(t, out, "Game Over! The number was 100.")
	assert.Contains(t, out, "Your guesses: 1 (Too low), 2 (Too low), 3 (Too low), 4 (Too low), 5 (Too low), 6 (Too low)")
	assert.Equal(t, 6, con.Count("Way too low! Try a much higher number."))
	assert.Equal(t, 6, con.Count("Attempts left:"))
	assert.NotContains(t, out, "Congratulations")
}

// TestPlay_MalformedGuessKeepsAttempt checks "abc" is rejected without
// spending an attempt.
func TestPlay_MalformedGuessKeepsAttempt(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "2", "abc", "50")
	g := newGame(t, con, testutil.NewFixedSource(t, 49), 0)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, session.Won, res.Outcome)
	assert.Equal(t, 8, res.AttemptsLeft)
	assert.Equal(t, []int{50}, res.Guesses)
	assert.Equal(t, 1000, res.Score)

	assert.Equal(t, 1, con.Count("Please enter a valid number!"))
	assert.Equal(t, 2, con.Count("Attempts left: 8"))
}

func TestPlay_OutOfRangeGuessKeepsAttempt(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "2", "0", "101", "-5", "50")
	g := newGame(t, con, testutil.NewFixedSource(t, 49), 0)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, res.AttemptsLeft)
	assert.Equal(t, []int{50}, res.Guesses)
	assert.Equal(t, 3, con.Count("Please guess a number between 1 and 100!"))
	assert.Equal(t, 4, con.Count("Attempts left: 8"))
}

func TestPlay_MenuReprompts(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "abc", "4", "0", "-1", "", "1", "1")
	g := newGame(t, con, testutil.NewFixedSource(t, 0), 0)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "easy", res.Profile.ID)
	assert.Equal(t, 2, con.Count("Please enter a valid number!"))
	assert.Equal(t, 3, con.Count("Invalid choice! Please select 1, 2, or 3."))
	assert.Equal(t, 6, con.Count("Select difficulty level:"))
	assert.Equal(t, 6, con.Count("Enter your choice (1-3): "))
	assert.Contains(t, con.Output(), "1. Easy (1-50, 10 attempts)")
}

func TestPlay_HintsFollowDirection(t *testing.T) {
	// Medium, secret 50: 90 is far high, 70 near high, 60 close high, 40 close low.
	con := testutil.NewScriptedConsole(t, "2", "90", "70", "60", "40", "50")
	g := newGame(t, con, testutil.NewFixedSource(t, 49), 0)

	res, err := g.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, res.AttemptsLeft)

	out := con.Output()
	assert.Contains(t, out, "Way too high! Try a much lower number.")
	assert.Contains(t, out, "Too high! Try going lower.")
	assert.Contains(t, out, "A little high - you're getting closer!")
	assert.Contains(t, out, "A little low - you're getting closer!")
	assert.Contains(t, out, "Your guesses: 90 (Too high), 70 (Too high), 60 (Too high), 40 (Too low), 50 (Correct!)")
}

func TestPlay_OverflowingGuessIsOutOfRange(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1", "99999999999999999999", "-99999999999999999999", "1")
	g := newGame(t, con, testutil.NewFixedSource(t, 0), 0)

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, res.AttemptsLeft)
	assert.Equal(t, []int{1}, res.Guesses)
	assert.Equal(t, 2, con.Count("Please guess a number between 1 and 50!"))
	assert.Equal(t, 0, con.Count("Please enter a valid number!"))
}

func TestPlay_EOFPropagates(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1")
	g := newGame(t, con, testutil.NewFixedSource(t, 0), 0)

	_, err := g.Play(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPlay_CancelledContext(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1", "1")
	g := newGame(t, con, testutil.NewFixedSource(t, 0), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Play(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlay_ColorOutput(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1", "1")
	g := session.NewGame(con, session.Options{
		Source: testutil.NewFixedSource(t, 0),
		Now:    testutil.StepClock(0),
		Styler: console.Styler{Enabled: true},
	})

	_, err := g.Play(context.Background())
	require.NoError(t, err)
	assert.Contains(t, con.RawOutput(), console.Green)
	assert.Contains(t, con.Output(), "Congratulations! You've found the number 1!")
}

func TestPlay_LogsSessionLifecycle(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	con := testutil.NewScriptedConsole(t, "1", "40", "1")
	g := session.NewGame(con, session.Options{
		Source: testutil.NewFixedSource(t, 0),
		Now:    testutil.StepClock(time.Second),
		Logger: zap.New(core),
	})

	res, err := g.Play(context.Background())
	require.NoError(t, err)

	started := logs.FilterMessage("session started").All()
	require.Len(t, started, 1)
	assert.Equal(t, res.ID.String(), started[0].ContextMap()["session"])
	assert.Equal(t, "easy", started[0].ContextMap()["difficulty"])

	assert.Equal(t, 1, logs.FilterMessage("guess evaluated").Len())
	assert.Equal(t, 1, logs.FilterMessage("secret drawn").Len())

	finished := logs.FilterMessage("session finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, "won", fields["outcome"])
	assert.Equal(t, int64(res.Score), fields["score"])
}

func TestRun_DeclineEndsProgram(t *testing.T) {
	for _, answer := range []string{"no", "No", "quit", "", " yes", "yes please", "y", "yeſ", "YEſ"} {
		t.Run(strconv.Quote(answer), func(t *testing.T) {
			con := testutil.NewScriptedConsole(t, "1", "30", answer)
			g := newGame(t, con, testutil.NewFixedSource(t, 29), 0)

			played, err := g.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, played)
			assert.Contains(t, con.Output(), "Would you like to play again? (yes/no): ")
			assert.Contains(t, con.Output(), "Thanks for playing! Goodbye!")
			assert.Equal(t, 1, con.Count("Welcome to the Number Guessing Game!"))
		})
	}
}

func TestRun_YesRestarts(t *testing.T) {
	for _, answer := range []string{"yes", "Yes", "YES", "yEs"} {
		t.Run(answer, func(t *testing.T) {
			con := testutil.NewScriptedConsole(t, "1", "30", answer, "3", "100", "no")
			g := newGame(t, con, testutil.NewFixedSource(t, 29, 99), 0)

			played, err := g.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, played)
			assert.Equal(t, 2, con.Count("Welcome to the Number Guessing Game!"))
			assert.Equal(t, 2, con.Count("Would you like to play again?"))
			assert.Equal(t, 1, con.Count("Thanks for playing! Goodbye!"))
			assert.Contains(t, con.Output(), "I'm thinking of a number between 1 and 200.")
		})
	}
}

func TestRun_EOFAtReplayPrompt(t *testing.T) {
	con := testutil.NewScriptedConsole(t, "1", "30")
	g := newGame(t, con, testutil.NewFixedSource(t, 29), 0)

	played, err := g.Run(context.Background())
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, 1, played)
	assert.NotContains(t, con.Output(), "Thanks for playing!")
}

func TestParseGuess(t *testing.T) {
	p := difficulty.Profile{ID: "easy", Min: 1, Max: 50, MaxAttempts: 10}

	v, err := session.ParseGuess(" 25 ", p)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	v, err = session.ParseGuess("+7", p)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = session.ParseGuess("abc", p)
	assert.ErrorIs(t, err, session.ErrNotANumber)
	_, err = session.ParseGuess("2.5", p)
	assert.ErrorIs(t, err, session.ErrNotANumber)
	_, err = session.ParseGuess("51", p)
	assert.ErrorIs(t, err, session.ErrOutOfRange)
	_, err = session.ParseGuess("0", p)
	assert.ErrorIs(t, err, session.ErrOutOfRange)
	_, err = session.ParseGuess("99999999999999999999", p)
	assert.ErrorIs(t, err, session.ErrOutOfRange)
	_, err = session.ParseGuess("-99999999999999999999", p)
	assert.ErrorIs(t, err, session.ErrOutOfRange)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "selecting_difficulty", session.SelectingDifficulty.String())
	assert.Equal(t, "playing", session.Playing.String())
	assert.Equal(t, "won", session.Won.String())
	assert.Equal(t, "exhausted", session.Exhausted.String())
	assert.Equal(t, "awaiting_replay", session.AwaitingReplay.String())
}

// TestPlay_Invariants_Property drives random sessions and checks the
// attempt accounting and outcome invariants.
func TestPlay_Invariants_Property(t *testing.T) {
	menu := difficulty.DefaultMenu()
	rapid.Check(t, func(rt *rapid.T) {
		choice := rapid.IntRange(1, 3).Draw(rt, "choice")
		p, err := menu.Choose(choice)
		require.NoError(rt, err)

		seed := rapid.Int64().Draw(rt, "seed")
		want := secret.Draw(p.Min, p.Max, secret.NewSeededSource(seed))

		guesses := rapid.SliceOfN(rapid.IntRange(p.Min, p.Max), p.MaxAttempts, p.MaxAttempts).Draw(rt, "guesses")
		if rapid.Bool().Draw(rt, "plant") {
			guesses[rapid.IntRange(0, p.MaxAttempts-1).Draw(rt, "at")] = want
		}

		lines := []string{strconv.Itoa(choice)}
		for _, v := range guesses {
			lines = append(lines, strconv.Itoa(v))
		}
		con := testutil.NewScriptedConsole(t, lines...)
		g := session.NewGame(con, session.Options{
			Source: secret.NewSeededSource(seed),
			Now:    testutil.StepClock(time.Second),
		})

		res, err := g.Play(context.Background())
		require.NoError(rt, err)

		assert.Equal(rt, want, res.Secret)
		assert.GreaterOrEqual(rt, res.AttemptsLeft, 0)
		assert.LessOrEqual(rt, res.AttemptsLeft, p.MaxAttempts)

		winAt := -1
		for i, v := range guesses {
			if v == want {
				winAt = i
				break
			}
		}
		if winAt >= 0 {
			assert.Equal(rt, session.Won, res.Outcome)
			assert.Equal(rt, p.MaxAttempts-winAt, res.AttemptsLeft)
			assert.Equal(rt, guesses[:winAt+1], res.Guesses)
		} else {
			assert.Equal(rt, session.Exhausted, res.Outcome)
			assert.Equal(rt, 0, res.AttemptsLeft)
			assert.Equal(rt, guesses, res.Guesses)
		}
	})
}
