// Package session runs guessing-game sessions over a line-oriented console
// port: difficulty selection, the guess/hint loop, scoring and the replay loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/numguess/internal/frontend/console"
	"github.com/cory-johannsen/numguess/internal/game/difficulty"
	"github.com/cory-johannsen/numguess/internal/game/hint"
	"github.com/cory-johannsen/numguess/internal/game/score"
	"github.com/cory-johannsen/numguess/internal/game/secret"
)

var (
	// ErrNotANumber is returned by ParseGuess for non-integer input.
	ErrNotANumber = errors.New("session: not a number")
	// ErrOutOfRange is returned by ParseGuess for integers outside the profile range.
	ErrOutOfRange = errors.New("session: guess out of range")
)

// Port is the console the game reads from and writes to.
type Port interface {
	// ReadLine blocks for one line of input without its terminator.
	ReadLine() (string, error)
	// WriteLine writes text followed by a newline.
	WriteLine(text string) error
	// WritePrompt writes text without a newline.
	WritePrompt(prompt string) error
}

// State is a phase of the session state machine.
type State int

const (
	SelectingDifficulty State = iota
	Playing
	Won
	Exhausted
	AwaitingReplay
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case SelectingDifficulty:
		return "selecting_difficulty"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Exhausted:
		return "exhausted"
	case AwaitingReplay:
		return "awaiting_replay"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result describes one finished session.
type Result struct {
	ID      uuid.UUID
	Profile difficulty.Profile
	Secret  int
	// Outcome is Won or Exhausted.
	Outcome      State
	AttemptsLeft int
	// Guesses holds every accepted in-range guess in order, the winning one included.
	Guesses []int
	Elapsed time.Duration
	// Score is set only when Outcome is Won.
	Score int
}

// Options configures a Game. Zero fields take production defaults.
type Options struct {
	// Menu defaults to difficulty.DefaultMenu().
	Menu *difficulty.Menu
	// Source defaults to secret.NewCryptoSource().
	Source secret.Source
	// Now defaults to time.Now.
	Now    func() time.Time
	Styler console.Styler
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Game plays sessions against a single Port.
type Game struct {
	port   Port
	menu   *difficulty.Menu
	gen    *secret.Generator
	now    func() time.Time
	style  console.Styler
	logger *zap.Logger
}

// NewGame creates a Game bound to port.
//
// Precondition: port must be non-nil.
// Postcondition: Returns a Game ready to Play or Run.
func NewGame(port Port, opts Options) *Game {
	if opts.Menu == nil {
		opts.Menu = difficulty.DefaultMenu()
	}
	if opts.Source == nil {
		opts.Source = secret.NewCryptoSource()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Game{
		port:   port,
		menu:   opts.Menu,
		gen:    secret.NewGenerator(opts.Source, opts.Logger),
		now:    opts.Now,
		style:  opts.Styler,
		logger: opts.Logger,
	}
}

// ParseGuess interprets one line of guess input against p's range.
//
// Postcondition: Returns a guess in [p.Min, p.Max], or an error wrapping
// ErrNotANumber or ErrOutOfRange.
func ParseGuess(line string, p difficulty.Profile) (int, error) {
	guess, err := strconv.Atoi(strings.TrimSpace(line))
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q not in [%d, %d]", ErrOutOfRange, line, p.Min, p.Max)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, line)
	}
	if guess < p.Min || guess > p.Max {
		return guess, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, guess, p.Min, p.Max)
	}
	return guess, nil
}

// Run plays sessions until the player declines to replay and returns the
// number of sessions completed. Only "yes" in any letter case replays; Unicode
// case folding is not applied, so look-alikes such as "yeſ" decline.
//
// Postcondition: On nil error the farewell message has been written.
// Port errors, including io.EOF, and context cancellation are returned as-is.
func (g *Game) Run(ctx context.Context) (int, error) {
	played := 0
	for {
		if _, err := g.Play(ctx); err != nil {
			return played, err
		}
		played++

		if err := g.port.WriteLine(""); err != nil {
			return played, err
		}
		answer, err := g.read(ctx, "Would you like to play again? (yes/no): ")
		if err != nil {
			return played, err
		}
		replay := strings.ToLower(answer) == "yes"
		g.logger.Info("replay decision",
			zap.String("state", AwaitingReplay.String()),
			zap.Bool("replay", replay),
			zap.Int("played", played),
		)
		if !replay {
			return played, g.Farewell()
		}
	}
}

// Farewell writes the goodbye message.
func (g *Game) Farewell() error {
	if err := g.port.WriteLine(""); err != nil {
		return err
	}
	return g.port.WriteLine(g.style.Paint(console.BrightCyan, "Thanks for playing! Goodbye! 👋"))
}

// Play runs one session from difficulty selection to Won or Exhausted.
//
// Postcondition: On nil error, result.Outcome is Won or Exhausted and
// 0 <= result.AttemptsLeft <= result.Profile.MaxAttempts.
func (g *Game) Play(ctx context.Context) (Result, error) {
	res := Result{ID: uuid.New()}
	log := g.logger.With(zap.String("session", res.ID.String()))

	if err := g.writeLines("", g.style.Paint(console.Bold, "=== Welcome to the Number Guessing Game! ==="), ""); err != nil {
		return res, err
	}

	profile, err := g.selectDifficulty(ctx)
	if err != nil {
		return res, err
	}
	res.Profile = profile
	res.Secret = g.gen.Draw(profile.Min, profile.Max)
	res.AttemptsLeft = profile.MaxAttempts

	log.Info("session started",
		zap.String("state", Playing.String()),
		zap.String("difficulty", profile.ID),
		zap.Int("min", profile.Min),
		zap.Int("max", profile.Max),
		zap.Int("max_attempts", profile.MaxAttempts),
	)

	if err := g.writeLines(
		"",
		fmt.Sprintf("I'm thinking of a number between %d and %d.", profile.Min, profile.Max),
		fmt.Sprintf("You have %d attempts to guess it!", profile.MaxAttempts),
		"Hint: The closer you get, the more precise the hints will be!",
	); err != nil {
		return res, err
	}

	start := g.now()
	for res.AttemptsLeft > 0 {
		if err := g.writeLines("", fmt.Sprintf("Attempts left: %d", res.AttemptsLeft)); err != nil {
			return res, err
		}
		line, err := g.read(ctx, "Enter your guess: ")
		if err != nil {
			return res, err
		}

		guess, err := ParseGuess(line, profile)
		switch {
		case errors.Is(err, ErrNotANumber):
			if err := g.warn("Please enter a valid number!"); err != nil {
				return res, err
			}
			continue
		case errors.Is(err, ErrOutOfRange):
			if err := g.warn(fmt.Sprintf("Please guess a number between %d and %d!", profile.Min, profile.Max)); err != nil {
				return res, err
			}
			continue
		}
		res.Guesses = append(res.Guesses, guess)

		if guess == res.Secret {
			res.Elapsed = g.now().Sub(start)
			res.Score = score.Calculate(res.AttemptsLeft, profile.MaxAttempts, res.Elapsed)
			res.Outcome = Won
			if err := g.writeLines(
				"",
				g.style.Paintf(console.Green, "🎉 Congratulations! You've found the number %d!", res.Secret),
				fmt.Sprintf("Time taken: %.2f seconds", res.Elapsed.Seconds()),
				g.style.Paintf(console.BrightYellow, "Score: %d points", res.Score),
				historyLine(res.Guesses, res.Secret, profile),
			); err != nil {
				return res, err
			}
			break
		}

		h := hint.Evaluate(guess, res.Secret, profile.Min, profile.Max)
		if err := g.port.WriteLine(g.style.Paint(bandColor(h.Band), h.Message())); err != nil {
			return res, err
		}
		res.AttemptsLeft--
		log.Debug("guess evaluated",
			zap.Int("guess", guess),
			zap.Stringer("direction", h.Direction),
			zap.Stringer("band", h.Band),
			zap.Float64("percent", h.Percent),
			zap.Int("attempts_left", res.AttemptsLeft),
		)

		if res.AttemptsLeft == 0 {
			res.Elapsed = g.now().Sub(start)
			res.Outcome = Exhausted
			if err := g.writeLines(
				"",
				g.style.Paintf(console.Red, "Game Over! The number was %d.", res.Secret),
				historyLine(res.Guesses, res.Secret, profile),
			); err != nil {
				return res, err
			}
		}
	}

	fields := []zap.Field{
		zap.String("outcome", res.Outcome.String()),
		zap.Int("attempts_used", profile.MaxAttempts-res.AttemptsLeft),
		zap.Int("guesses", len(res.Guesses)),
		zap.Duration("elapsed", res.Elapsed),
	}
	if res.Outcome == Won {
		fields = append(fields, zap.Int("score", res.Score))
	}
	log.Info("session finished", fields...)
	return res, nil
}

// selectDifficulty prompts until a valid menu choice is entered.
func (g *Game) selectDifficulty(ctx context.Context) (difficulty.Profile, error) {
	n := len(g.menu.Profiles)
	for {
		lines := append([]string{"", "Select difficulty level:"}, g.menu.Lines()...)
		if err := g.writeLines(lines...); err != nil {
			return difficulty.Profile{}, err
		}
		line, err := g.read(ctx, fmt.Sprintf("Enter your choice (1-%d): ", n))
		if err != nil {
			return difficulty.Profile{}, err
		}

		p, err := g.menu.Parse(line)
		if err != nil {
			g.logger.Debug("menu input rejected",
				zap.String("state", SelectingDifficulty.String()),
				zap.Error(err),
			)
		}
		switch {
		case err == nil:
			return p, nil
		case errors.Is(err, difficulty.ErrNotANumber):
			err = g.warn("Please enter a valid number!")
		default:
			err = g.warn(fmt.Sprintf("Invalid choice! Please select %s.", choiceList(n)))
		}
		if err != nil {
			return difficulty.Profile{}, err
		}
	}
}

func (g *Game) read(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := g.port.WritePrompt(prompt); err != nil {
		return "", err
	}
	line, err := g.port.ReadLine()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return line, nil
}

func (g *Game) warn(msg string) error {
	return g.port.WriteLine(g.style.Paint(console.Yellow, msg))
}

func (g *Game) writeLines(lines ...string) error {
	for _, l := range lines {
		if err := g.port.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}

func bandColor(b hint.Band) string {
	switch b {
	case hint.Far:
		return console.BrightRed
	case hint.Near:
		return console.Magenta
	default:
		return console.Cyan
	}
}

// choiceList renders "1, 2, or 3" for n == 3.
func choiceList(n int) string {
	switch n {
	case 1:
		return "1"
	case 2:
		return "1 or 2"
	}
	parts := make([]string, n-1)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	return fmt.Sprintf("%s, or %d", strings.Join(parts, ", "), n)
}

// historyLine renders "Your guesses: 10 (Too low), 30 (Correct!)".
func historyLine(guesses []int, secret int, p difficulty.Profile) string {
	parts := make([]string, len(guesses))
	for i, v := range guesses {
		parts[i] = fmt.Sprintf("%d (%s)", v, guessTag(v, secret, p))
	}
	return "Your guesses: " + strings.Join(parts, ", ")
}

func guessTag(guess, secret int, p difficulty.Profile) string {
	if guess == secret {
		return "Correct!"
	}
	if hint.Evaluate(guess, secret, p.Min, p.Max).Direction == hint.High {
		return "Too high"
	}
	return "Too low"
}
