// Package difficulty defines the fixed difficulty presets and parses the
// player's menu choice.
package difficulty

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

var (
	// ErrNotANumber is returned when the menu input is not an integer.
	ErrNotANumber = errors.New("difficulty: not a number")
	// ErrInvalidChoice is returned when the menu input is an integer outside the menu.
	ErrInvalidChoice = errors.New("difficulty: invalid choice")
)

// Profile is one difficulty preset.
//
// Invariant: Min < Max and MaxAttempts > 0.
type Profile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Min         int    `yaml:"min"`
	Max         int    `yaml:"max"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// Label returns the menu label, e.g. "Easy (1-50, 10 attempts)".
func (p Profile) Label() string {
	return fmt.Sprintf("%s (%d-%d, %d attempts)", p.Name, p.Min, p.Max, p.MaxAttempts)
}

// Validate checks the profile invariants.
func (p Profile) Validate() error {
	var errs []string
	if p.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if p.Min >= p.Max {
		errs = append(errs, fmt.Sprintf("min %d must be less than max %d", p.Min, p.Max))
	}
	if p.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("max_attempts must be >= 1, got %d", p.MaxAttempts))
	}
	if len(errs) > 0 {
		return fmt.Errorf("profile %q: %s", p.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Menu is the ordered list of selectable profiles. Choice N selects Profiles[N-1].
type Menu struct {
	Profiles []Profile
}

// LoadMenu parses a YAML preset list into a Menu.
//
// Postcondition: Returns a Menu with at least one valid profile or a non-nil error.
func LoadMenu(data []byte) (*Menu, error) {
	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing difficulty presets: %w", err)
	}
	if len(profiles) == 0 {
		return nil, errors.New("difficulty presets: no profiles defined")
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("difficulty presets: %w", err)
		}
	}
	return &Menu{Profiles: profiles}, nil
}

// DefaultMenu returns the built-in Easy/Medium/Hard menu.
//
// Postcondition: Returns the three built-in profiles in menu order.
func DefaultMenu() *Menu {
	m, err := LoadMenu(presetsYAML)
	if err != nil {
		panic("difficulty: built-in presets invalid: " + err.Error())
	}
	return m
}

// Lines returns the numbered menu lines, e.g. "1. Easy (1-50, 10 attempts)".
func (m *Menu) Lines() []string {
	lines := make([]string, len(m.Profiles))
	for i, p := range m.Profiles {
		lines[i] = fmt.Sprintf("%d. %s", i+1, p.Label())
	}
	return lines
}

// Choose returns the profile for a 1-based menu choice.
//
// Postcondition: Returns the matching Profile, or ErrInvalidChoice.
func (m *Menu) Choose(choice int) (Profile, error) {
	if choice < 1 || choice > len(m.Profiles) {
		return Profile{}, fmt.Errorf("%w: %d", ErrInvalidChoice, choice)
	}
	return m.Profiles[choice-1], nil
}

// Parse interprets one line of menu input.
//
// Postcondition: Returns the selected Profile, or an error wrapping
// ErrNotANumber or ErrInvalidChoice.
func (m *Menu) Parse(line string) (Profile, error) {
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if errors.Is(err, strconv.ErrRange) {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidChoice, line)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotANumber, line)
	}
	return m.Choose(choice)
}
