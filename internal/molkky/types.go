// Package molkky implements the Mölkky scoring engine: roster setup, turn
// rotation, pin scoring, penalties, eliminations and final ranking.
// It contains pure game logic with no terminal or storage dependencies.
package molkky

import "fmt"

// Default rule values.
const (
	TargetScore  = 50
	PenaltyScore = 25
	MaxMisses    = 3

	MinPin = 1
	MaxPin = 12

	MinPlayers = 2
	MaxPlayers = 8
)

// Mode selects the rule variant for a game.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeKids   Mode = "kids"
)

// Modes returns all supported modes in display order.
func Modes() []Mode {
	return []Mode{ModeNormal, ModeKids}
}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNormal, ModeKids:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Title returns the display name of the mode.
func (m Mode) Title() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeKids:
		return "Kids"
	default:
		return "Unknown"
	}
}

// State is the lifecycle phase of the engine.
type State int

const (
	StateSetup      State = iota // Roster editable, mode selectable
	StateInProgress              // Turn loop active
	StateFinished                // Terminal, holds the result
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateInProgress:
		return "in progress"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Player is one participant's standing in the current game.
type Player struct {
	Name       string
	Score      int
	Misses     int
	Eliminated bool
}

// reset clears game statistics while keeping the identity.
func (p *Player) reset() {
	p.Score = 0
	p.Misses = 0
	p.Eliminated = false
}

// Settings holds the numeric house rules. Zero values are not valid;
// start from DefaultSettings.
type Settings struct {
	TargetScore  int
	PenaltyScore int
	MaxMisses    int
	MinPlayers   int
	MaxPlayers   int
}

// DefaultSettings returns the standard Mölkky rules.
func DefaultSettings() Settings {
	return Settings{
		TargetScore:  TargetScore,
		PenaltyScore: PenaltyScore,
		MaxMisses:    MaxMisses,
		MinPlayers:   MinPlayers,
		MaxPlayers:   MaxPlayers,
	}
}

// Validate reports whether the settings describe a playable game.
// House rules may narrow the roster range but never leave [MinPlayers, MaxPlayers].
func (s Settings) Validate() error {
	switch {
	case s.TargetScore <= 0:
		return fmt.Errorf("molkky: target score must be positive, got %d", s.TargetScore)
	case s.PenaltyScore < 0 || s.PenaltyScore >= s.TargetScore:
		return fmt.Errorf("molkky: penalty score must be in [0, %d), got %d", s.TargetScore, s.PenaltyScore)
	case s.MaxMisses < 1:
		return fmt.Errorf("molkky: max misses must be at least 1, got %d", s.MaxMisses)
	case s.MinPlayers < MinPlayers:
		return fmt.Errorf("molkky: min players must be at least %d, got %d", MinPlayers, s.MinPlayers)
	case s.MaxPlayers > MaxPlayers:
		return fmt.Errorf("molkky: max players must be at most %d, got %d", MaxPlayers, s.MaxPlayers)
	case s.MaxPlayers < s.MinPlayers:
		return fmt.Errorf("molkky: max players (%d) below min players (%d)", s.MaxPlayers, s.MinPlayers)
	}
	return nil
}

// Preview is the projected effect of the pending pin selection.
type Preview struct {
	Points    int  // Points the selection would score
	Current   int  // Current player's score before the turn
	Projected int  // Current + Points
	Overflow  bool // Normal mode only: Projected exceeds the target
}

// GameResult is the terminal snapshot of a finished game.
type GameResult struct {
	Mode    Mode
	Winner  *Player // nil when every player was eliminated
	Ranking []Player
	Turns   int
}

// Snapshot is an immutable copy of the engine state for rendering.
type Snapshot struct {
	State        State
	Mode         Mode
	Settings     Settings
	Players      []Player
	CurrentIndex int
	Selection    PinSet
	Preview      Preview
	Turns        int
	Result       *GameResult
}

// Current returns the player whose turn it is, if a game is running.
func (s Snapshot) Current() (Player, bool) {
	if s.State != StateInProgress || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentIndex], true
}
