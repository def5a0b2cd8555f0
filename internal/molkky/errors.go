package molkky

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned when an operation is called in the wrong phase.
	ErrInvalidState = errors.New("operation not allowed in current state")
	ErrInvalidPin   = errors.New("invalid pin")
	ErrPlayerIndex  = errors.New("player index out of range")
	ErrUnknownMode  = errors.New("unknown mode")

	// Roster error kinds. Match them with errors.Is.
	ErrEmptyName     = errors.New("player name is empty")
	ErrDuplicateName = errors.New("player name already taken")
	ErrRosterFull    = errors.New("roster is full")
	ErrTooFewPlayers = errors.New("not enough players")
)

// RosterError describes a rejected roster change or game start.
type RosterError struct {
	Kind  error  // One of the Err*Name / ErrRosterFull / ErrTooFewPlayers sentinels
	Name  string // Offending name, if any
	Limit int    // Roster bound that was hit, if any
}

func (e *RosterError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%v: %q", e.Kind, e.Name)
	case e.Limit > 0 && errors.Is(e.Kind, ErrTooFewPlayers):
		return fmt.Sprintf("%v (min %d)", e.Kind, e.Limit)
	case e.Limit > 0:
		return fmt.Sprintf("%v (max %d)", e.Kind, e.Limit)
	default:
		return e.Kind.Error()
	}
}

func (e *RosterError) Unwrap() error {
	return e.Kind
}

func stateError(op string, s State) error {
	return fmt.Errorf("%s while %s: %w", op, s, ErrInvalidState)
}
