package molkky

import (
	"sort"
	"strings"
)

// OutcomeKind classifies the result of a turn operation.
type OutcomeKind int

const (
	OutcomeNone       OutcomeKind = iota // Nothing happened (validated an empty selection)
	OutcomeContinue                      // Turn ended normally
	OutcomePenalty                       // Target overshot, score reset to the penalty value
	OutcomeEliminated                    // Thrower eliminated, game goes on
	OutcomeWin                           // Game over with a winner
	OutcomeNoWinner                      // Game over, nobody left standing
)

// String returns a human-readable name for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNone:
		return "none"
	case OutcomeContinue:
		return "continue"
	case OutcomePenalty:
		return "penalty"
	case OutcomeEliminated:
		return "eliminated"
	case OutcomeWin:
		return "win"
	case OutcomeNoWinner:
		return "no winner"
	default:
		return "unknown"
	}
}

// TurnOutcome is returned by ValidateTurn and RegisterMiss.
type TurnOutcome struct {
	Kind    OutcomeKind
	Thrower Player      // Player whose turn it was, after the turn was applied
	Points  int         // Points scored (0 for a miss)
	Passed  bool        // Kids mode: miss limit reached, counter reset
	Next    Player      // Player to throw next; zero when the game ended
	Result  *GameResult // Set for OutcomeWin and OutcomeNoWinner
}

// Finished reports whether the outcome ended the game.
func (o TurnOutcome) Finished() bool {
	return o.Kind == OutcomeWin || o.Kind == OutcomeNoWinner
}

// Engine is the authoritative game state machine.
// It is not safe for concurrent use; callers serialize operations.
type Engine struct {
	settings Settings
	mode     Mode
	rules    ScoringRules
	state    State

	players   []Player
	current   int
	selection PinSet
	turns     int

	winner int // Index of the winner, -1 if none
	result *GameResult
}

// New creates an engine in the setup state.
func New(s Settings) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		settings: s,
		mode:     ModeNormal,
		state:    StateSetup,
		winner:   -1,
	}, nil
}

// NewDefault creates an engine with DefaultSettings.
func NewDefault() *Engine {
	e, _ := New(DefaultSettings())
	return e
}

// --- Setup ---

// AddPlayer appends a player to the roster. Names are trimmed and must be
// unique regardless of case.
func (e *Engine) AddPlayer(name string) error {
	if e.state != StateSetup {
		return stateError("add player", e.state)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &RosterError{Kind: ErrEmptyName}
	}
	if len(e.players) >= e.settings.MaxPlayers {
		return &RosterError{Kind: ErrRosterFull, Limit: e.settings.MaxPlayers}
	}
	for _, p := range e.players {
		if strings.EqualFold(p.Name, name) {
			return &RosterError{Kind: ErrDuplicateName, Name: name}
		}
	}
	e.players = append(e.players, Player{Name: name})
	return nil
}

// RemovePlayer drops the player at index from the roster.
func (e *Engine) RemovePlayer(index int) error {
	if e.state != StateSetup {
		return stateError("remove player", e.state)
	}
	if index < 0 || index >= len(e.players) {
		return ErrPlayerIndex
	}
	e.players = append(e.players[:index], e.players[index+1:]...)
	return nil
}

// SetMode selects the rule variant for the next game.
func (e *Engine) SetMode(mode Mode) error {
	if e.state != StateSetup {
		return stateError("set mode", e.state)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	e.mode = mode
	return nil
}

// StartGame resets every player and hands the first turn to the first player.
func (e *Engine) StartGame() error {
	if e.state != StateSetup {
		return stateError("start game", e.state)
	}
	if len(e.players) < e.settings.MinPlayers {
		return &RosterError{Kind: ErrTooFewPlayers, Limit: e.settings.MinPlayers}
	}
	rules, err := RulesFor(e.mode, e.settings)
	if err != nil {
		return err
	}

	e.rules = rules
	for i := range e.players {
		e.players[i].reset()
	}
	e.current = 0
	e.selection = 0
	e.turns = 0
	e.winner = -1
	e.result = nil
	e.state = StateInProgress
	return nil
}

// NewGame returns to setup, keeping roster names and order but clearing
// all statistics. Calling it during setup does nothing.
func (e *Engine) NewGame() {
	if e.state == StateSetup {
		return
	}
	for i := range e.players {
		e.players[i].reset()
	}
	e.rules = nil
	e.current = 0
	e.selection = 0
	e.turns = 0
	e.winner = -1
	e.result = nil
	e.state = StateSetup
}

// --- Pin selection ---

func (e *Engine) checkPin(op string, pin int) error {
	if e.state != StateInProgress {
		return stateError(op, e.state)
	}
	if !ValidPin(pin) {
		return ErrInvalidPin
	}
	return nil
}

// SelectPin marks pin as knocked down for the current turn.
func (e *Engine) SelectPin(pin int) error {
	if err := e.checkPin("select pin", pin); err != nil {
		return err
	}
	e.selection = e.selection.With(pin)
	return nil
}

// DeselectPin unmarks pin for the current turn.
func (e *Engine) DeselectPin(pin int) error {
	if err := e.checkPin("deselect pin", pin); err != nil {
		return err
	}
	e.selection = e.selection.Without(pin)
	return nil
}

// TogglePin flips pin's selection.
func (e *Engine) TogglePin(pin int) error {
	if err := e.checkPin("toggle pin", pin); err != nil {
		return err
	}
	e.selection = e.selection.Toggle(pin)
	return nil
}

// ClearSelection unmarks every pin.
func (e *Engine) ClearSelection() error {
	if e.state != StateInProgress {
		return stateError("clear selection", e.state)
	}
	e.selection = 0
	return nil
}

// Selection returns the pins marked for the current turn.
func (e *Engine) Selection() PinSet {
	return e.selection
}

// PreviewScore projects the pending selection onto the current player.
// Outside a running game it returns the zero Preview.
func (e *Engine) PreviewScore() Preview {
	if e.state != StateInProgress {
		return Preview{}
	}
	cur := e.players[e.current].Score
	points := e.selection.Points()
	projected := cur + points
	return Preview{
		Points:    points,
		Current:   cur,
		Projected: projected,
		Overflow:  e.rules.Overflows(projected),
	}
}

// --- Turns ---

// ValidateTurn scores the pending selection for the current player.
// An empty selection is ignored and reported as OutcomeNone.
func (e *Engine) ValidateTurn() (TurnOutcome, error) {
	if e.state != StateInProgress {
		return TurnOutcome{}, stateError("validate turn", e.state)
	}
	if e.selection.Empty() {
		return TurnOutcome{Kind: OutcomeNone}, nil
	}

	p := &e.players[e.current]
	points := e.selection.Points()
	e.selection = 0
	e.turns++

	// Any made throw clears the miss streak, even one that overshoots.
	p.Misses = 0
	out := TurnOutcome{Kind: OutcomeContinue, Points: points}

	switch e.rules.ApplyScore(p, points) {
	case ScoreWin:
		out.Kind = OutcomeWin
		out.Thrower = *p
		e.finish(e.current)
		out.Result = e.Result()
		return out, nil
	case ScorePenalty:
		out.Kind = OutcomePenalty
	}

	out.Thrower = *p
	return e.advance(out), nil
}

// RegisterMiss records a throw that knocked nothing down.
func (e *Engine) RegisterMiss() (TurnOutcome, error) {
	if e.state != StateInProgress {
		return TurnOutcome{}, stateError("register miss", e.state)
	}

	p := &e.players[e.current]
	e.selection = 0
	e.turns++
	out := TurnOutcome{Kind: OutcomeContinue}

	switch e.rules.ApplyMiss(p) {
	case MissPassed:
		out.Passed = true
	case MissEliminated:
		out.Kind = OutcomeEliminated
		out.Thrower = *p

		active := e.activeIndexes()
		switch len(active) {
		case 0:
			e.finish(-1)
			out.Kind = OutcomeNoWinner
			out.Result = e.Result()
			return out, nil
		case 1:
			e.finish(active[0])
			out.Kind = OutcomeWin
			out.Result = e.Result()
			return out, nil
		}
	}

	out.Thrower = *p
	return e.advance(out), nil
}

// advance moves the turn to the next active player, wrapping around the
// roster. If nobody is left the game finishes without a winner.
func (e *Engine) advance(out TurnOutcome) TurnOutcome {
	n := len(e.players)
	next := e.current
	for i := 0; i < n; i++ {
		next = (next + 1) % n
		if !e.players[next].Eliminated {
			e.current = next
			out.Next = e.players[next]
			return out
		}
	}

	e.finish(-1)
	out.Kind = OutcomeNoWinner
	out.Result = e.Result()
	return out
}

// finish ends the game. winner is a roster index, or -1 for no winner.
func (e *Engine) finish(winner int) {
	e.state = StateFinished
	e.selection = 0
	e.winner = winner

	res := &GameResult{
		Mode:    e.mode,
		Ranking: rank(e.players, winner),
		Turns:   e.turns,
	}
	if winner >= 0 {
		w := e.players[winner]
		res.Winner = &w
	}
	e.result = res
}

// rank orders players: winner first, then players still in the game, then
// by descending score. Equal players keep roster order.
func rank(players []Player, winner int) []Player {
	order := make([]int, len(players))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := players[order[a]], players[order[b]]
		if (order[a] == winner) != (order[b] == winner) {
			return order[a] == winner
		}
		if pa.Eliminated != pb.Eliminated {
			return !pa.Eliminated
		}
		return pa.Score > pb.Score
	})

	ranked := make([]Player, len(order))
	for i, idx := range order {
		ranked[i] = players[idx]
	}
	return ranked
}

func (e *Engine) activeIndexes() []int {
	var idx []int
	for i, p := range e.players {
		if !p.Eliminated {
			idx = append(idx, i)
		}
	}
	return idx
}

// --- Queries ---

// State returns the current lifecycle phase.
func (e *Engine) State() State { return e.state }

// Mode returns the selected mode.
func (e *Engine) Mode() Mode { return e.mode }

// Settings returns the house rules the engine was built with.
func (e *Engine) Settings() Settings { return e.settings }

// Turns returns the number of turns played in the current game.
func (e *Engine) Turns() int { return e.turns }

// CurrentPlayer returns the player whose turn it is.
// The second value is false unless a game is in progress.
func (e *Engine) CurrentPlayer() (Player, bool) {
	if e.state != StateInProgress {
		return Player{}, false
	}
	return e.players[e.current], true
}

// Players returns a copy of the roster in turn order.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	copy(out, e.players)
	return out
}

// ActivePlayers returns the players not eliminated, in turn order.
func (e *Engine) ActivePlayers() []Player {
	var out []Player
	for _, p := range e.players {
		if !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// Standings returns the roster ranked as it would be if the game ended now.
// Once finished it matches the final ranking.
func (e *Engine) Standings() []Player {
	return rank(e.players, e.winner)
}

// Result returns a copy of the final result, or nil while the game is not finished.
func (e *Engine) Result() *GameResult {
	if e.result == nil {
		return nil
	}
	res := *e.result
	res.Ranking = append([]Player(nil), e.result.Ranking...)
	if e.result.Winner != nil {
		w := *e.result.Winner
		res.Winner = &w
	}
	return &res
}

// Snapshot returns an immutable copy of the full engine state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:        e.state,
		Mode:         e.mode,
		Settings:     e.settings,
		Players:      e.Players(),
		CurrentIndex: e.current,
		Selection:    e.selection,
		Preview:      e.PreviewScore(),
		Turns:        e.turns,
		Result:       e.Result(),
	}
}
