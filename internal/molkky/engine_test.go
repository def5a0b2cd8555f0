package molkky

import (
	"errors"
	"testing"
)

// newStartedGame builds an engine with the given roster and starts it.
func newStartedGame(t *testing.T, mode Mode, names ...string) *Engine {
	t.Helper()
	e := NewDefault()
	for _, n := range names {
		if err := e.AddPlayer(n); err != nil {
			t.Fatalf("AddPlayer(%q) failed: %v", n, err)
		}
	}
	if err := e.SetMode(mode); err != nil {
		t.Fatalf("SetMode(%q) failed: %v", mode, err)
	}
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame() failed: %v", err)
	}
	return e
}

// throw selects pins and validates the turn.
func throw(t *testing.T, e *Engine, pins ...int) TurnOutcome {
	t.Helper()
	for _, p := range pins {
		if err := e.SelectPin(p); err != nil {
			t.Fatalf("SelectPin(%d) failed: %v", p, err)
		}
	}
	out, err := e.ValidateTurn()
	if err != nil {
		t.Fatalf("ValidateTurn() failed: %v", err)
	}
	return out
}

func miss(t *testing.T, e *Engine) TurnOutcome {
	t.Helper()
	out, err := e.RegisterMiss()
	if err != nil {
		t.Fatalf("RegisterMiss() failed: %v", err)
	}
	return out
}

func names(players []Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func equalNames(a []Player, want ...string) bool {
	got := names(a)
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestAddPlayerErrors(t *testing.T) {
	e := NewDefault()
	if err := e.AddPlayer("Alice"); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "empty", in: "", want: ErrEmptyName},
		{name: "whitespace", in: "   ", want: ErrEmptyName},
		{name: "duplicate", in: "Alice", want: ErrDuplicateName},
		{name: "duplicate other case", in: "aLiCe", want: ErrDuplicateName},
		{name: "duplicate padded", in: " alice ", want: ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.AddPlayer(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddPlayer(%q) error = %v, want %v", tt.in, err, tt.want)
			}
			var re *RosterError
			if !errors.As(err, &re) {
				t.Errorf("AddPlayer(%q) error %T is not a *RosterError", tt.in, err)
			}
		})
	}
}

func TestAddPlayerRosterFull(t *testing.T) {
	e := NewDefault()
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		if err := e.AddPlayer(n); err != nil {
			t.Fatalf("AddPlayer(%q) failed: %v", n, err)
		}
	}
	err := e.AddPlayer("I")
	if !errors.Is(err, ErrRosterFull) {
		t.Fatalf("ninth player error = %v, want ErrRosterFull", err)
	}
	var re *RosterError
	if errors.As(err, &re) && re.Limit != MaxPlayers {
		t.Errorf("RosterError.Limit = %d, want %d", re.Limit, MaxPlayers)
	}
}

func TestStartGameTooFewPlayers(t *testing.T) {
	e := NewDefault()
	if err := e.StartGame(); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("StartGame with 0 players error = %v, want ErrTooFewPlayers", err)
	}
	e.AddPlayer("Solo")
	if err := e.StartGame(); !errors.Is(err, ErrTooFewPlayers) {
		t.Errorf("StartGame with 1 player error = %v, want ErrTooFewPlayers", err)
	}
	if e.State() != StateSetup {
		t.Errorf("state = %v, want setup", e.State())
	}
}

func TestRemovePlayer(t *testing.T) {
	e := NewDefault()
	for _, n := range []string{"A", "B", "C"} {
		e.AddPlayer(n)
	}
	if err := e.RemovePlayer(1); err != nil {
		t.Fatalf("RemovePlayer(1) failed: %v", err)
	}
	if !equalNames(e.Players(), "A", "C") {
		t.Errorf("roster = %v, want [A C]", names(e.Players()))
	}
	if err := e.RemovePlayer(5); !errors.Is(err, ErrPlayerIndex) {
		t.Errorf("RemovePlayer(5) error = %v, want ErrPlayerIndex", err)
	}
	// Removed names become available again.
	if err := e.AddPlayer("b"); err != nil {
		t.Errorf("re-adding removed name failed: %v", err)
	}
}

func TestOperationsRejectedInWrongState(t *testing.T) {
	e := NewDefault()
	e.AddPlayer("A")
	e.AddPlayer("B")

	if err := e.SelectPin(3); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SelectPin in setup error = %v, want ErrInvalidState", err)
	}
	if _, err := e.ValidateTurn(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ValidateTurn in setup error = %v, want ErrInvalidState", err)
	}
	if _, err := e.RegisterMiss(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RegisterMiss in setup error = %v, want ErrInvalidState", err)
	}

	e.StartGame()
	if err := e.AddPlayer("C"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("AddPlayer in progress error = %v, want ErrInvalidState", err)
	}
	if err := e.SetMode(ModeKids); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetMode in progress error = %v, want ErrInvalidState", err)
	}
	if err := e.RemovePlayer(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RemovePlayer in progress error = %v, want ErrInvalidState", err)
	}
	if err := e.SelectPin(13); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("SelectPin(13) error = %v, want ErrInvalidPin", err)
	}

	e.players[0].Score = 40
	throw(t, e, 10)
	if e.State() != StateFinished {
		t.Fatalf("state = %v, want finished", e.State())
	}
	if err := e.SelectPin(1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SelectPin when finished error = %v, want ErrInvalidState", err)
	}
	if _, err := e.RegisterMiss(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RegisterMiss when finished error = %v, want ErrInvalidState", err)
	}
	if err := e.StartGame(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("StartGame when finished error = %v, want ErrInvalidState", err)
	}
}

func TestValidateEmptySelectionIsNoop(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	out, err := e.ValidateTurn()
	if err != nil {
		t.Fatalf("ValidateTurn with no pins returned error: %v", err)
	}
	if out.Kind != OutcomeNone {
		t.Errorf("outcome = %v, want none", out.Kind)
	}
	if cur, _ := e.CurrentPlayer(); cur.Name != "A" {
		t.Errorf("turn moved to %q on a no-op", cur.Name)
	}
	if e.Turns() != 0 {
		t.Errorf("turns = %d, want 0", e.Turns())
	}
}

func TestPreviewScore(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")

	if p := e.PreviewScore(); p.Points != 0 || p.Projected != 0 || p.Overflow {
		t.Errorf("empty preview = %+v", p)
	}

	for pin := MinPin; pin <= MaxPin; pin++ {
		e.ClearSelection()
		e.SelectPin(pin)
		if p := e.PreviewScore(); p.Points != pin {
			t.Errorf("single pin %d previewed %d points", pin, p.Points)
		}
	}

	e.ClearSelection()
	e.SelectPin(11)
	e.SelectPin(12)
	e.SelectPin(1)
	if p := e.PreviewScore(); p.Points != 3 {
		t.Errorf("three pins previewed %d points, want 3", p.Points)
	}

	e.DeselectPin(11)
	e.DeselectPin(1)
	e.players[0].Score = 45
	p := e.PreviewScore()
	if p.Points != 12 || p.Current != 45 || p.Projected != 57 || !p.Overflow {
		t.Errorf("overflow preview = %+v", p)
	}
}

func TestPreviewNoOverflowInKids(t *testing.T) {
	e := newStartedGame(t, ModeKids, "A", "B")
	e.players[0].Score = 45
	e.SelectPin(12)
	if p := e.PreviewScore(); p.Overflow || p.Projected != 57 {
		t.Errorf("kids preview = %+v, want projected 57 without overflow", p)
	}
}

func TestTogglePinTwiceRestoresSelection(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	e.SelectPin(5)
	before := e.Selection()
	e.TogglePin(8)
	e.TogglePin(8)
	if e.Selection() != before {
		t.Errorf("selection after double toggle = %v, want %v", e.Selection().Pins(), before.Pins())
	}
}

func TestNormalExactTargetWins(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C")
	e.players[0].Score = 43
	e.players[1].Score = 30

	out := throw(t, e, 7)
	if out.Kind != OutcomeWin {
		t.Fatalf("outcome = %v, want win", out.Kind)
	}
	if out.Result == nil || out.Result.Winner == nil || out.Result.Winner.Name != "A" {
		t.Fatalf("winner = %+v, want A", out.Result)
	}
	if out.Result.Winner.Score != 50 {
		t.Errorf("winner score = %d, want 50", out.Result.Winner.Score)
	}
	if !equalNames(out.Result.Ranking, "A", "B", "C") {
		t.Errorf("ranking = %v", names(out.Result.Ranking))
	}
	if e.State() != StateFinished {
		t.Errorf("state = %v, want finished", e.State())
	}
	if _, ok := e.CurrentPlayer(); ok {
		t.Error("CurrentPlayer should report false after the game ended")
	}
}

func TestNormalOverflowPenalty(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	e.players[0].Score = 48
	e.players[0].Misses = 2

	out := throw(t, e, 5)
	if out.Kind != OutcomePenalty {
		t.Fatalf("outcome = %v, want penalty", out.Kind)
	}
	if out.Thrower.Score != PenaltyScore {
		t.Errorf("score after overflow = %d, want %d", out.Thrower.Score, PenaltyScore)
	}
	if out.Thrower.Misses != 0 {
		t.Errorf("misses after made throw = %d, want 0", out.Thrower.Misses)
	}
	if out.Thrower.Eliminated {
		t.Error("overflow must not eliminate")
	}
	if out.Next.Name != "B" || e.State() != StateInProgress {
		t.Errorf("next = %q state = %v, want B in progress", out.Next.Name, e.State())
	}
}

func TestKidsReachOrExceedTargetWins(t *testing.T) {
	tests := []struct {
		name  string
		start int
		pins  []int
		want  int
	}{
		{name: "exact", start: 38, pins: []int{12}, want: 50},
		{name: "over", start: 45, pins: []int{12}, want: 57},
		{name: "over by count", start: 49, pins: []int{1, 2, 3}, want: 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newStartedGame(t, ModeKids, "A", "B")
			e.players[0].Score = tt.start
			out := throw(t, e, tt.pins...)
			if out.Kind != OutcomeWin {
				t.Fatalf("outcome = %v, want win", out.Kind)
			}
			if out.Result.Winner.Score != tt.want {
				t.Errorf("winner score = %d, want %d", out.Result.Winner.Score, tt.want)
			}
		})
	}
}

func TestKidsNeverPenalized(t *testing.T) {
	e := newStartedGame(t, ModeKids, "A", "B")
	for i := 0; i < 40; i++ {
		before, _ := e.CurrentPlayer()
		out := throw(t, e, 3)
		if out.Kind == OutcomePenalty {
			t.Fatal("kids mode produced a penalty")
		}
		if out.Thrower.Score != before.Score+3 {
			t.Fatalf("score went from %d to %d", before.Score, out.Thrower.Score)
		}
		if out.Finished() {
			return
		}
	}
	t.Fatal("kids game never finished")
}

func TestThreeMissesEliminateInNormal(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C")

	// A misses on each of their turns; B and C score.
	for round := 1; round <= 3; round++ {
		out := miss(t, e)
		if round < 3 {
			if out.Kind != OutcomeContinue || out.Thrower.Misses != round {
				t.Fatalf("round %d: outcome %v misses %d", round, out.Kind, out.Thrower.Misses)
			}
			throw(t, e, 1)
			throw(t, e, 1)
			continue
		}
		if out.Kind != OutcomeEliminated || !out.Thrower.Eliminated {
			t.Fatalf("third miss outcome = %v eliminated=%v", out.Kind, out.Thrower.Eliminated)
		}
		if out.Next.Name != "B" {
			t.Errorf("next after elimination = %q, want B", out.Next.Name)
		}
	}

	if got := len(e.ActivePlayers()); got != 2 {
		t.Errorf("active players = %d, want 2", got)
	}
}

func TestMadeThrowResetsMissStreak(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	miss(t, e) // A
	throw(t, e, 2)
	miss(t, e) // A
	throw(t, e, 2)
	throw(t, e, 4) // A scores, streak reset
	throw(t, e, 2)
	out := miss(t, e) // A
	if out.Thrower.Misses != 1 || out.Kind != OutcomeContinue {
		t.Errorf("misses after reset = %d kind = %v, want 1 continue", out.Thrower.Misses, out.Kind)
	}
}

func TestThreeMissesPassInKids(t *testing.T) {
	e := newStartedGame(t, ModeKids, "A", "B")
	var out TurnOutcome
	for i := 0; i < 3; i++ {
		out = miss(t, e) // A
		if i < 2 {
			miss(t, e) // B
		}
	}
	if out.Kind != OutcomeContinue || !out.Passed {
		t.Fatalf("third kids miss outcome = %v passed=%v", out.Kind, out.Passed)
	}
	if out.Thrower.Misses != 0 || out.Thrower.Eliminated {
		t.Errorf("kids player after pass: misses=%d eliminated=%v", out.Thrower.Misses, out.Thrower.Eliminated)
	}
	if out.Next.Name != "B" {
		t.Errorf("pass must hand the turn on, next = %q", out.Next.Name)
	}
}

func TestEliminationLeavingOnePlayerWins(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	e.players[0].Misses = 2
	e.players[1].Score = 12

	out := miss(t, e)
	if out.Kind != OutcomeWin {
		t.Fatalf("outcome = %v, want win", out.Kind)
	}
	if out.Thrower.Name != "A" || !out.Thrower.Eliminated {
		t.Errorf("thrower = %+v, want eliminated A", out.Thrower)
	}
	if out.Result.Winner == nil || out.Result.Winner.Name != "B" {
		t.Fatalf("winner = %+v, want B", out.Result.Winner)
	}
	if !equalNames(out.Result.Ranking, "B", "A") || !out.Result.Ranking[1].Eliminated {
		t.Errorf("ranking = %+v, want [B, A(eliminated)]", out.Result.Ranking)
	}
}

func TestRotationSkipsEliminatedAndWraps(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C", "D")
	e.players[1].Eliminated = true
	e.players[2].Eliminated = true

	out := throw(t, e, 1) // A
	if out.Next.Name != "D" {
		t.Fatalf("next after A = %q, want D", out.Next.Name)
	}
	if got := e.Snapshot().CurrentIndex; got != 3 {
		t.Fatalf("snapshot current index = %d, want 3", got)
	}
	out = throw(t, e, 1) // D
	if out.Next.Name != "A" {
		t.Fatalf("next after D = %q, want A (wrap)", out.Next.Name)
	}

	for i := 0; i < 20 && e.State() == StateInProgress; i++ {
		cur, _ := e.CurrentPlayer()
		if cur.Eliminated {
			t.Fatalf("turn %d landed on eliminated %q", i, cur.Name)
		}
		if i%3 == 0 {
			miss(t, e)
		} else {
			throw(t, e, 1, 2)
		}
	}
}

func TestRotationInvariantRandomPlay(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C", "D", "E")
	// Deterministic mix of throws and misses.
	pattern := []int{0, 7, 0, 0, 12, 3, 0, 0, 5, 0, 11, 0, 0, 9, 0}
	for i := 0; i < 300 && e.State() == StateInProgress; i++ {
		cur, ok := e.CurrentPlayer()
		if !ok || cur.Eliminated {
			t.Fatalf("step %d: current player %+v not active", i, cur)
		}
		if pin := pattern[i%len(pattern)]; pin == 0 {
			miss(t, e)
		} else {
			throw(t, e, pin)
		}
	}
}

func TestScenarioThreePlayers(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C")

	out := throw(t, e, 7)
	if out.Thrower.Score != 7 || out.Next.Name != "B" {
		t.Fatalf("A: score %d next %q", out.Thrower.Score, out.Next.Name)
	}
	out = throw(t, e, 3, 9)
	if out.Points != 2 || out.Thrower.Score != 2 || out.Next.Name != "C" {
		t.Fatalf("B: points %d score %d next %q", out.Points, out.Thrower.Score, out.Next.Name)
	}
	out = throw(t, e, 4)
	if out.Next.Name != "A" {
		t.Fatalf("C: next %q", out.Next.Name)
	}

	e.players[0].Score = 48
	out = throw(t, e, 5)
	if out.Kind != OutcomePenalty || out.Thrower.Score != 25 {
		t.Fatalf("A overflow: kind %v score %d", out.Kind, out.Thrower.Score)
	}
	if out.Thrower.Eliminated || out.Next.Name != "B" {
		t.Errorf("A overflow: eliminated=%v next=%q", out.Thrower.Eliminated, out.Next.Name)
	}
}

func TestNewGameRoundTrip(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "Alice", "Bob", "Cleo")
	throw(t, e, 9)
	miss(t, e)
	e.players[2].Eliminated = true

	e.NewGame()
	if e.State() != StateSetup {
		t.Fatalf("state after NewGame = %v, want setup", e.State())
	}
	if err := e.StartGame(); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	if !equalNames(e.Players(), "Alice", "Bob", "Cleo") {
		t.Errorf("roster = %v", names(e.Players()))
	}
	for _, p := range e.Players() {
		if p.Score != 0 || p.Misses != 0 || p.Eliminated {
			t.Errorf("player %+v not reset", p)
		}
	}
	if cur, _ := e.CurrentPlayer(); cur.Name != "Alice" {
		t.Errorf("first player = %q, want Alice", cur.Name)
	}
	if !e.Selection().Empty() || e.Turns() != 0 || e.Result() != nil {
		t.Error("turn state not reset")
	}
}

func TestFinishWithoutWinner(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B", "C")
	e.players[0].Score = 10
	e.players[1].Score = 30
	e.players[2].Score = 20
	for i := range e.players {
		e.players[i].Eliminated = true
	}

	e.finish(-1)
	res := e.Result()
	if res == nil || res.Winner != nil {
		t.Fatalf("result = %+v, want no winner", res)
	}
	if !equalNames(res.Ranking, "B", "C", "A") {
		t.Errorf("ranking = %v, want [B C A]", names(res.Ranking))
	}
}

func TestAdvanceWithNobodyLeftFinishes(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	for i := range e.players {
		e.players[i].Eliminated = true
	}
	out := e.advance(TurnOutcome{Kind: OutcomeContinue})
	if out.Kind != OutcomeNoWinner || out.Result == nil || out.Result.Winner != nil {
		t.Errorf("advance with nobody active = %+v", out)
	}
	if e.State() != StateFinished {
		t.Errorf("state = %v, want finished", e.State())
	}
}

func TestRankingOrder(t *testing.T) {
	players := []Player{
		{Name: "A", Score: 20},
		{Name: "B", Score: 40, Eliminated: true},
		{Name: "C", Score: 35},
		{Name: "D", Score: 20},
		{Name: "E", Score: 50},
		{Name: "F", Score: 10, Eliminated: true},
	}

	got := rank(players, 4)
	if !equalNames(got, "E", "C", "A", "D", "B", "F") {
		t.Errorf("rank with winner = %v", names(got))
	}

	got = rank(players, -1)
	if !equalNames(got, "E", "C", "A", "D", "B", "F") {
		t.Errorf("rank without winner = %v", names(got))
	}

	// Winner comes first even with a lower score.
	got = rank(players, 0)
	if !equalNames(got, "A", "E", "C", "D", "B", "F") {
		t.Errorf("rank with low-score winner = %v", names(got))
	}
}

func TestStandingsAndSnapshotAreCopies(t *testing.T) {
	e := newStartedGame(t, ModeNormal, "A", "B")
	throw(t, e, 6)

	standings := e.Standings()
	standings[0].Score = 999
	snap := e.Snapshot()
	snap.Players[0].Score = 999

	if p := e.Players()[0]; p.Score != 6 {
		t.Errorf("engine state mutated through copies: score %d", p.Score)
	}
	if cur, ok := snap.Current(); !ok || cur.Name != "B" {
		t.Errorf("snapshot current = %+v", cur)
	}
	if snap.Turns != 1 || snap.State != StateInProgress {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{name: "penalty above target", modify: func(s *Settings) { s.PenaltyScore = 60 }},
		{name: "solo roster", modify: func(s *Settings) { s.MinPlayers = 1 }},
		{name: "roster of twenty", modify: func(s *Settings) { s.MaxPlayers = 20 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			if _, err := New(s); err == nil {
				t.Errorf("New accepted %+v", s)
			}
		})
	}
}

func TestCustomSettings(t *testing.T) {
	e, err := New(Settings{TargetScore: 30, PenaltyScore: 15, MaxMisses: 2, MinPlayers: 2, MaxPlayers: 4})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	e.AddPlayer("A")
	e.AddPlayer("B")
	e.StartGame()
	e.players[0].Score = 25
	out := throw(t, e, 7)
	if out.Kind != OutcomePenalty || out.Thrower.Score != 15 {
		t.Errorf("custom overflow = %v score %d", out.Kind, out.Thrower.Score)
	}
	miss(t, e) // B
	miss(t, e) // A
	out = miss(t, e) // B reaches the two-miss limit
	if out.Kind != OutcomeWin || out.Result.Winner.Name != "A" {
		t.Errorf("two-miss limit outcome = %v", out.Kind)
	}
}
