package molkky

import "fmt"

// ScoreResult is what a made throw did to the player.
type ScoreResult int

const (
	ScoreAdvance ScoreResult = iota // Points added, play passes on
	ScorePenalty                    // Target overshot, score dropped to the penalty value
	ScoreWin                        // Player won the game
)

// MissResult is what a missed throw did to the player.
type MissResult int

const (
	MissAdvance    MissResult = iota // Miss counted, play passes on
	MissPassed                       // Miss limit hit, counter reset, play passes on
	MissEliminated                   // Miss limit hit, player is out
)

// ScoringRules holds the only behaviour that differs between modes.
// Implementations mutate the player passed to them and report the outcome;
// turn rotation and game end are left to the engine.
type ScoringRules interface {
	Mode() Mode

	// ApplyScore adds points to a player whose miss counter was already cleared.
	ApplyScore(p *Player, points int) ScoreResult

	// ApplyMiss records one missed throw.
	ApplyMiss(p *Player) MissResult

	// Overflows reports whether reaching projected would trigger the overshoot penalty.
	Overflows(projected int) bool

	// Description is a one-line summary of the win condition.
	Description() string
}

// RulesFor builds the rules variant for a mode.
func RulesFor(mode Mode, s Settings) (ScoringRules, error) {
	switch mode {
	case ModeNormal:
		return NormalRules{Target: s.TargetScore, Penalty: s.PenaltyScore, MaxMisses: s.MaxMisses}, nil
	case ModeKids:
		return KidsRules{Target: s.TargetScore, MaxMisses: s.MaxMisses}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// NormalRules: win on exactly Target, overshoot falls back to Penalty,
// MaxMisses consecutive misses eliminate.
type NormalRules struct {
	Target    int
	Penalty   int
	MaxMisses int
}

func (NormalRules) Mode() Mode { return ModeNormal }

func (r NormalRules) ApplyScore(p *Player, points int) ScoreResult {
	total := p.Score + points
	switch {
	case total == r.Target:
		p.Score = total
		return ScoreWin
	case total > r.Target:
		p.Score = r.Penalty
		return ScorePenalty
	default:
		p.Score = total
		return ScoreAdvance
	}
}

func (r NormalRules) ApplyMiss(p *Player) MissResult {
	p.Misses++
	if p.Misses < r.MaxMisses {
		return MissAdvance
	}
	p.Eliminated = true
	return MissEliminated
}

func (r NormalRules) Overflows(projected int) bool {
	return projected > r.Target
}

func (r NormalRules) Description() string {
	return fmt.Sprintf("First to exactly %d points. Going over drops you back to %d. %d misses in a row and you're out.",
		r.Target, r.Penalty, r.MaxMisses)
}

// KidsRules: first to reach or pass Target wins, no overshoot penalty,
// hitting MaxMisses only resets the counter.
type KidsRules struct {
	Target    int
	MaxMisses int
}

func (KidsRules) Mode() Mode { return ModeKids }

func (r KidsRules) ApplyScore(p *Player, points int) ScoreResult {
	p.Score += points
	if p.Score >= r.Target {
		return ScoreWin
	}
	return ScoreAdvance
}

func (r KidsRules) ApplyMiss(p *Player) MissResult {
	p.Misses++
	if p.Misses < r.MaxMisses {
		return MissAdvance
	}
	p.Misses = 0
	return MissPassed
}

func (KidsRules) Overflows(int) bool {
	return false
}

func (r KidsRules) Description() string {
	return fmt.Sprintf("First to %d points or more. No overshoot penalty, nobody gets eliminated.", r.Target)
}
