// Package persona maps scam categories to engagement personas and turn
// counts to strategy phases. Both selectors are pure functions.
package persona

import (
	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// Thresholds are the turn-count boundaries between strategy phases.
type Thresholds struct {
	// RapportTurns is the first boundary: turns below it build rapport.
	RapportTurns int
	// StallTurns is the second boundary: turns below it stall; at or
	// above it the session actively probes for identifiers.
	StallTurns int
}

// DefaultThresholds match the standard engagement curve.
func DefaultThresholds() Thresholds {
	return Thresholds{RapportTurns: 3, StallTurns: 8}
}

// Select returns the persona for a scam category. Lottery and prize
// scams get an eager winner; authority and threat scams get a fearful
// elder; investment pitches get a greedy novice; everything ambiguous
// gets a confused skeptic. Deterministic: same category, same persona.
func Select(category model.ScamCategory, language string) model.Persona {
	switch category {
	case model.CategoryLottery:
		return model.PersonaEagerWinner
	case model.CategoryAuthority:
		return model.PersonaFearfulElder
	case model.CategoryInvestment:
		return model.PersonaGreedyInvestor
	default:
		return model.PersonaConfusedSkeptic
	}
}

// Strategy returns the phase for a turn count against the thresholds.
func Strategy(turnCount int, t Thresholds) model.StrategyPhase {
	switch {
	case turnCount < t.RapportTurns:
		return model.StrategyBuildRapport
	case turnCount < t.StallTurns:
		return model.StrategyStall
	default:
		return model.StrategyProbe
	}
}
