package extract

import (
	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// Evidence captures the signals backing one extracted entity. A single
// combinator turns evidence into a confidence score for every entity
// type so the scoring rule lives in one place.
type Evidence struct {
	// StrictMatch is true when the value matched the strict form of
	// its pattern rather than a looser fallback.
	StrictMatch bool

	// ContextValid is true when disambiguation filters passed without
	// conflict.
	ContextValid bool

	// Observations is the number of distinct sightings of the value
	// across turns.
	Observations int
}

const (
	strictMatchScore  = 0.70
	looseMatchScore   = 0.50
	contextValidBonus = 0.15
	redundancyBonus   = 0.10
)

// Score combines evidence into a confidence in [0,1]. Repeat sightings
// add a redundancy bonus per extra observation, capped at 1.0.
func (ev Evidence) Score() float64 {
	score := looseMatchScore
	if ev.StrictMatch {
		score = strictMatchScore
	}
	if ev.ContextValid {
		score += contextValidBonus
	}
	if ev.Observations > 1 {
		score += redundancyBonus * float64(ev.Observations-1)
	}
	return clamp(score)
}

// typeWeights reflect the evidentiary value of each entity type when
// computing the overall per-message extraction confidence. Payment
// identifiers and account numbers weigh highest; phone numbers and
// URLs lowest. Weights sum to 1.0.
var typeWeights = map[model.EntityType]float64{
	model.EntityPaymentID:   0.30,
	model.EntityAccount:     0.25,
	model.EntityRoutingCode: 0.20,
	model.EntityPhone:       0.15,
	model.EntityURL:         0.10,
}

// OverallConfidence computes the weighted extraction confidence across
// the accumulated intelligence. No entities yields 0.0.
func OverallConfidence(in model.Intelligence) float64 {
	if in.Count() == 0 {
		return 0.0
	}
	var total float64
	for t, weight := range typeWeights {
		best := 0.0
		for _, e := range in.Entities(t) {
			if e.Confidence > best {
				best = e.Confidence
			}
		}
		total += weight * best
	}
	return clamp(total)
}

func clamp(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
