package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// Heuristic is a deterministic keyword and pattern classifier. It is
// the standalone lightweight option and the degraded fallback when the
// model-backed classifier is unavailable.
type Heuristic struct{}

// NewHeuristic creates a heuristic classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// categorySignals maps keyword groups to categories; each hit adds its
// weight to the scam score.
var categorySignals = []struct {
	pattern  *regexp.Regexp
	category model.ScamCategory
	weight   float64
}{
	{regexp.MustCompile(`(?i)\b(congratulations?|won|winner|lottery|lucky draw|prize|jackpot|claim (your|the))\b`), model.CategoryLottery, 0.35},
	{regexp.MustCompile(`(?i)\b(police|cbi|arrest|warrant|customs|court|legal action|digital arrest|income tax|penalty)\b`), model.CategoryAuthority, 0.35},
	{regexp.MustCompile(`(?i)\b(invest(ment)?|trading|returns?|double your|guaranteed profit|crypto|stock tips?)\b`), model.CategoryInvestment, 0.30},
	{regexp.MustCompile(`(?i)\b(verify|blocked|suspended|kyc|update your|click (here|this link)|login)\b`), model.CategoryPhishing, 0.30},
	{regexp.MustCompile(`(?i)\b(work from home|part.?time job|earn (daily|money)|salary|hiring|task)\b`), model.CategoryJobOffer, 0.25},
}

// urgencySignals raise the score regardless of category.
var urgencySignals = regexp.MustCompile(`(?i)\b(urgent|immediately|right now|within 24 hours|last chance|act now|otp|pin|share your)\b`)

var moneySignals = regexp.MustCompile(`(?i)(₹|rs\.?\s?\d|inr|\$\d|\b(lakh|crore|rupees|dollars)\b|\b(pay|send|transfer|deposit)\b.{0,30}\b(fee|amount|charge)\b)`)

// Classify scores text by accumulated signal weight. Never errors.
func (h *Heuristic) Classify(_ context.Context, text, _ string) (Result, error) {
	var score float64
	best := model.CategoryUnknown
	bestWeight := 0.0

	for _, sig := range categorySignals {
		hits := len(sig.pattern.FindAllString(text, -1))
		if hits == 0 {
			continue
		}
		w := sig.weight
		if hits > 1 {
			w += 0.10
		}
		score += w
		if w > bestWeight {
			bestWeight = w
			best = sig.category
		}
	}
	if urgencySignals.MatchString(text) {
		score += 0.20
	}
	if moneySignals.MatchString(text) {
		score += 0.15
	}
	if strings.Contains(text, "@") && best == model.CategoryUnknown {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}

	return Result{
		IsScam:     score >= 0.5,
		Confidence: score,
		Category:   best,
	}, nil
}
