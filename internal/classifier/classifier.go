// Package classifier defines the scam classification boundary and its
// implementations.
package classifier

import (
	"context"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// Result is the outcome of one classification.
type Result struct {
	IsScam     bool               `json:"is_scam"`
	Confidence float64            `json:"confidence"`
	Category   model.ScamCategory `json:"category"`
}

// Classifier scores the scam likelihood of a message. Implementations
// must return within the caller's context deadline or report an error;
// the engine treats any error as unavailability and degrades.
type Classifier interface {
	Classify(ctx context.Context, text, languageHint string) (Result, error)
}
