package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

const (
	// IntelStreamName is the stream carrying intelligence reports for
	// downstream fraud-intel consumers.
	IntelStreamName = "HONEYPOT_INTEL"

	// intelSubjectPrefix prefixes all report subjects.
	intelSubjectPrefix = "intel"
)

// IntelReport is the event published when a session terminates.
type IntelReport struct {
	SessionID         string                  `json:"session_id"`
	Category          model.ScamCategory      `json:"category"`
	Language          string                  `json:"language"`
	TurnCount         int                     `json:"turn_count"`
	TerminationReason model.TerminationReason `json:"termination_reason"`
	Intel             model.IntelReport       `json:"intel"`
	TerminatedAt      time.Time               `json:"terminated_at"`
}

// IntelPublisher publishes session intelligence reports to JetStream.
type IntelPublisher struct {
	client *Client
}

// NewIntelPublisher creates a publisher over an existing client.
func NewIntelPublisher(client *Client) *IntelPublisher {
	return &IntelPublisher{client: client}
}

// EnsureStream ensures the intel stream exists.
func (p *IntelPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	_, err := js.Stream(ctx, IntelStreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        IntelStreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", intelSubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Terminated honeypot session intelligence reports",
	})
	if err != nil {
		return fmt.Errorf("failed to create intel stream: %w", err)
	}
	return nil
}

// ReportSubject returns the subject for a session's report.
func ReportSubject(category model.ScamCategory, sessionID string) string {
	c := category
	if c == "" {
		c = model.CategoryUnknown
	}
	return fmt.Sprintf("%s.%s.%s", intelSubjectPrefix, c, sessionID)
}

// Report builds and publishes the report for a terminated session. It
// satisfies the engine's Reporter interface.
func (p *IntelPublisher) Report(ctx context.Context, state *model.ConversationState) error {
	_, err := p.Publish(ctx, &IntelReport{
		SessionID:         state.ID,
		Category:          state.Category,
		Language:          state.Language,
		TurnCount:         state.TurnCount,
		TerminationReason: state.TerminationReason,
		Intel:             model.BuildIntelReport(state.Intel, state.ExtractionConfidence),
		TerminatedAt:      state.UpdatedAt,
	})
	return err
}

// Publish publishes one intelligence report.
func (p *IntelPublisher) Publish(ctx context.Context, report *IntelReport) (uint64, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal intel report: %w", err)
	}

	ack, err := p.client.JetStream().Publish(ctx, ReportSubject(report.Category, report.SessionID), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish intel report: %w", err)
	}
	return ack.Sequence, nil
}
