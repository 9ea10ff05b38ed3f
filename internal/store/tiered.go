package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
	"github.com/scamshield-ai/honeypot-platform/pkg/metrics"
)

// Tiered composes the ephemeral primary tier and the durable fallback
// tier under one read/write policy:
//
//   - Read: primary first. On primary miss or failure, read the
//     fallback; a fallback hit older than the inactivity TTL reads as
//     expired. Absent from both tiers reads as not found. A healthy
//     fallback hit is written back to the primary best-effort.
//   - Write: both tiers. Primary failure degrades the write (the
//     session keeps functioning from the fallback). Fallback failure
//     with a healthy primary is ephemeral-only persistence. Both
//     failing means the turn result was not persisted at all.
type Tiered struct {
	primary  SessionStore
	fallback SessionStore
	ttl      time.Duration
	clock    func() time.Time
	logger   *logger.Logger
}

// NewTiered creates the adapter. ttl is the session inactivity window
// used to judge expiry on fallback-only reads.
func NewTiered(primary, fallback SessionStore, ttl time.Duration, log *logger.Logger) *Tiered {
	return &Tiered{
		primary:  primary,
		fallback: fallback,
		ttl:      ttl,
		clock:    time.Now,
		logger:   log,
	}
}

// SaveOutcome reports how a tiered write landed.
type SaveOutcome struct {
	// Degraded is true when the primary tier failed.
	Degraded bool
	// Durable is true when the fallback tier accepted the write.
	Durable bool
	// Persisted is true when at least one tier accepted the write.
	Persisted bool
}

// Load reads a session. degraded is true when the result came from the
// fallback because the primary tier failed (not merely missed).
func (t *Tiered) Load(ctx context.Context, id string) (state *model.ConversationState, degraded bool, err error) {
	state, primaryErr := t.primary.Load(ctx, id)
	if primaryErr == nil {
		return state, false, nil
	}
	if !errors.Is(primaryErr, ErrNotFound) {
		degraded = true
		metrics.StoreDegradations.WithLabelValues("load").Inc()
		t.logger.Warn("primary store load failed, degrading to fallback",
			zap.String("session_id", id), zap.Error(primaryErr))
	}

	state, fallbackErr := t.fallback.Load(ctx, id)
	if fallbackErr != nil {
		if errors.Is(fallbackErr, ErrNotFound) {
			return nil, degraded, ErrNotFound
		}
		return nil, degraded, fallbackErr
	}

	// The primary evicts by TTL; a session the fallback still remembers
	// past the inactivity window is expired, not resumable. The age
	// check holds even while the primary tier is down: an actively used
	// session always has a fresh UpdatedAt.
	if t.clock().Sub(state.UpdatedAt) > t.ttl {
		return state, degraded, ErrExpired
	}

	if !degraded {
		if err := t.primary.Save(ctx, state); err != nil {
			t.logger.Warn("session write-back to primary failed",
				zap.String("session_id", id), zap.Error(err))
		}
	}
	return state, degraded, nil
}

// Save writes a session to both tiers per the write policy.
func (t *Tiered) Save(ctx context.Context, state *model.ConversationState) SaveOutcome {
	out := SaveOutcome{}

	if err := t.primary.Save(ctx, state); err != nil {
		out.Degraded = true
		metrics.StoreDegradations.WithLabelValues("save").Inc()
		t.logger.Warn("primary store save failed",
			zap.String("session_id", state.ID), zap.Error(err))
	} else {
		out.Persisted = true
	}

	if err := t.fallback.Save(ctx, state); err != nil {
		t.logger.Error("durable store save failed",
			zap.String("session_id", state.ID), zap.Error(err))
	} else {
		out.Durable = true
		out.Persisted = true
	}

	return out
}

// Delete removes a session from both tiers.
func (t *Tiered) Delete(ctx context.Context, id string) error {
	primaryErr := t.primary.Delete(ctx, id)
	fallbackErr := t.fallback.Delete(ctx, id)
	if fallbackErr != nil {
		return fallbackErr
	}
	return primaryErr
}
