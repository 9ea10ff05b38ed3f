// Package store persists honeypot session state across an ephemeral
// fast tier and a durable fallback tier.
package store

import (
	"context"
	"errors"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// ErrNotFound means the session does not exist in the queried tier.
var ErrNotFound = errors.New("session not found")

// ErrExpired means the session existed but its inactivity window has
// elapsed; it is distinguishable from a session that never existed.
var ErrExpired = errors.New("session expired")

// SessionStore is one storage tier for session snapshots.
type SessionStore interface {
	Load(ctx context.Context, id string) (*model.ConversationState, error)
	Save(ctx context.Context, state *model.ConversationState) error
	Delete(ctx context.Context, id string) error
}
