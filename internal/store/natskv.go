package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// KVBucket is the JetStream Key-Value bucket holding session
// snapshots. Entry TTL is the session inactivity window; every Save
// refreshes it.
const KVBucket = "HONEYPOT_SESSIONS"

// KVStore is the ephemeral fast tier backed by a JetStream Key-Value
// bucket with a TTL.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore creates (or binds to) the session bucket with the given
// TTL.
func NewKVStore(ctx context.Context, js jetstream.JetStream, ttl time.Duration) (*KVStore, error) {
	kv, err := js.KeyValue(ctx, KVBucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      KVBucket,
			TTL:         ttl,
			Storage:     jetstream.MemoryStorage,
			Description: "Honeypot session snapshots",
		})
		if err != nil {
			return nil, fmt.Errorf("create session bucket: %w", err)
		}
	}
	return &KVStore{kv: kv}, nil
}

// Load reads and decodes a session snapshot.
func (s *KVStore) Load(ctx context.Context, id string) (*model.ConversationState, error) {
	entry, err := s.kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv get: %w", err)
	}

	var state model.ConversationState
	if err := json.Unmarshal(entry.Value(), &state); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return &state, nil
}

// Save writes a snapshot, refreshing the entry TTL.
func (s *KVStore) Save(ctx context.Context, state *model.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	if _, err := s.kv.Put(ctx, state.ID, data); err != nil {
		return fmt.Errorf("kv put: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (s *KVStore) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, id); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}
