package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
)

// failingStore simulates an unavailable tier.
type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context, string) (*model.ConversationState, error) {
	return nil, f.err
}

func (f failingStore) Save(context.Context, *model.ConversationState) error { return f.err }
func (f failingStore) Delete(context.Context, string) error                 { return f.err }

func newSession(id string, updatedAt time.Time) *model.ConversationState {
	s := model.NewSession(id, "tenant-a", "en", updatedAt)
	s.UpdatedAt = updatedAt
	return s
}

func TestTieredLoadPrimaryHit(t *testing.T) {
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	tiered := NewTiered(primary, fallback, time.Hour, logger.NewNop())

	require.NoError(t, primary.Save(context.Background(), newSession("sess-1", time.Now())))

	state, degraded, err := tiered.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "sess-1", state.ID)
}

func TestTieredLoadFallbackWriteBack(t *testing.T) {
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	tiered := NewTiered(primary, fallback, time.Hour, logger.NewNop())

	require.NoError(t, fallback.Save(context.Background(), newSession("sess-1", time.Now())))

	state, degraded, err := tiered.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, degraded, "primary miss is not degradation")
	assert.Equal(t, "sess-1", state.ID)

	// The fallback hit is written back to the primary tier.
	_, err = primary.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
}

func TestTieredLoadExpired(t *testing.T) {
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	ttl := time.Hour
	tiered := NewTiered(primary, fallback, ttl, logger.NewNop())

	stale := newSession("sess-1", time.Now().Add(-2*ttl))
	require.NoError(t, fallback.Save(context.Background(), stale))

	_, _, err := tiered.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTieredLoadNotFound(t *testing.T) {
	tiered := NewTiered(NewMemoryStore(), NewMemoryStore(), time.Hour, logger.NewNop())

	_, degraded, err := tiered.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, degraded)
}

func TestTieredLoadDegraded(t *testing.T) {
	fallback := NewMemoryStore()
	tiered := NewTiered(failingStore{err: errors.New("kv unavailable")}, fallback, time.Hour, logger.NewNop())

	fresh := newSession("sess-1", time.Now())
	require.NoError(t, fallback.Save(context.Background(), fresh))

	state, degraded, err := tiered.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, "sess-1", state.ID)
}

func TestTieredLoadDegradedExpired(t *testing.T) {
	fallback := NewMemoryStore()
	ttl := time.Hour
	tiered := NewTiered(failingStore{err: errors.New("kv unavailable")}, fallback, ttl, logger.NewNop())

	// Primary down does not suspend expiry: a session past its
	// inactivity window is never silently resumed.
	stale := newSession("sess-1", time.Now().Add(-48*time.Hour))
	require.NoError(t, fallback.Save(context.Background(), stale))

	_, degraded, err := tiered.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrExpired)
	assert.True(t, degraded)
}

func TestTieredLoadBothTiersDown(t *testing.T) {
	boom := errors.New("store down")
	tiered := NewTiered(failingStore{err: boom}, failingStore{err: boom}, time.Hour, logger.NewNop())

	_, degraded, err := tiered.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, boom)
	assert.True(t, degraded)
}

func TestTieredSaveBothTiers(t *testing.T) {
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	tiered := NewTiered(primary, fallback, time.Hour, logger.NewNop())

	out := tiered.Save(context.Background(), newSession("sess-1", time.Now()))
	assert.Equal(t, SaveOutcome{Degraded: false, Durable: true, Persisted: true}, out)

	_, err := primary.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
	_, err = fallback.Load(context.Background(), "sess-1")
	assert.NoError(t, err)
}

func TestTieredSavePrimaryDown(t *testing.T) {
	fallback := NewMemoryStore()
	tiered := NewTiered(failingStore{err: errors.New("kv unavailable")}, fallback, time.Hour, logger.NewNop())

	out := tiered.Save(context.Background(), newSession("sess-1", time.Now()))
	assert.Equal(t, SaveOutcome{Degraded: true, Durable: true, Persisted: true}, out)
}

func TestTieredSaveFallbackDown(t *testing.T) {
	primary := NewMemoryStore()
	tiered := NewTiered(primary, failingStore{err: errors.New("pg unavailable")}, time.Hour, logger.NewNop())

	out := tiered.Save(context.Background(), newSession("sess-1", time.Now()))
	assert.Equal(t, SaveOutcome{Degraded: false, Durable: false, Persisted: true}, out)
}

func TestTieredSaveNothingPersisted(t *testing.T) {
	boom := errors.New("everything down")
	tiered := NewTiered(failingStore{err: boom}, failingStore{err: boom}, time.Hour, logger.NewNop())

	out := tiered.Save(context.Background(), newSession("sess-1", time.Now()))
	assert.Equal(t, SaveOutcome{Degraded: true, Durable: false, Persisted: false}, out)
}

func TestTieredDelete(t *testing.T) {
	primary := NewMemoryStore()
	fallback := NewMemoryStore()
	tiered := NewTiered(primary, fallback, time.Hour, logger.NewNop())

	s := newSession("sess-1", time.Now())
	tiered.Save(context.Background(), s)
	require.NoError(t, tiered.Delete(context.Background(), "sess-1"))

	_, _, err := tiered.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCopiesOnLoadAndSave(t *testing.T) {
	st := NewMemoryStore()
	original := newSession("sess-1", time.Now())
	require.NoError(t, st.Save(context.Background(), original))

	// Mutating the saved value must not leak into the store.
	original.TurnCount = 99

	loaded, err := st.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.TurnCount)

	// Mutating a loaded value must not leak either.
	loaded.TurnCount = 42
	again, err := st.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.TurnCount)
}
