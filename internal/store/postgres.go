package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

// PostgresStore is the durable fallback tier. Layout: one row per
// session, an append-only session_turns collection keyed by session
// and turn sequence, and accumulated intel rows keyed by session,
// entity type and canonical value.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and verifies the
// connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS honeypot_sessions (
	id                    TEXT PRIMARY KEY,
	tenant_id             TEXT NOT NULL DEFAULT '',
	language              TEXT NOT NULL DEFAULT '',
	state                 TEXT NOT NULL,
	persona               TEXT NOT NULL DEFAULT '',
	strategy              TEXT NOT NULL DEFAULT '',
	category              TEXT NOT NULL DEFAULT '',
	turn_count            INT NOT NULL DEFAULT 0,
	scam_confidence       DOUBLE PRECISION NOT NULL DEFAULT 0,
	extraction_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	bot_probes            INT NOT NULL DEFAULT 0,
	termination_reason    TEXT NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS session_turns (
	session_id TEXT NOT NULL,
	seq        INT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE TABLE IF NOT EXISTS session_intel (
	session_id   TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	canonical    TEXT NOT NULL,
	variants     TEXT[] NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	observations INT NOT NULL DEFAULT 1,
	PRIMARY KEY (session_id, entity_type, canonical)
);
`

// EnsureSchema creates the session tables if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Load reads one full session: row, turns in order, intel rows.
func (s *PostgresStore) Load(ctx context.Context, id string) (*model.ConversationState, error) {
	state := &model.ConversationState{Intel: model.NewIntelligence()}

	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, language, state, persona, strategy, category,
		       turn_count, scam_confidence, extraction_confidence, bot_probes,
		       termination_reason, created_at, updated_at
		FROM honeypot_sessions WHERE id = $1`, id,
	).Scan(
		&state.ID, &state.TenantID, &state.Language, &state.State,
		&state.Persona, &state.Strategy, &state.Category,
		&state.TurnCount, &state.ScamConfidence, &state.ExtractionConfidence,
		&state.BotProbes, &state.TerminationReason,
		&state.CreatedAt, &state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT role, content, created_at FROM session_turns
		WHERE session_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("select turns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var turn model.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.Timestamp); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		state.Turns = append(state.Turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	intelRows, err := s.pool.Query(ctx, `
		SELECT entity_type, canonical, variants, confidence, observations
		FROM session_intel WHERE session_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("select intel: %w", err)
	}
	defer intelRows.Close()
	for intelRows.Next() {
		e := &model.ExtractedEntity{}
		if err := intelRows.Scan(&e.Type, &e.Value, &e.Variants, &e.Confidence, &e.Observations); err != nil {
			return nil, fmt.Errorf("scan intel: %w", err)
		}
		state.Intel.Merge(e)
	}
	if err := intelRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate intel: %w", err)
	}

	return state, nil
}

// Save writes the session transactionally: upserts the session row,
// appends any turns past the stored count, and upserts intel rows.
func (s *PostgresStore) Save(ctx context.Context, state *model.ConversationState) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO honeypot_sessions (
			id, tenant_id, language, state, persona, strategy, category,
			turn_count, scam_confidence, extraction_confidence, bot_probes,
			termination_reason, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			persona = EXCLUDED.persona,
			strategy = EXCLUDED.strategy,
			category = EXCLUDED.category,
			turn_count = EXCLUDED.turn_count,
			scam_confidence = EXCLUDED.scam_confidence,
			extraction_confidence = EXCLUDED.extraction_confidence,
			bot_probes = EXCLUDED.bot_probes,
			termination_reason = EXCLUDED.termination_reason,
			updated_at = EXCLUDED.updated_at`,
		state.ID, state.TenantID, state.Language, state.State,
		state.Persona, state.Strategy, state.Category,
		state.TurnCount, state.ScamConfidence, state.ExtractionConfidence,
		state.BotProbes, state.TerminationReason,
		state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	for seq, turn := range state.Turns {
		_, err = tx.Exec(ctx, `
			INSERT INTO session_turns (session_id, seq, role, content, created_at)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (session_id, seq) DO NOTHING`,
			state.ID, seq, turn.Role, turn.Content, turn.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert turn %d: %w", seq, err)
		}
	}

	for _, t := range model.EntityTypes {
		for _, e := range state.Intel.Entities(t) {
			_, err = tx.Exec(ctx, `
				INSERT INTO session_intel (session_id, entity_type, canonical, variants, confidence, observations)
				VALUES ($1,$2,$3,$4,$5,$6)
				ON CONFLICT (session_id, entity_type, canonical) DO UPDATE SET
					variants = EXCLUDED.variants,
					confidence = GREATEST(session_intel.confidence, EXCLUDED.confidence),
					observations = GREATEST(session_intel.observations, EXCLUDED.observations)`,
				state.ID, e.Type, e.Value, e.Variants, e.Confidence, e.Observations,
			)
			if err != nil {
				return fmt.Errorf("upsert intel: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes a session and its child rows.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM session_intel WHERE session_id = $1`,
		`DELETE FROM session_turns WHERE session_id = $1`,
		`DELETE FROM honeypot_sessions WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
