// Package model defines data structures for the honeypot platform.
package model

import (
	"time"
)

// Role represents the sender of a conversation turn.
type Role string

const (
	// RoleScammer is the incoming party (the suspected scammer).
	RoleScammer Role = "scammer"
	// RoleHoneypot is the engine's outbound persona.
	RoleHoneypot Role = "honeypot"
)

// SessionState is the lifecycle state of a honeypot session.
type SessionState string

const (
	StateNew        SessionState = "new"
	StateActive     SessionState = "active"
	StateTerminated SessionState = "terminated"
)

// Persona is a fixed behavioral profile assigned once per session.
type Persona string

const (
	PersonaEagerWinner     Persona = "eager_winner"
	PersonaFearfulElder    Persona = "fearful_elder"
	PersonaGreedyInvestor  Persona = "greedy_investor"
	PersonaConfusedSkeptic Persona = "confused_skeptic"
)

// StrategyPhase is the current behavioral objective of a session.
type StrategyPhase string

const (
	StrategyBuildRapport StrategyPhase = "build_rapport"
	StrategyStall        StrategyPhase = "stall"
	StrategyProbe        StrategyPhase = "probe"
)

// rank orders strategy phases so transitions never move backward.
var strategyRank = map[StrategyPhase]int{
	StrategyBuildRapport: 0,
	StrategyStall:        1,
	StrategyProbe:        2,
}

// Compare returns <0, 0 or >0 ordering s against other.
func (s StrategyPhase) Compare(other StrategyPhase) int {
	return strategyRank[s] - strategyRank[other]
}

// ScamCategory is the classifier's coarse scam taxonomy.
type ScamCategory string

const (
	CategoryLottery    ScamCategory = "lottery"
	CategoryAuthority  ScamCategory = "authority"
	CategoryInvestment ScamCategory = "investment"
	CategoryPhishing   ScamCategory = "phishing"
	CategoryJobOffer   ScamCategory = "job_offer"
	CategoryUnknown    ScamCategory = "unknown"
)

// TerminationReason records why a session stopped accepting turns.
type TerminationReason string

const (
	TerminationNone           TerminationReason = ""
	TerminationSafety         TerminationReason = "safety_violation"
	TerminationMaxTurns       TerminationReason = "max_turns_reached"
	TerminationHighConfidence TerminationReason = "extraction_confidence"
	TerminationBotProbe       TerminationReason = "bot_probe_detected"
)

// Turn is one message in a session transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the durable representation of one honeypot session.
type ConversationState struct {
	ID       string       `json:"id"`
	TenantID string       `json:"tenant_id,omitempty"`
	Language string       `json:"language"`
	State    SessionState `json:"state"`

	// Persona is immutable once assigned on the first engaged turn.
	Persona  Persona       `json:"persona,omitempty"`
	Strategy StrategyPhase `json:"strategy,omitempty"`
	Category ScamCategory  `json:"category,omitempty"`

	// TurnCount increments once per inbound message, bounded by config.
	TurnCount int    `json:"turn_count"`
	Turns     []Turn `json:"turns"`

	// Intel accumulates append-only across turns, deduplicated by
	// canonical value.
	Intel Intelligence `json:"intel"`

	ScamConfidence       float64 `json:"scam_confidence"`
	ExtractionConfidence float64 `json:"extraction_confidence"`

	// BotProbes counts explicit "are you a bot" style challenges.
	BotProbes int `json:"bot_probes,omitempty"`

	TerminationReason TerminationReason `json:"termination_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session in the NEW state.
func NewSession(id, tenantID, language string, now time.Time) *ConversationState {
	return &ConversationState{
		ID:        id,
		TenantID:  tenantID,
		Language:  language,
		State:     StateNew,
		Intel:     NewIntelligence(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Terminated reports whether the session accepts further turns.
func (s *ConversationState) Terminated() bool {
	return s.State == StateTerminated
}

// Terminate moves the session to TERMINATED with the given reason.
// The first reason wins; later calls are no-ops.
func (s *ConversationState) Terminate(reason TerminationReason) {
	if s.State == StateTerminated {
		return
	}
	s.State = StateTerminated
	s.TerminationReason = reason
}

// AppendTurn appends a message to the transcript without touching the
// turn counter; the counter tracks inbound messages only.
func (s *ConversationState) AppendTurn(role Role, content string, at time.Time) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, Timestamp: at})
}

// RecentTurns returns up to n most recent turns, oldest first.
func (s *ConversationState) RecentTurns(n int) []Turn {
	if n <= 0 || len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// Clone returns a deep copy of the session. Turn mutation works on a
// clone and swaps in the result only after the turn fully succeeds, so
// a failed turn leaves no partial state behind.
func (s *ConversationState) Clone() *ConversationState {
	cp := *s
	cp.Turns = make([]Turn, len(s.Turns))
	copy(cp.Turns, s.Turns)
	cp.Intel = s.Intel.Clone()
	return &cp
}
