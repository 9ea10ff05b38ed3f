// Package engine orchestrates one turn of honeypot conversation:
// classify, plan, generate, extract, decide termination.
package engine

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scamshield-ai/honeypot-platform/internal/classifier"
	"github.com/scamshield-ai/honeypot-platform/internal/extract"
	"github.com/scamshield-ai/honeypot-platform/internal/generator"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
	"github.com/scamshield-ai/honeypot-platform/internal/persona"
	"github.com/scamshield-ai/honeypot-platform/internal/safety"
	"github.com/scamshield-ai/honeypot-platform/internal/store"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
	"github.com/scamshield-ai/honeypot-platform/pkg/metrics"
)

// ErrSessionTerminated is returned when a turn arrives for a session
// that has permanently stopped accepting turns.
var ErrSessionTerminated = errors.New("session terminated")

// SessionStore is the tiered persistence surface the engine uses.
type SessionStore interface {
	Load(ctx context.Context, id string) (*model.ConversationState, bool, error)
	Save(ctx context.Context, state *model.ConversationState) store.SaveOutcome
}

// Reporter receives the intelligence report of a terminated session.
type Reporter interface {
	Report(ctx context.Context, state *model.ConversationState) error
}

// Options are the engagement thresholds.
type Options struct {
	MaxTurns            int
	EngageThreshold     float64
	ConfidenceThreshold float64
	BotProbeLimit       int
	HistoryWindow       int
	Thresholds          persona.Thresholds
	LLMTimeout          time.Duration
}

// DefaultOptions match the standard engagement curve.
func DefaultOptions() Options {
	return Options{
		MaxTurns:            20,
		EngageThreshold:     0.5,
		ConfidenceThreshold: 0.85,
		BotProbeLimit:       3,
		HistoryWindow:       12,
		Thresholds:          persona.DefaultThresholds(),
		LLMTimeout:          20 * time.Second,
	}
}

// Engine runs the per-turn state machine. All dependencies are
// injected so tests substitute deterministic fakes.
type Engine struct {
	store      SessionStore
	classifier classifier.Classifier
	fallback   classifier.Classifier
	generator  generator.Generator
	extractor  *extract.Extractor
	reporter   Reporter
	opts       Options
	logger     *logger.Logger
	locks      *sessionLocks
	clock      func() time.Time
}

// New creates an engine. fallback must be cheap and infallible (the
// heuristic classifier); reporter may be nil.
func New(
	st SessionStore,
	primary classifier.Classifier,
	fallback classifier.Classifier,
	gen generator.Generator,
	ex *extract.Extractor,
	reporter Reporter,
	opts Options,
	log *logger.Logger,
) *Engine {
	return &Engine{
		store:      st,
		classifier: primary,
		fallback:   fallback,
		generator:  gen,
		extractor:  ex,
		reporter:   reporter,
		opts:       opts,
		logger:     log,
		locks:      newSessionLocks(),
		clock:      time.Now,
	}
}

var botProbePattern = regexp.MustCompile(`(?i)\bare you (a |an )?(bot|robot|ai|machine|computer|automated|real( person)?|human)\b|\bis this (a bot|automated)\b`)

// Engage processes one inbound message. The session is mutated on a
// clone and persisted only after the turn fully completes, so a failed
// or cancelled turn leaves the stored state untouched.
func (e *Engine) Engage(ctx context.Context, req model.EngageRequest) (*model.EngagementResult, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.Must(uuid.NewV7()).String()
	}

	release := e.locks.acquire(sessionID)
	defer release()

	now := e.clock()
	log := e.logger.WithSession(sessionID)

	stored, storeDegraded, err := e.load(ctx, sessionID, req.LanguageHint, req.Message, now)
	if err != nil {
		return nil, err
	}
	if stored.Terminated() {
		return nil, ErrSessionTerminated
	}

	// All mutation happens on the clone; the stored state stays
	// intact until the final save.
	s := stored.Clone()
	degraded := storeDegraded

	// Step 2: inbound safety. A critical violation ends the session
	// on the spot with a neutral close.
	if ok, violation := safety.Check(req.Message); !ok && violation.Critical() {
		s.AppendTurn(model.RoleScammer, req.Message, now)
		s.AppendTurn(model.RoleHoneypot, generator.ClosingReply, now)
		s.TurnCount++
		wasActive := s.State == model.StateActive
		s.Terminate(model.TerminationSafety)
		s.UpdatedAt = now
		outcome := e.finish(ctx, s, wasActive, log)
		// The classifier never ran this turn; scam status reflects
		// whether the session was already engaged.
		return e.result(s, generator.ClosingReply, wasActive, degraded, outcome), nil
	}

	// Step 3: classify.
	verdict, clsDegraded := e.classify(ctx, req.Message, req.LanguageHint)
	degraded = degraded || clsDegraded
	s.ScamConfidence = verdict.Confidence
	if s.Category == "" {
		s.Category = verdict.Category
	}

	if s.State == model.StateNew && verdict.Confidence < e.opts.EngageThreshold {
		// Not scam: no engagement, but keep a lightweight audit
		// record of the contact. The session never turns ACTIVE.
		s.AppendTurn(model.RoleScammer, req.Message, now)
		s.TurnCount++
		s.UpdatedAt = now
		outcome := e.store.Save(ctx, s)
		metrics.TurnsTotal.WithLabelValues("not_scam").Inc()
		return e.result(s, "", false, degraded, outcome), nil
	}

	if s.State == model.StateNew {
		s.State = model.StateActive
		metrics.SessionsActive.Inc()
	}

	// Step 4: persona is assigned exactly once; strategy follows the
	// turn count and never moves backward.
	if s.Persona == "" {
		s.Persona = persona.Select(s.Category, s.Language)
	}
	next := persona.Strategy(s.TurnCount, e.opts.Thresholds)
	if s.Strategy == "" || next.Compare(s.Strategy) > 0 {
		s.Strategy = next
	}

	if botProbePattern.MatchString(req.Message) {
		s.BotProbes++
	}

	// Step 5: generate the reply, gated for safety with one retry
	// before falling back to the template.
	history := append(s.RecentTurns(e.opts.HistoryWindow-1), model.Turn{
		Role: model.RoleScammer, Content: req.Message, Timestamp: now,
	})
	reply, genDegraded := e.respond(ctx, s.Persona, s.Strategy, history, log)
	degraded = degraded || genDegraded

	// Step 6: record the turn.
	s.AppendTurn(model.RoleScammer, req.Message, now)
	s.AppendTurn(model.RoleHoneypot, reply, now)
	s.TurnCount++

	// Step 7: extract over the full transcript and merge.
	e.extract(ctx, s)

	// Step 8: termination triggers in fixed priority order. Safety
	// was handled in step 2; max turns beats extraction confidence
	// beats bot probes.
	terminated := false
	switch {
	case s.TurnCount >= e.opts.MaxTurns:
		s.Terminate(model.TerminationMaxTurns)
		terminated = true
	case s.ExtractionConfidence >= e.opts.ConfidenceThreshold:
		s.Terminate(model.TerminationHighConfidence)
		terminated = true
	case s.BotProbes >= e.opts.BotProbeLimit:
		s.Terminate(model.TerminationBotProbe)
		terminated = true
	}

	// Step 9: persist and respond.
	s.UpdatedAt = now
	var outcome store.SaveOutcome
	if terminated {
		outcome = e.finish(ctx, s, true, log)
	} else {
		outcome = e.store.Save(ctx, s)
	}

	if degraded {
		metrics.TurnsTotal.WithLabelValues("degraded").Inc()
	} else {
		metrics.TurnsTotal.WithLabelValues("ok").Inc()
	}

	return e.result(s, reply, true, degraded, outcome), nil
}

// load fetches the session or creates a fresh one. A session that
// expired (or never existed) under a caller-supplied identifier starts
// over as a new session; it is never silently resumed.
func (e *Engine) load(ctx context.Context, id, languageHint, message string, now time.Time) (*model.ConversationState, bool, error) {
	state, degraded, err := e.store.Load(ctx, id)
	switch {
	case err == nil:
		return state, degraded, nil
	case errors.Is(err, store.ErrExpired):
		// An expired session starts over under a fresh identifier so
		// its archived turns are never silently resumed or clobbered.
		fresh := uuid.Must(uuid.NewV7()).String()
		return model.NewSession(fresh, "", detectLanguage(message, languageHint), now), degraded, nil
	case errors.Is(err, store.ErrNotFound):
		return model.NewSession(id, "", detectLanguage(message, languageHint), now), degraded, nil
	default:
		return nil, degraded, err
	}
}

func (e *Engine) classify(ctx context.Context, text, languageHint string) (classifier.Result, bool) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.LLMTimeout)
	defer cancel()

	start := e.clock()
	verdict, err := e.classifier.Classify(cctx, text, languageHint)
	if err == nil {
		metrics.RecordLLMCall("classify", "ok", time.Since(start).Seconds())
		return verdict, false
	}
	metrics.RecordLLMCall("classify", "error", time.Since(start).Seconds())
	metrics.DegradedTurns.WithLabelValues("classifier").Inc()
	e.logger.Warn("classifier unavailable, using heuristic", zap.Error(err))

	verdict, _ = e.fallback.Classify(ctx, text, languageHint)
	return verdict, true
}

// respond generates a candidate reply and runs it through the safety
// gate: one regeneration on violation, then the templated fallback.
func (e *Engine) respond(ctx context.Context, p model.Persona, strat model.StrategyPhase, history []model.Turn, log *logger.Logger) (string, bool) {
	for attempt := 0; attempt < 2; attempt++ {
		gctx, cancel := context.WithTimeout(ctx, e.opts.LLMTimeout)
		start := e.clock()
		reply, err := e.generator.Generate(gctx, p, strat, history)
		cancel()
		if err != nil {
			metrics.RecordLLMCall("generate", "error", time.Since(start).Seconds())
			metrics.DegradedTurns.WithLabelValues("generator").Inc()
			log.Warn("generator unavailable, using fallback reply", zap.Error(err))
			return generator.Fallback(p, strat), true
		}
		metrics.RecordLLMCall("generate", "ok", time.Since(start).Seconds())

		if ok, violation := safety.Check(reply); !ok {
			log.Warn("candidate reply failed safety gate",
				zap.String("violation", string(violation)),
				zap.Int("attempt", attempt+1))
			continue
		}
		return reply, false
	}
	return generator.Fallback(p, strat), false
}

// extract re-scans the inbound side of the transcript and merges the
// findings; accumulated intelligence only ever grows.
func (e *Engine) extract(ctx context.Context, s *model.ConversationState) {
	texts := make([]string, 0, len(s.Turns))
	for _, turn := range s.Turns {
		if turn.Role == model.RoleScammer {
			texts = append(texts, turn.Content)
		}
	}

	for t, entities := range e.extractor.ExtractWithNER(ctx, texts...) {
		for _, entity := range entities {
			if !s.Intel.Has(t, entity.Value) {
				metrics.EntitiesExtracted.WithLabelValues(string(t)).Inc()
			}
			s.Intel.Merge(entity)
		}
	}

	s.ExtractionConfidence = extract.OverallConfidence(s.Intel)
}

// finish persists a terminating turn and publishes the intelligence
// report.
func (e *Engine) finish(ctx context.Context, s *model.ConversationState, wasActive bool, log *logger.Logger) store.SaveOutcome {
	outcome := e.store.Save(ctx, s)

	metrics.TerminationsTotal.WithLabelValues(string(s.TerminationReason)).Inc()
	if wasActive {
		metrics.SessionsActive.Dec()
	}

	if e.reporter != nil {
		if err := e.reporter.Report(ctx, s); err != nil {
			log.Warn("intel report publish failed", zap.Error(err))
		}
	}

	log.Info("session terminated",
		zap.String("reason", string(s.TerminationReason)),
		zap.Int("turns", s.TurnCount),
		zap.Int("entities", s.Intel.Count()),
		zap.Float64("extraction_confidence", s.ExtractionConfidence))

	return outcome
}

func (e *Engine) result(s *model.ConversationState, reply string, scam, degraded bool, outcome store.SaveOutcome) *model.EngagementResult {
	return &model.EngagementResult{
		SessionID:         s.ID,
		ScamDetected:      scam,
		ScamConfidence:    s.ScamConfidence,
		Category:          s.Category,
		Language:          s.Language,
		TurnCount:         s.TurnCount,
		Reply:             reply,
		Terminated:        s.Terminated(),
		TerminationReason: s.TerminationReason,
		Intel:             model.BuildIntelReport(s.Intel, s.ExtractionConfidence),
		Degraded:          degraded || outcome.Degraded,
		NotPersisted:      !outcome.Persisted,
	}
}
