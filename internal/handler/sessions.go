package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scamshield-ai/honeypot-platform/internal/middleware"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
	"github.com/scamshield-ai/honeypot-platform/internal/store"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
)

// SessionHandler handles session inspection endpoints.
type SessionHandler struct {
	store  *store.Tiered
	logger *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(st *store.Tiered, log *logger.Logger) *SessionHandler {
	return &SessionHandler{store: st, logger: log}
}

// Get handles GET /api/v1/sessions/{id}. An expired session answers
// 410, which is distinct from 404 for a session that never existed.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, _, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, store.ErrExpired):
			writeError(w, http.StatusGone, "session expired")
		default:
			h.logger.Error("session load failed",
				zap.String("session_id", sessionID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load session")
		}
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// GetIntel handles GET /api/v1/sessions/{id}/intel
func (h *SessionHandler) GetIntel(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, _, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, store.ErrExpired):
			writeError(w, http.StatusGone, "session expired")
		default:
			h.logger.Error("session load failed",
				zap.String("session_id", sessionID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load session")
		}
		return
	}

	writeJSON(w, http.StatusOK, model.BuildIntelReport(state.Intel, state.ExtractionConfidence))
}
