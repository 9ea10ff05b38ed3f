package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scamshield-ai/honeypot-platform/internal/engine"
	"github.com/scamshield-ai/honeypot-platform/internal/middleware"
	"github.com/scamshield-ai/honeypot-platform/internal/model"
	"github.com/scamshield-ai/honeypot-platform/pkg/logger"
)

// EngageHandler handles the engagement endpoint.
type EngageHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewEngageHandler creates a new engage handler.
func NewEngageHandler(eng *engine.Engine, log *logger.Logger) *EngageHandler {
	return &EngageHandler{engine: eng, logger: log}
}

// Engage handles POST /api/v1/engage
func (h *EngageHandler) Engage(w http.ResponseWriter, r *http.Request) {
	var req model.EngageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Input errors are rejected before the engine runs.
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SessionID != "" {
		if err := middleware.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := middleware.ValidateLanguageHint(req.LanguageHint); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Engage(r.Context(), req)
	if err != nil {
		if errors.Is(err, engine.ErrSessionTerminated) {
			writeError(w, http.StatusConflict, "session terminated")
			return
		}
		h.logger.Error("engagement turn failed",
			zap.String("session_id", req.SessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "engagement failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
