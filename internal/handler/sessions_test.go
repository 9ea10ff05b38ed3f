package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamshield-ai/honeypot-platform/internal/model"
)

func (a *testAPI) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestGetSession(t *testing.T) {
	api := newTestAPI(t)
	sessionID := uuid.NewString()

	rec := api.engage(t, `{"session_id":"`+sessionID+`","message":"You won the lottery, claim your prize!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.get(t, "/api/v1/sessions/"+sessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	var state model.ConversationState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, sessionID, state.ID)
	assert.Equal(t, model.StateActive, state.State)
	assert.Len(t, state.Turns, 2)
}

func TestGetSessionNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get(t, "/api/v1/sessions/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionExpired(t *testing.T) {
	api := newTestAPI(t)
	sessionID := uuid.NewString()

	// Present only in the durable tier and past the inactivity window.
	stale := model.NewSession(sessionID, "tenant-a", "en", time.Now().Add(-48*time.Hour))
	stale.UpdatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, api.fallback.Save(context.Background(), stale))

	rec := api.get(t, "/api/v1/sessions/"+sessionID)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestGetSessionInvalidID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get(t, "/api/v1/sessions/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSessionIntel(t *testing.T) {
	api := newTestAPI(t)
	sessionID := uuid.NewString()

	rec := api.engage(t, `{"session_id":"`+sessionID+`","message":"Send the fee to ramesh@ybl, IFSC SBIN0001234."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.get(t, "/api/v1/sessions/"+sessionID+"/intel")
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.IntelReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Contains(t, report.Entities, model.EntityPaymentID)
	assert.Contains(t, report.Entities, model.EntityRoutingCode)
	assert.Greater(t, report.ExtractionConfidence, 0.0)
}

func TestGetSessionIntelNotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := api.get(t, "/api/v1/sessions/"+uuid.NewString()+"/intel")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
