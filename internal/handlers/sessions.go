package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/storage"
)

// SessionHandler exposes the query history of a session.
type SessionHandler struct {
	queries storage.QueryStore
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(queries storage.QueryStore) *SessionHandler {
	return &SessionHandler{queries: queries}
}

// QueryRecordResponse is one tracked query in the HTTP response.
type QueryRecordResponse struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Intent      string   `json:"intent"`
	Confidence  string   `json:"confidence"`
	Collections []string `json:"collections,omitempty"`
	SafetyLevel string   `json:"safety_level"`
	DocCount    int      `json:"doc_count"`
	Answered    bool     `json:"answered"`
	Cached      bool     `json:"cached"`
	DurationMS  int64    `json:"duration_ms"`
	CreatedAt   string   `json:"created_at"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.queries.ListBySession(r.Context(), sessionID, limit)
	if err != nil {
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "failed to list session queries", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]QueryRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, QueryRecordResponse{
			ID:          rec.ID,
			Question:    rec.Question,
			Intent:      rec.Intent,
			Confidence:  rec.Confidence,
			Collections: rec.Collections,
			SafetyLevel: rec.SafetyLevel,
			DocCount:    rec.DocCount,
			Answered:    rec.Answered,
			Cached:      rec.Cached,
			DurationMS:  rec.DurationMS,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "queries": out})
}
