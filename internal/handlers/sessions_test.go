package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"cutru-ai/internal/storage"
	storagemocks "cutru-ai/internal/storage/mocks"
)

func sessionRequest(t *testing.T, target, sessionID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("sessionID", sessionID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSessionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	queries := storagemocks.NewMockQueryStore(ctrl)
	queries.EXPECT().ListBySession(gomock.Any(), "s1", 0).Return([]storage.QueryRecord{
		{
			ID:          "q1",
			SessionID:   "s1",
			Question:    "điều 20 luật cư trú?",
			Intent:      "law",
			Confidence:  "high",
			Collections: []string{"legal_chunks"},
			SafetyLevel: "safe",
			DurationMS:  420,
			CreatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}, nil)
	handler := NewSessionHandler(queries)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/api/sessions/s1/queries", "s1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID string                `json:"session_id"`
		Queries   []QueryRecordResponse `json:"queries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID != "s1" || len(resp.Queries) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Queries[0].CreatedAt != "2025-06-01T10:00:00Z" {
		t.Errorf("unexpected created_at: %q", resp.Queries[0].CreatedAt)
	}
}

func TestSessionHandlerLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	queries := storagemocks.NewMockQueryStore(ctrl)
	queries.EXPECT().ListBySession(gomock.Any(), "s1", 5).Return(nil, nil)
	handler := NewSessionHandler(queries)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/api/sessions/s1/queries?limit=5", "s1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionHandlerInvalidLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewSessionHandler(storagemocks.NewMockQueryStore(ctrl))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, "/api/sessions/s1/queries?limit=abc", "s1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
