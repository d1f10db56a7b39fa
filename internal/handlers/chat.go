// Package handlers implements the HTTP API.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/llm"
	"cutru-ai/internal/workflow"
)

// Assistant is the pipeline surface the chat handler needs.
type Assistant interface {
	Answer(ctx context.Context, req workflow.Request) (*workflow.Response, error)
	AnswerStream(ctx context.Context, req workflow.Request, onChunk func(chunk string) error) (*workflow.Response, error)
}

// ChatHandler handles chat requests.
type ChatHandler struct {
	assistant Assistant
	markdown  goldmark.Markdown
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant Assistant) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		markdown:  goldmark.New(),
	}
}

// ChatRequest is the HTTP request payload.
type ChatRequest struct {
	SessionID string        `json:"session_id,omitempty"`
	Question  string        `json:"question"`
	History   []llm.Message `json:"history,omitempty"`
	Stream    bool          `json:"stream,omitempty"`
}

// ChatResponse is the HTTP response payload.
type ChatResponse struct {
	SessionID   string   `json:"session_id"`
	Answer      string   `json:"answer"`
	AnswerHTML  string   `json:"answer_html,omitempty"`
	Intent      string   `json:"intent"`
	Confidence  string   `json:"confidence"`
	Collections []string `json:"collections,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	SafetyLevel string   `json:"safety_level"`
	Cached      bool     `json:"cached"`
	DurationMS  int64    `json:"duration_ms"`
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	wreq := workflow.Request{
		SessionID: req.SessionID,
		Question:  req.Question,
		History:   req.History,
	}

	if req.Stream || strings.HasSuffix(r.URL.Path, "/stream") {
		h.stream(w, r, wreq)
		return
	}

	resp, err := h.assistant.Answer(r.Context(), wreq)
	if err != nil {
		if errors.Is(err, workflow.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := ChatResponse{
		SessionID:   req.SessionID,
		Answer:      resp.Answer,
		Intent:      resp.Intent,
		Confidence:  resp.Confidence,
		Collections: resp.Collections,
		Sources:     resp.Sources,
		SafetyLevel: resp.SafetyLevel,
		Cached:      resp.Cached,
		DurationMS:  resp.DurationMS,
	}
	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(resp.Answer), &buf); err == nil {
			out.AnswerHTML = buf.String()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// stream sends the answer as Server-Sent Events: one data event per
// chunk, then a [DONE] marker.
func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, req workflow.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	_, err := h.assistant.AnswerStream(r.Context(), req, func(chunk string) error {
		payload, err := json.Marshal(map[string]string{"delta": chunk})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if errors.Is(err, workflow.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "stream failed", "error", err)
		return
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
