package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/ingest"
	"cutru-ai/internal/intent"
)

// Ingester loads parsed chunks into a collection.
type Ingester interface {
	Ingest(ctx context.Context, collection string, chunks []ingest.Chunk) (int, error)
}

// IngestHandler accepts raw legal text and loads it into the store.
type IngestHandler struct {
	pipeline Ingester
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline Ingester) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest is the HTTP request payload.
type IngestRequest struct {
	// Collection defaults to the legal collection.
	Collection string `json:"collection,omitempty"`
	// Text is the full legal document text.
	Text string `json:"text"`
	// LawName and LawCode override header extraction when set.
	LawName string `json:"law_name,omitempty"`
	LawCode string `json:"law_code,omitempty"`
}

// IngestResponse is the HTTP response payload.
type IngestResponse struct {
	Collection string `json:"collection"`
	LawName    string `json:"law_name"`
	LawCode    string `json:"law_code"`
	Chunks     int    `json:"chunks"`
	Written    int    `json:"written"`
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Collection == "" {
		req.Collection = intent.CollectionLegal
	}

	meta := ingest.ExtractMeta(req.Text)
	if req.LawName != "" {
		meta.LawName = req.LawName
	}
	if req.LawCode != "" {
		meta.LawCode = req.LawCode
	}

	chunks := ingest.ParseLaw(req.Text, meta)
	written, err := h.pipeline.Ingest(r.Context(), req.Collection, chunks)
	if err != nil {
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "ingest failed", "error", err)
		switch {
		case errors.Is(err, ingest.ErrStore):
			writeError(w, http.StatusServiceUnavailable, "vector store unavailable")
		case errors.Is(err, ingest.ErrEmbedding):
			writeError(w, http.StatusBadGateway, "embedding service unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "ingest failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Collection: req.Collection,
		LawName:    meta.LawName,
		LawCode:    meta.LawCode,
		Chunks:     len(chunks),
		Written:    written,
	})
}
