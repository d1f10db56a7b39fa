package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cutru-ai/internal/ingest"
)

type fakeIngester struct {
	written    int
	err        error
	collection string
	chunks     []ingest.Chunk
}

func (f *fakeIngester) Ingest(_ context.Context, collection string, chunks []ingest.Chunk) (int, error) {
	f.collection = collection
	f.chunks = chunks
	return f.written, f.err
}

const ingestFixture = `Luật số: 68/2020/QH14

LUẬT
CƯ TRÚ

Chương I
QUY ĐỊNH CHUNG

Điều 1. Phạm vi điều chỉnh
Luật này quy định về việc thực hiện quyền cư trú.
`

func TestIngestHandler(t *testing.T) {
	pipeline := &fakeIngester{written: 3}
	handler := NewIngestHandler(pipeline)

	body, _ := json.Marshal(IngestRequest{Text: ingestFixture})
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Collection != "legal_chunks" {
		t.Errorf("expected default collection, got %q", resp.Collection)
	}
	if resp.LawCode != "68/2020/QH14" {
		t.Errorf("expected extracted law code, got %q", resp.LawCode)
	}
	if resp.Written != 3 || resp.Chunks == 0 {
		t.Errorf("unexpected counts: %+v", resp)
	}
	if pipeline.collection != "legal_chunks" || len(pipeline.chunks) != resp.Chunks {
		t.Errorf("pipeline got collection=%q chunks=%d", pipeline.collection, len(pipeline.chunks))
	}
}

func TestIngestHandlerOverridesMeta(t *testing.T) {
	pipeline := &fakeIngester{}
	handler := NewIngestHandler(pipeline)

	body, _ := json.Marshal(IngestRequest{
		Collection: "form_chunks",
		Text:       ingestFixture,
		LawName:    "Luật Cư trú sửa đổi",
		LawCode:    "99/2025/QH15",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp IngestResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Collection != "form_chunks" || resp.LawName != "Luật Cư trú sửa đổi" || resp.LawCode != "99/2025/QH15" {
		t.Errorf("overrides not applied: %+v", resp)
	}
}

func TestIngestHandlerEmptyText(t *testing.T) {
	handler := NewIngestHandler(&fakeIngester{})

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"text":""}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIngestHandlerPipelineFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"store down", fmt.Errorf("%w: upsert refused", ingest.ErrStore), http.StatusServiceUnavailable},
		{"embedder down", fmt.Errorf("%w: bad status 500", ingest.ErrEmbedding), http.StatusBadGateway},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewIngestHandler(&fakeIngester{err: tt.err})

			body, _ := json.Marshal(IngestRequest{Text: ingestFixture})
			req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(string(body)))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
