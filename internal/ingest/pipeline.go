package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/vectorstore"
)

// Error classes so callers can distinguish which upstream failed.
var (
	ErrStore     = errors.New("vector store unavailable")
	ErrEmbedding = errors.New("embedding service unavailable")
)

// Embedder turns chunk text into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

const defaultBatchSize = 32

// Pipeline embeds chunks and upserts them into a store collection.
type Pipeline struct {
	store      vectorstore.VectorStore
	embedder   Embedder
	vectorSize int
	batchSize  int
}

// NewPipeline creates an ingestion pipeline. vectorSize must match the
// embedder's output dimension.
func NewPipeline(store vectorstore.VectorStore, embedder Embedder, vectorSize int) *Pipeline {
	return &Pipeline{
		store:      store,
		embedder:   embedder,
		vectorSize: vectorSize,
		batchSize:  defaultBatchSize,
	}
}

// Ingest loads chunks into collection in batches and returns the
// number of points written. Point ids are derived from chunk ids, so
// re-ingesting the same text overwrites rather than duplicates.
func (p *Pipeline) Ingest(ctx context.Context, collection string, chunks []Chunk) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := p.store.EnsureCollection(ctx, collection, p.vectorSize); err != nil {
		return 0, fmt.Errorf("%w: failed to ensure collection %s: %v", ErrStore, collection, err)
	}

	var written int
	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = embeddingText(chunk)
		}
		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return written, fmt.Errorf("%w: failed to embed batch at %d: %v", ErrEmbedding, start, err)
		}

		points := make([]vectorstore.Point, len(batch))
		for i, chunk := range batch {
			points[i] = vectorstore.Point{
				ID:      PointID(chunk.ID),
				Vec:     vectors[i],
				Payload: chunk.Payload(),
			}
		}
		if err := p.store.Upsert(ctx, collection, points); err != nil {
			return written, fmt.Errorf("%w: failed to upsert batch at %d: %v", ErrStore, start, err)
		}
		written += len(batch)
		logger.DebugContext(ctx, "ingested batch", "collection", collection, "written", written, "total", len(chunks))
	}

	logger.InfoContext(ctx, "ingest complete", "collection", collection, "chunks", written)
	return written, nil
}

// PointID derives a stable UUID point id from a chunk id.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// embeddingText prefixes the chunk content with its legal reference so
// the vector carries the structural context, not just the fragment.
func embeddingText(chunk Chunk) string {
	if chunk.LawRef == "" {
		return chunk.Content
	}
	return chunk.LawRef + "\n" + chunk.Content
}
