package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks cutru-ai/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with payload metadata.
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// Record is a search or lookup hit returned by the store. The payload carries
// the chunk fields (id, parent_id, type, content, law metadata); Score is zero
// for filter-based lookups.
type Record struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Lookups are best-effort: the store gives no transactional guarantees and
// callers must tolerate partial results.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search and returns hits ranked by score.
	Search(ctx context.Context, collection string, query []float32, limit int) ([]Record, error)

	// SearchByParentID returns records whose payload parent_id equals parentID.
	SearchByParentID(ctx context.Context, collection, parentID string, limit int) ([]Record, error)

	// SearchByID returns records whose payload id equals id.
	SearchByID(ctx context.Context, collection, id string, limit int) ([]Record, error)

	// EnsureCollection creates the collection if missing and validates its vector size.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}
