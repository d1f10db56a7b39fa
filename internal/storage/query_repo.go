package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_store.go -package=mocks cutru-ai/internal/storage QueryStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// QueryRecord is one processed question with its pipeline outcome.
type QueryRecord struct {
	ID                string
	SessionID         string
	Question          string
	RewrittenQuestion string
	Intent            string
	Confidence        string
	Collections       []string
	SafetyLevel       string
	DocCount          int
	Answered          bool
	Cached            bool
	DurationMS        int64
	CreatedAt         time.Time
}

// QueryStore defines the interface for query tracking operations.
type QueryStore interface {
	// Insert records a processed query. record.ID must be set (UUID).
	Insert(ctx context.Context, record *QueryRecord) error
	// ListBySession returns a session's queries, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]QueryRecord, error)
}

// QueryRepo implements QueryStore over SQLite.
type QueryRepo struct {
	db *sql.DB
}

// NewQueryRepo creates a new QueryRepo.
func NewQueryRepo(db *sql.DB) *QueryRepo {
	return &QueryRepo{db: db}
}

// Insert records a processed query.
func (r *QueryRepo) Insert(ctx context.Context, record *QueryRecord) error {
	answered := 0
	if record.Answered {
		answered = 1
	}
	cached := 0
	if record.Cached {
		cached = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO query_log
			(id, session_id, question, rewritten_question, intent, confidence, collections, safety_level, doc_count, answered, cached, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.SessionID, record.Question, record.RewrittenQuestion,
		record.Intent, record.Confidence, strings.Join(record.Collections, ","),
		record.SafetyLevel, record.DocCount, answered, cached, record.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	return nil
}

// ListBySession returns a session's queries, newest first.
func (r *QueryRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, question, rewritten_question, intent, confidence, collections, safety_level, doc_count, answered, cached, duration_ms, created_at
		FROM query_log WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []QueryRecord
	for rows.Next() {
		var rec QueryRecord
		var collections string
		var answered, cached int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Question, &rec.RewrittenQuestion,
			&rec.Intent, &rec.Confidence, &collections, &rec.SafetyLevel, &rec.DocCount,
			&answered, &cached, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		if collections != "" {
			rec.Collections = strings.Split(collections, ",")
		}
		rec.Answered = answered == 1
		rec.Cached = cached == 1
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate query records: %w", err)
	}
	return records, nil
}
