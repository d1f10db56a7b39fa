// Package rag orchestrates retrieval: classify the question, route it
// to collections, search, expand legal structure, merge and trim.
package rag

import (
	"context"

	"cutru-ai/internal/intent"
	"cutru-ai/internal/legal"
	"cutru-ai/internal/rerank"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks cutru-ai/internal/rag Embedder,Reranker

// Embedder turns the question into a query vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Reranker re-scores candidate documents against the question.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topK int) ([]rerank.Result, error)
}

// Result is the retrieval outcome handed to prompt building.
type Result struct {
	// Documents is the final trimmed context list. For law questions
	// it leads with merged article documents.
	Documents []legal.Document

	// Detection and Distribution record how the question was
	// classified.
	Detection    intent.Detection
	Distribution []intent.Scored

	// Collections actually searched.
	Collections []string
}
