// Package rerank scores retrieved documents against a query with an
// external cross-encoder reranker service.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/sony/gobreaker"
)

// Result is one reranked document: its index in the submitted batch
// plus the cross-encoder relevance score.
type Result struct {
	Index int     `json:"index"`
	Score float64 `json:"relevance_score"`
}

// Client calls a reranker service exposing a POST /rerank endpoint.
// Calls run through a circuit breaker; callers are expected to fall
// back to vector-score order when reranking fails.
type Client struct {
	BaseURL string
	Model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a reranker client.
func NewClient(baseURL, model string) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "reranker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		client:  http.DefaultClient,
		breaker: breaker,
	}
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopK      int      `json:"top_k,omitempty"`
}

type rerankResponse struct {
	Results []Result `json:"results"`
}

// Rerank scores documents against query and returns up to topK results
// ordered by relevance descending. topK <= 0 returns all documents.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topK int) ([]Result, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	results, err := c.breaker.Execute(func() (any, error) {
		return c.rerank(ctx, query, documents, topK)
	})
	if err != nil {
		return nil, err
	}
	return results.([]Result), nil
}

func (c *Client) rerank(ctx context.Context, query string, documents []string, topK int) ([]Result, error) {
	body, err := json.Marshal(rerankRequest{
		Model:     c.Model,
		Query:     query,
		Documents: documents,
		TopK:      topK,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/rerank", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var rerankResp rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := rerankResp.Results
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(documents) {
			return nil, fmt.Errorf("result index %d out of range", r.Index)
		}
	}
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
