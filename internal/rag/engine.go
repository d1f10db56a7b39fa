package rag

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/intent"
	"cutru-ai/internal/legal"
	"cutru-ai/internal/vectorstore"
)

// ErrIntentMissing means classification produced no intent at all.
// Per-lookup failures degrade, but a missing intent is a broken
// pipeline invariant and fails the request.
var ErrIntentMissing = errors.New("intent missing before retrieval")

// Options bound the retrieval fan-out and output sizes.
type Options struct {
	// SearchLimit is the per-collection vector search limit.
	SearchLimit int
	// RerankTopK caps how many candidates go to the reranker.
	RerankTopK int
	// MaxLawDocs caps merged article documents in the output.
	MaxLawDocs int
	// MaxContextDocs caps the total output list.
	MaxContextDocs int
}

// DefaultOptions mirrors the tuning the prompt budget is sized for.
var DefaultOptions = Options{
	SearchLimit:    50,
	RerankTopK:     50,
	MaxLawDocs:     20,
	MaxContextDocs: 30,
}

// Retriever runs the retrieval pipeline for one question.
type Retriever struct {
	classifier *intent.Classifier
	router     *intent.Router
	embedder   Embedder
	store      vectorstore.VectorStore
	expander   *legal.Expander
	reranker   Reranker
	opts       Options
}

// NewRetriever wires a Retriever. reranker may be nil, in which case
// hits keep their vector-score order.
func NewRetriever(
	classifier *intent.Classifier,
	router *intent.Router,
	embedder Embedder,
	store vectorstore.VectorStore,
	expander *legal.Expander,
	reranker Reranker,
	opts Options,
) *Retriever {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultOptions.SearchLimit
	}
	if opts.RerankTopK <= 0 {
		opts.RerankTopK = DefaultOptions.RerankTopK
	}
	if opts.MaxLawDocs <= 0 {
		opts.MaxLawDocs = DefaultOptions.MaxLawDocs
	}
	if opts.MaxContextDocs <= 0 {
		opts.MaxContextDocs = DefaultOptions.MaxContextDocs
	}
	return &Retriever{
		classifier: classifier,
		router:     router,
		embedder:   embedder,
		store:      store,
		expander:   expander,
		reranker:   reranker,
		opts:       opts,
	}
}

type scoredDoc struct {
	doc        legal.Document
	score      float64
	collection string
}

// Retrieve classifies the question, searches the routed collections
// and returns the trimmed context list. Hits from the legal collection
// are expanded into complete articles and merged; everything else is
// reranked and trimmed as-is.
func (r *Retriever) Retrieve(ctx context.Context, question string) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	detection := r.classifier.Detect(ctx, question)
	if detection.Intent == "" {
		return nil, ErrIntentMissing
	}
	dist := r.classifier.DetectAll(ctx, question)
	collections := r.router.CollectionsForAll(dist)

	result := &Result{
		Detection:    detection,
		Distribution: dist,
		Collections:  collections,
	}
	if len(collections) == 0 {
		// Expected for small talk; anything else is a routing hole.
		if detection.Intent != intent.General {
			logger.WarnContext(ctx, "no collections routed", "intent", detection.Intent)
		}
		return result, nil
	}

	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	weights := r.collectionWeights(dist)
	var hits []scoredDoc
	for _, collection := range collections {
		// The general collection holds small talk, not legal context.
		if collection == intent.CollectionGeneral {
			continue
		}
		records, err := r.store.Search(ctx, collection, vector, r.opts.SearchLimit)
		if err != nil {
			logger.WarnContext(ctx, "collection search failed, skipping",
				"collection", collection, "error", err)
			continue
		}
		for _, rec := range records {
			doc, ok := legal.NormalizeRecord(rec)
			if !ok {
				continue
			}
			hits = append(hits, scoredDoc{
				doc:        doc,
				score:      float64(rec.Score) * weights[collection],
				collection: collection,
			})
		}
	}
	logger.InfoContext(ctx, "retrieval search complete",
		"intent", detection.Intent, "collections", len(collections), "hits", len(hits))

	var legalHits, otherHits []scoredDoc
	for _, hit := range hits {
		if hit.collection == intent.CollectionLegal {
			legalHits = append(legalHits, hit)
		} else {
			otherHits = append(otherHits, hit)
		}
	}

	var docs []legal.Document
	if len(legalHits) > 0 {
		docs = append(docs, r.expandAndMerge(ctx, legalHits)...)
	}
	docs = append(docs, r.rerankHits(ctx, question, otherHits)...)
	if len(docs) > r.opts.MaxContextDocs {
		docs = docs[:r.opts.MaxContextDocs]
	}
	result.Documents = docs
	return result, nil
}

// expandAndMerge reconstructs complete articles around the legal hits.
func (r *Retriever) expandAndMerge(ctx context.Context, hits []scoredDoc) []legal.Document {
	semantic := make([]legal.Document, len(hits))
	for i, hit := range hits {
		semantic[i] = hit.doc
	}
	expanded := r.expander.Expand(ctx, semantic, []string{intent.CollectionLegal})
	merged := legal.Merge(expanded)
	if len(merged) > r.opts.MaxLawDocs {
		merged = merged[:r.opts.MaxLawDocs]
	}

	// Non-article leftovers (terms filed in the legal collection and
	// similar) would be lost by the merge; the merged articles are the
	// deliverable here.
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "legal expansion complete",
		"semantic", len(semantic), "expanded", len(expanded), "merged", len(merged))
	return merged
}

// rerankHits orders hits by cross-encoder score, falling back to the
// weighted vector score when the reranker is unavailable.
func (r *Retriever) rerankHits(ctx context.Context, question string, hits []scoredDoc) []legal.Document {
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > r.opts.RerankTopK {
		hits = hits[:r.opts.RerankTopK]
	}

	if r.reranker == nil {
		return docsOf(hits)
	}

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.doc.PageContent
	}
	results, err := r.reranker.Rerank(ctx, question, texts, r.opts.RerankTopK)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "rerank failed, keeping vector order", "error", err)
		return docsOf(hits)
	}

	docs := make([]legal.Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, hits[res.Index].doc)
	}
	return docs
}

// collectionWeights folds the intent distribution into one weight per
// collection, taking the strongest intent that routes there.
func (r *Retriever) collectionWeights(dist []intent.Scored) map[string]float64 {
	weights := make(map[string]float64)
	for _, scored := range dist {
		w := scored.Weight
		if scored.Intent == intent.Ambiguous || scored.Intent == intent.Unknown {
			w = 1.0
		}
		for _, collection := range r.router.Collections(scored.Intent, intent.ConfidenceMedium) {
			if w > weights[collection] {
				weights[collection] = w
			}
		}
	}
	return weights
}

func docsOf(hits []scoredDoc) []legal.Document {
	docs := make([]legal.Document, len(hits))
	for i, hit := range hits {
		docs[i] = hit.doc
	}
	return docs
}
