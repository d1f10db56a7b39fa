package legal

import (
	"context"
	"sync"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/vectorstore"
)

// Limits bound the fan-out of each expansion hop.
type Limits struct {
	Parent int // sibling fetch per parent id (step one)
	Clause int // clauses per article (step two)
	Point  int // points per clause (step two)
}

// DefaultLimits matches the over-fetch sizes the retrieval flow is
// tuned for.
var DefaultLimits = Limits{Parent: 30, Clause: 50, Point: 30}

// Expander walks the điểm→khoản→điều hierarchy in the vector store to
// pull in the complete article around each semantic hit. Vector search
// surfaces the best-matching fragment, but a legal provision is only
// correct in full: sibling clauses and points change its meaning, so
// the expander over-fetches the whole unit and leaves trimming to the
// merge stage.
type Expander struct {
	store       vectorstore.VectorStore
	limits      Limits
	concurrency int
}

// NewExpander builds an Expander over store. Non-positive limit fields
// fall back to DefaultLimits.
func NewExpander(store vectorstore.VectorStore, limits Limits) *Expander {
	if limits.Parent <= 0 {
		limits.Parent = DefaultLimits.Parent
	}
	if limits.Clause <= 0 {
		limits.Clause = DefaultLimits.Clause
	}
	if limits.Point <= 0 {
		limits.Point = DefaultLimits.Point
	}
	return &Expander{store: store, limits: limits, concurrency: 4}
}

// Expand resolves the structural context of semanticDocs across the
// given collections and returns the deduplicated union of the input
// and everything fetched. A failed lookup skips only that lookup's
// contribution; it never aborts the expansion. The returned set is
// identical for identical inputs regardless of fetch interleaving.
func (e *Expander) Expand(ctx context.Context, semanticDocs []Document, collections []string) []Document {
	logger := contextutil.LoggerFromContext(ctx)

	// First hop: for every clause or point hit, fetch the parent
	// record itself and the siblings sharing that parent. The parent
	// is looked up by id because a by-parent scan only returns the
	// parent's children, never the parent: a lone điểm hit climbs to
	// its khoản only through the id lookup.
	parentIDs := collectParentIDs(semanticDocs, TypePoint, TypeClause)
	expansionDocs := e.fanOut(ctx, parentIDs, collections, func(ctx context.Context, id, collection string) []Document {
		docs := e.fetchByID(ctx, collection, id)
		return append(docs, e.fetchByParent(ctx, collection, id, e.limits.Parent)...)
	})
	logger.DebugContext(ctx, "expanded parent and sibling records",
		"parent_ids", len(parentIDs), "fetched", len(expansionDocs))

	// Second hop: every clause seen so far names its article; fetch
	// the article itself, all of its clauses, and all their points.
	// Article-level hits seed this hop directly so their children are
	// recovered too.
	combined := append(append([]Document(nil), semanticDocs...), expansionDocs...)
	dieuIDs := collectParentIDs(combined, TypeClause)
	dieuIDs = appendMissing(dieuIDs, collectIDs(semanticDocs, TypeArticle))
	articleDocs := e.fanOut(ctx, dieuIDs, collections, e.fetchArticleTree)
	logger.DebugContext(ctx, "expanded article trees",
		"article_ids", len(dieuIDs), "fetched", len(articleDocs))

	return Dedup(append(combined, articleDocs...))
}

// fanOut runs fetch for every (id, collection) pair with bounded
// concurrency. Results are flattened in pair order so the output is
// independent of scheduling.
func (e *Expander) fanOut(ctx context.Context, ids, collections []string, fetch func(ctx context.Context, id, collection string) []Document) []Document {
	type task struct {
		id         string
		collection string
	}
	var tasks []task
	for _, id := range ids {
		for _, collection := range collections {
			tasks = append(tasks, task{id: id, collection: collection})
		}
	}

	results := make([][]Document, len(tasks))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t task) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = fetch(ctx, t.id, t.collection)
		}(i, t)
	}
	wg.Wait()

	var out []Document
	for _, docs := range results {
		out = append(out, docs...)
	}
	return out
}

// fetchArticleTree pulls an article by id, then its clauses, then each
// clause's points, all from one collection.
func (e *Expander) fetchArticleTree(ctx context.Context, dieuID, collection string) []Document {
	docs := e.fetchByID(ctx, collection, dieuID)

	clauses := e.fetchByParent(ctx, collection, dieuID, e.limits.Clause)
	docs = append(docs, clauses...)

	for _, clause := range clauses {
		if clause.Type() != TypeClause {
			continue
		}
		if id := clause.ID(); id != "" {
			docs = append(docs, e.fetchByParent(ctx, collection, id, e.limits.Point)...)
		}
	}
	return docs
}

func (e *Expander) fetchByParent(ctx context.Context, collection, parentID string, limit int) []Document {
	records, err := e.store.SearchByParentID(ctx, collection, parentID, limit)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "parent lookup failed, skipping",
			"collection", collection, "parent_id", parentID, "error", err)
		return nil
	}
	return normalizeRecords(records)
}

func (e *Expander) fetchByID(ctx context.Context, collection, id string) []Document {
	records, err := e.store.SearchByID(ctx, collection, id, 1)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "id lookup failed, skipping",
			"collection", collection, "id", id, "error", err)
		return nil
	}
	return normalizeRecords(records)
}

func normalizeRecords(records []vectorstore.Record) []Document {
	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		if doc, ok := NormalizeRecord(rec); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// collectParentIDs gathers the distinct non-empty parent ids of docs
// whose type is one of types, in first-seen order.
func collectParentIDs(docs []Document, types ...string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, doc := range docs {
		if !containsType(types, doc.Type()) {
			continue
		}
		pid := doc.ParentID()
		if pid == "" {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		ids = append(ids, pid)
	}
	return ids
}

// collectIDs gathers the distinct non-empty ids of docs whose type is
// one of types, in first-seen order.
func collectIDs(docs []Document, types ...string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, doc := range docs {
		if !containsType(types, doc.Type()) {
			continue
		}
		id := doc.ID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// appendMissing appends the entries of extra not already present in ids.
func appendMissing(ids, extra []string) []string {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range extra {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
