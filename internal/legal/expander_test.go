package legal

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"cutru-ai/internal/vectorstore"
	"cutru-ai/internal/vectorstore/mocks"
)

func record(id, parentID, typ, content string) vectorstore.Record {
	payload := map[string]any{"id": id, "type": typ, "content": content}
	if parentID != "" {
		payload["parent_id"] = parentID
	}
	return vectorstore.Record{PointID: id, Payload: payload}
}

func ids(docs []Document) map[string]bool {
	out := make(map[string]bool, len(docs))
	for _, d := range docs {
		out[d.ID()] = true
	}
	return out
}

func TestExpandWalksClauseToFullArticle(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	const coll = "legal_chunks"

	// Semantic hit: one clause. The walk should recover its article,
	// the sibling clause, and every point underneath.
	semantic := []Document{{
		PageContent: "khoản một",
		Metadata:    map[string]any{"id": "k1", "parent_id": "d1", "type": TypeClause, "clause": "1"},
	}}

	store.EXPECT().SearchByParentID(gomock.Any(), coll, "d1", 30).
		Return([]vectorstore.Record{record("k2", "d1", TypeClause, "khoản hai")}, nil)
	store.EXPECT().SearchByID(gomock.Any(), coll, "d1", 1).
		Return([]vectorstore.Record{record("d1", "", TypeArticle, "điều năm")}, nil).Times(2)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "d1", 50).
		Return([]vectorstore.Record{
			record("k1", "d1", TypeClause, "khoản một"),
			record("k2", "d1", TypeClause, "khoản hai"),
		}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "k1", 30).
		Return([]vectorstore.Record{record("p1", "k1", TypePoint, "điểm a")}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "k2", 30).
		Return(nil, nil)

	expander := NewExpander(store, DefaultLimits)
	got := expander.Expand(context.Background(), semantic, []string{coll})

	want := []string{"k1", "d1", "k2", "p1"}
	have := ids(got)
	if len(got) != len(want) {
		t.Fatalf("expected %d docs after dedup, got %d: %v", len(want), len(got), have)
	}
	for _, id := range want {
		if !have[id] {
			t.Fatalf("expected doc %s in expansion, got %v", id, have)
		}
	}
}

func TestExpandWalksPointToFullArticle(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	const coll = "legal_chunks"

	// Semantic hit: a single point. The walk must resolve its clause by
	// id, climb to the article, and pull the whole tree so the merge can
	// produce an article document.
	semantic := []Document{{
		PageContent: "điểm a",
		Metadata:    map[string]any{"id": "p1", "parent_id": "k1", "type": TypePoint, "point": "a"},
	}}

	store.EXPECT().SearchByID(gomock.Any(), coll, "k1", 1).
		Return([]vectorstore.Record{record("k1", "d1", TypeClause, "khoản một")}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "k1", 30).
		Return([]vectorstore.Record{
			record("p1", "k1", TypePoint, "điểm a"),
			record("p2", "k1", TypePoint, "điểm b"),
		}, nil).Times(2)
	store.EXPECT().SearchByID(gomock.Any(), coll, "d1", 1).
		Return([]vectorstore.Record{record("d1", "", TypeArticle, "điều năm")}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "d1", 50).
		Return([]vectorstore.Record{
			record("k1", "d1", TypeClause, "khoản một"),
			record("k2", "d1", TypeClause, "khoản hai"),
		}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "k2", 30).
		Return(nil, nil)

	expander := NewExpander(store, DefaultLimits)
	got := expander.Expand(context.Background(), semantic, []string{coll})

	want := []string{"p1", "p2", "k1", "k2", "d1"}
	have := ids(got)
	if len(got) != len(want) {
		t.Fatalf("expected %d docs after dedup, got %d: %v", len(want), len(got), have)
	}
	for _, id := range want {
		if !have[id] {
			t.Fatalf("expected doc %s in expansion, got %v", id, have)
		}
	}

	merged := Merge(got)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged article from point hit, got %d", len(merged))
	}
}

func TestExpandArticleHitPullsChildren(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	const coll = "legal_chunks"

	// Semantic hit at the article level: its clauses and points must
	// still be fetched even though the hit has no parent to walk up to.
	semantic := []Document{{
		PageContent: "điều năm",
		Metadata:    map[string]any{"id": "d1", "type": TypeArticle, "article": "5"},
	}}

	store.EXPECT().SearchByID(gomock.Any(), coll, "d1", 1).
		Return([]vectorstore.Record{record("d1", "", TypeArticle, "điều năm")}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "d1", 50).
		Return([]vectorstore.Record{record("k1", "d1", TypeClause, "khoản một")}, nil)
	store.EXPECT().SearchByParentID(gomock.Any(), coll, "k1", 30).
		Return([]vectorstore.Record{record("p1", "k1", TypePoint, "điểm a")}, nil)

	expander := NewExpander(store, DefaultLimits)
	got := expander.Expand(context.Background(), semantic, []string{coll})

	want := []string{"d1", "k1", "p1"}
	have := ids(got)
	if len(got) != len(want) {
		t.Fatalf("expected %d docs after dedup, got %d: %v", len(want), len(got), have)
	}
	for _, id := range want {
		if !have[id] {
			t.Fatalf("expected doc %s in expansion, got %v", id, have)
		}
	}
}

func TestExpandSkipsFailingCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	semantic := []Document{{
		PageContent: "khoản một",
		Metadata:    map[string]any{"id": "k1", "parent_id": "d1", "type": TypeClause},
	}}

	store.EXPECT().SearchByParentID(gomock.Any(), "legal_chunks", gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	store.EXPECT().SearchByID(gomock.Any(), "legal_chunks", "d1", 1).
		Return([]vectorstore.Record{record("d1", "", TypeArticle, "điều")}, nil).Times(2)

	// The second collection fails every lookup; expansion must carry on.
	storeErr := errors.New("connection refused")
	store.EXPECT().SearchByParentID(gomock.Any(), "form_chunks", gomock.Any(), gomock.Any()).
		Return(nil, storeErr).AnyTimes()
	store.EXPECT().SearchByID(gomock.Any(), "form_chunks", gomock.Any(), gomock.Any()).
		Return(nil, storeErr).AnyTimes()

	expander := NewExpander(store, DefaultLimits)
	got := expander.Expand(context.Background(), semantic, []string{"legal_chunks", "form_chunks"})

	have := ids(got)
	if !have["k1"] || !have["d1"] {
		t.Fatalf("expected k1 and d1 despite one collection failing, got %v", have)
	}
}

func TestExpandResultIsDeduplicated(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockVectorStore(ctrl)

	semantic := []Document{
		{Metadata: map[string]any{"id": "k1", "parent_id": "d1", "type": TypeClause}},
		{Metadata: map[string]any{"id": "k1", "parent_id": "d1", "type": TypeClause}},
	}

	store.EXPECT().SearchByParentID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]vectorstore.Record{record("k1", "d1", TypeClause, "khoản")}, nil).AnyTimes()
	store.EXPECT().SearchByID(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()

	expander := NewExpander(store, DefaultLimits)
	got := expander.Expand(context.Background(), semantic, []string{"legal_chunks"})

	counts := make(map[string]int)
	for _, d := range got {
		counts[d.ID()]++
	}
	if counts["k1"] != 1 {
		t.Fatalf("expected exactly one k1 after dedup, got %d", counts["k1"])
	}
}

func TestDedupDropsDocsWithoutID(t *testing.T) {
	docs := []Document{
		{Metadata: map[string]any{"id": "a"}},
		{Metadata: map[string]any{"type": TypeClause}},
		{Metadata: map[string]any{"id": "a"}},
		{Metadata: map[string]any{"id": "b"}},
	}
	got := Dedup(docs)
	if len(got) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(got))
	}
	if got[0].ID() != "a" || got[1].ID() != "b" {
		t.Fatalf("unexpected order: %v, %v", got[0].ID(), got[1].ID())
	}
}
