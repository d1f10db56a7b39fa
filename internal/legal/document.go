// Package legal models Vietnamese legal-document structure (điều/khoản/điểm)
// and reconstructs complete articles from fragmented vector-store hits.
package legal

import (
	"cutru-ai/internal/vectorstore"
)

// Chunk types stored in the legal collection payloads.
const (
	TypeArticle = "điều"
	TypeClause  = "khoản"
	TypePoint   = "điểm"
)

// Document is the atomic retrieval unit: a text payload plus an open
// metadata bag carried from the vector-store record.
type Document struct {
	PageContent string
	Metadata    map[string]any
}

// ID returns the chunk id, or "" when absent.
func (d Document) ID() string {
	return d.metaString("id")
}

// ParentID returns the id of the enclosing structural unit, or "" for
// top-level articles.
func (d Document) ParentID() string {
	return d.metaString("parent_id")
}

// Type returns the chunk type ("điều", "khoản", "điểm") or "" for
// non-legal chunks.
func (d Document) Type() string {
	return d.metaString("type")
}

func (d Document) metaString(key string) string {
	if d.Metadata == nil {
		return ""
	}
	if v, ok := d.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// NormalizeRecord converts a raw store record into a Document. The text
// payload lives under "content" in the legal collections and "text" in
// the flatter ones, so both are checked, in that order. Records with no
// payload at all are rejected.
func NormalizeRecord(rec vectorstore.Record) (Document, bool) {
	if rec.Payload == nil {
		return Document{}, false
	}
	content, _ := rec.Payload["content"].(string)
	if content == "" {
		content, _ = rec.Payload["text"].(string)
	}
	return Document{PageContent: content, Metadata: rec.Payload}, true
}

// Dedup collapses docs by id, first occurrence wins. Docs without an id
// cannot participate in dedup and are dropped.
func Dedup(docs []Document) []Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, doc)
	}
	return out
}
