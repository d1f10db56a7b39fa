package legal

import (
	"sort"
	"strconv"
	"strings"
)

// clauseSentinel sorts clauses with a missing or non-numeric clause
// number after every real one instead of failing the merge.
const clauseSentinel = 99

// clauseView pairs a clause doc with its sorted child points. It is an
// internal construction-time structure; input docs are never mutated.
type clauseView struct {
	doc    Document
	points []Document
}

// Merge reassembles article-level documents from a mixed set of
// article, clause and point chunks. One output document is produced per
// distinct "điều" in the input, in input order, with clauses sorted by
// number ascending and points sorted by label within each clause. The
// result is a pure function of the input: identical inputs produce
// byte-identical output.
func Merge(docs []Document) []Document {
	pointsByClause := make(map[string][]Document)
	for _, doc := range docs {
		if doc.Type() != TypePoint {
			continue
		}
		if pid := doc.ParentID(); pid != "" {
			pointsByClause[pid] = append(pointsByClause[pid], doc)
		}
	}

	clausesByArticle := make(map[string][]clauseView)
	for _, doc := range docs {
		if doc.Type() != TypeClause {
			continue
		}
		pid := doc.ParentID()
		if pid == "" {
			continue
		}
		points := append([]Document(nil), pointsByClause[doc.ID()]...)
		sort.SliceStable(points, func(i, j int) bool {
			return pointLabel(points[i]) < pointLabel(points[j])
		})
		clausesByArticle[pid] = append(clausesByArticle[pid], clauseView{doc: doc, points: points})
	}

	var merged []Document
	for _, doc := range docs {
		if doc.Type() != TypeArticle {
			continue
		}

		var lines []string
		if doc.PageContent != "" {
			lines = append(lines, doc.PageContent)
		}

		clauses := clausesByArticle[doc.ID()]
		sort.SliceStable(clauses, func(i, j int) bool {
			return clauseNumber(clauses[i].doc) < clauseNumber(clauses[j].doc)
		})
		for _, cv := range clauses {
			lines = append(lines, "- Khoản "+clauseLabel(cv.doc)+": "+cv.doc.PageContent)
			for _, p := range cv.points {
				lines = append(lines, "  + Điểm "+pointLabel(p)+": "+p.PageContent)
			}
		}

		merged = append(merged, Document{
			PageContent: articleTitle(doc) + "\n" + strings.Join(lines, "\n"),
			Metadata:    doc.Metadata,
		})
	}
	return merged
}

func articleTitle(doc Document) string {
	title := doc.metaString("law_name")
	if chapter := doc.metaString("chapter"); chapter != "" {
		title += " - " + chapter
	}
	if article := doc.metaString("article"); article != "" {
		title += " - Điều " + article
	}
	return title
}

func clauseLabel(doc Document) string {
	return doc.metaString("clause")
}

func pointLabel(doc Document) string {
	return doc.metaString("point")
}

func clauseNumber(doc Document) int {
	n, err := strconv.Atoi(clauseLabel(doc))
	if err != nil {
		return clauseSentinel
	}
	return n
}
