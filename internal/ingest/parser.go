// Package ingest parses Vietnamese legal texts into structural chunks
// (chương/điều/khoản/điểm) and loads them into the vector store.
package ingest

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// LawMeta identifies the legal text being parsed.
type LawMeta struct {
	LawName string
	LawCode string
	LawType string
}

// Chunk is one structural unit of a legal text, linked to its parent
// by id so article trees can be reconstructed at retrieval time.
type Chunk struct {
	ID         string
	ParentID   string
	ParentType string
	Type       string

	LawName string
	LawCode string
	Chapter string
	Article string
	Clause  string
	Point   string

	Content  string
	LawRef   string
	Category string
}

// Payload converts a chunk into the flat map stored alongside its
// vector.
func (c Chunk) Payload() map[string]any {
	payload := map[string]any{
		"id":       c.ID,
		"type":     c.Type,
		"law_name": c.LawName,
		"law_code": c.LawCode,
		"content":  c.Content,
		"law_ref":  c.LawRef,
		"category": c.Category,
	}
	if c.ParentID != "" {
		payload["parent_id"] = c.ParentID
		payload["parent_type"] = c.ParentType
	}
	if c.Chapter != "" {
		payload["chapter"] = c.Chapter
	}
	if c.Article != "" {
		payload["article"] = c.Article
	}
	if c.Clause != "" {
		payload["clause"] = c.Clause
	}
	if c.Point != "" {
		payload["point"] = c.Point
	}
	return payload
}

var (
	chapterRe = regexp.MustCompile(`(?i)Chương [IVXLCDM]+\.?[^\n]*\n[^\n]*`)
	articleRe = regexp.MustCompile(`(?i)Điều\s+(\d+)\s*\.\s+[^\n]+`)
	clauseRe  = regexp.MustCompile(`(?m)^(\d+)\.`)
	pointRe   = regexp.MustCompile(`(?m)^([a-e])\)`)

	lawCodeRe = regexp.MustCompile(`(?i)(?:Luật số|Số)[:：]?\s*([0-9]{1,4}/[0-9]{4}/?[A-Z0-9\-]+)`)
	lawNameRe = regexp.MustCompile(`(?i)^(LUẬT|NGHỊ ĐỊNH|THÔNG TƯ|QUYẾT ĐỊNH)\s+(.+)$`)

	articlePrefixRe = regexp.MustCompile(`(?i)^Điều\s+\d+\s*\.\s*`)
)

// Signature blocks and appendices that trail the last article.
var endMarkers = []string{
	"Nơi nhận:",
	"PHỤ LỤC",
	"Mẫu số",
	"TM. CHÍNH PHỦ",
	"KT. THỦ TƯỚNG",
	"PHÓ THỦ TƯỚNG",
}

const unknownValue = "Không xác định"

// ExtractMeta pulls the law code and name from the document header.
// Missing fields come back as "Không xác định" rather than empty so
// chunk ids stay well-formed.
func ExtractMeta(raw string) LawMeta {
	meta := LawMeta{LawName: unknownValue, LawCode: unknownValue}

	lines := nonEmptyLines(raw)
	for i, line := range lines {
		if i >= 20 {
			break
		}
		if strings.Contains(line, "Căn cứ") || strings.Contains(line, "Quy định") {
			continue
		}
		if m := lawCodeRe.FindStringSubmatch(line); m != nil {
			meta.LawCode = strings.Trim(m[1], " .")
			break
		}
	}

	for i, line := range lines {
		if i >= 40 {
			break
		}
		if m := lawNameRe.FindStringSubmatch(line); m != nil && !strings.Contains(strings.ToLower(line), "số") {
			meta.LawName = titleWords(line)
			meta.LawType = titleWords(m[1])
			break
		}
	}
	return meta
}

// ParseLaw splits a legal text into chương, điều, khoản and điểm
// chunks. Every chunk below the chapter level carries a parent_id, and
// article numbers are stored bare ("20", not "Điều 20").
func ParseLaw(raw string, meta LawMeta) []Chunk {
	type span struct {
		start int
		title string
	}

	var chapters []span
	for _, loc := range chapterRe.FindAllStringIndex(raw, -1) {
		chapters = append(chapters, span{start: loc[0], title: raw[loc[0]:loc[1]]})
	}
	if len(chapters) == 0 {
		chapters = []span{{start: 0, title: "Văn bản không có chương"}}
	}
	chapters = append(chapters, span{start: len(raw)})

	var chunks []Chunk
	for i := 0; i < len(chapters)-1; i++ {
		chapText := raw[chapters[i].start:chapters[i+1].start]

		titleLines := strings.SplitN(strings.TrimSpace(chapters[i].title), "\n", 2)
		chapterTitle := strings.TrimSpace(titleLines[0])
		chapterContent := chapterTitle
		if len(titleLines) == 2 {
			chapterContent = strings.TrimSpace(titleLines[1])
		}
		chapterID := meta.LawCode + "_" + strings.ReplaceAll(strings.ReplaceAll(chapterTitle, " ", "_"), ".", "")

		chunks = append(chunks, Chunk{
			ID:       chapterID,
			Type:     "chương",
			LawName:  meta.LawName,
			LawCode:  meta.LawCode,
			Chapter:  chapterTitle,
			Content:  chapterContent,
			LawRef:   fmt.Sprintf("%s, %s", meta.LawName, chapterTitle),
			Category: "law",
		})

		chunks = append(chunks, parseArticles(chapText, meta, chapterID, chapterTitle)...)
	}
	return chunks
}

func parseArticles(chapText string, meta LawMeta, chapterID, chapterTitle string) []Chunk {
	matches := articleRe.FindAllStringSubmatchIndex(chapText, -1)
	var chunks []Chunk
	for j, m := range matches {
		end := len(chapText)
		if j+1 < len(matches) {
			end = matches[j+1][0]
		}
		artText := chapText[m[0]:end]
		number := chapText[m[2]:m[3]]
		articleID := chapterID + "_D" + number

		for _, marker := range endMarkers {
			if pos := strings.Index(artText, marker); pos != -1 {
				artText = artText[:pos]
			}
		}
		artText = strings.TrimSpace(artText)

		intro := artText
		clauseMatches := clauseRe.FindAllStringSubmatchIndex(artText, -1)
		if len(clauseMatches) > 0 {
			intro = strings.TrimSpace(artText[:clauseMatches[0][0]])
		}
		intro = strings.TrimSpace(articlePrefixRe.ReplaceAllString(intro, ""))

		chunks = append(chunks, Chunk{
			ID:         articleID,
			ParentID:   chapterID,
			ParentType: "chương",
			Type:       "điều",
			LawName:    meta.LawName,
			LawCode:    meta.LawCode,
			Chapter:    chapterTitle,
			Article:    number,
			Content:    intro,
			LawRef:     fmt.Sprintf("%s, Điều %s", meta.LawName, number),
			Category:   "law",
		})

		chunks = append(chunks, parseClauses(artText, clauseMatches, meta, articleID, chapterTitle, number)...)
	}
	return chunks
}

func parseClauses(artText string, clauseMatches [][]int, meta LawMeta, articleID, chapterTitle, articleNumber string) []Chunk {
	var chunks []Chunk
	for k, m := range clauseMatches {
		end := len(artText)
		if k+1 < len(clauseMatches) {
			end = clauseMatches[k+1][0]
		}
		clauseText := strings.TrimSpace(artText[m[0]:end])
		clauseNo := artText[m[2]:m[3]]
		clauseID := articleID + "_K" + clauseNo

		pointMatches := pointRe.FindAllStringSubmatchIndex(clauseText, -1)
		clauseContent := strings.TrimSpace(strings.TrimPrefix(clauseText, clauseNo+"."))
		if len(pointMatches) > 0 {
			clauseContent = strings.TrimSpace(strings.TrimPrefix(clauseText[:pointMatches[0][0]], clauseNo+"."))
		}

		chunks = append(chunks, Chunk{
			ID:         clauseID,
			ParentID:   articleID,
			ParentType: "điều",
			Type:       "khoản",
			LawName:    meta.LawName,
			LawCode:    meta.LawCode,
			Chapter:    chapterTitle,
			Article:    articleNumber,
			Clause:     clauseNo,
			Content:    clauseContent,
			LawRef:     fmt.Sprintf("%s, Điều %s, Khoản %s", meta.LawName, articleNumber, clauseNo),
			Category:   "law",
		})

		for p, pm := range pointMatches {
			pEnd := len(clauseText)
			if p+1 < len(pointMatches) {
				pEnd = pointMatches[p+1][0]
			}
			pointText := strings.TrimSpace(clauseText[pm[0]:pEnd])
			letter := clauseText[pm[2]:pm[3]]
			pointContent := strings.TrimSpace(strings.TrimPrefix(pointText, letter+")"))

			chunks = append(chunks, Chunk{
				ID:         clauseID + "_" + letter,
				ParentID:   clauseID,
				ParentType: "khoản",
				Type:       "điểm",
				LawName:    meta.LawName,
				LawCode:    meta.LawCode,
				Chapter:    chapterTitle,
				Article:    articleNumber,
				Clause:     clauseNo,
				Point:      letter,
				Content:    pointContent,
				LawRef:     fmt.Sprintf("%s, Điều %s, Khoản %s, Điểm %s", meta.LawName, articleNumber, clauseNo, letter),
				Category:   "law",
			})
		}
	}
	return chunks
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func nonEmptyLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
