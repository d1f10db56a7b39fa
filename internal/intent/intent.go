// Package intent classifies Vietnamese residence-law questions into weighted
// document-category intents and routes them to vector store collections.
package intent

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"cutru-ai/internal/contextutil"
)

// Type is the classified purpose category of a user query.
type Type string

const (
	Law       Type = "law"       // legal text lookup
	Form      Type = "form"      // form filling guidance
	Term      Type = "term"      // term/definition lookup
	Procedure Type = "procedure" // administrative procedure
	Template  Type = "template"  // original template download
	General   Type = "general"   // small talk / off-domain
	Ambiguous Type = "ambiguous"
	Unknown   Type = "unknown"
)

// Confidence is a coarse confidence level attached to a classification.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceVeryLow Confidence = "very_low"
)

// Scored is one entry of a multi-intent distribution. Weight is in [0,1];
// the weights of a distribution need not sum to 1.
type Scored struct {
	Intent Type
	Weight float64
}

// Detection carries the chosen intent plus per-category match counts for
// observability.
type Detection struct {
	Intent     Type
	Confidence Confidence
	Matches    map[Type]int
}

// Rules holds the compiled pattern banks per category. It is immutable after
// construction and safe to share across concurrent requests.
type Rules struct {
	Law       []*regexp.Regexp
	Form      []*regexp.Regexp
	Term      []*regexp.Regexp
	Procedure []*regexp.Regexp
	Template  []*regexp.Regexp
	Ambiguous []*regexp.Regexp
	General   []*regexp.Regexp
}

// DefaultRules returns the built-in pattern banks over Vietnamese
// legal/administrative vocabulary for the residence domain.
func DefaultRules() Rules {
	return Rules{
		Law: compileAll(
			`luật\s+cư\s+trú`,
			`điều\s+\d+`,
			`khoản\s+\d+`,
			`nghị\s+định`,
			`thông\s+tư`,
			`văn\s+bản\s+pháp`,
			`căn\s+cứ\s+pháp\s+lý`,
			`quy\s+định\s+(về|của|tại)`,
			`pháp\s+luật`,
			`xử\s+phạt`,
			`vi\s+phạm`,
		),
		Form: compileAll(
			`điền\s+(vào\s+)?(biểu\s+)?mẫu`,
			`hướng\s+dẫn\s+điền`,
			`cách\s+ghi`,
			`cách\s+điền`,
			`tờ\s+khai`,
			`biểu\s+mẫu`,
			`khai\s+báo\s+thông\s+tin`,
			`mục\s+nào`,
			`ghi\s+như\s+thế\s+nào`,
		),
		Term: compileAll(
			`là\s+gì`,
			`định\s+nghĩa`,
			`thuật\s+ngữ`,
			`khái\s+niệm`,
			`nghĩa\s+là`,
			`hiểu\s+(như\s+)?thế\s+nào`,
			`giải\s+thích`,
		),
		Procedure: compileAll(
			`thủ\s+tục`,
			`trình\s+tự`,
			`thành\s+phần\s+hồ\s+sơ`,
			`hồ\s+sơ\s+(gồm|cần|bao\s+gồm)`,
			`cách\s+thực\s+hiện`,
			`thời\s+hạn\s+giải\s+quyết`,
			`lệ\s+phí`,
			`nộp\s+(hồ\s+sơ|ở\s+đâu)`,
			`đăng\s+ký\s+(thường|tạm)\s+trú`,
			`gia\s+hạn\s+tạm\s+trú`,
			`xóa\s+đăng\s+ký`,
			`tách\s+hộ`,
		),
		Template: compileAll(
			`tải\s+(mẫu|biểu\s+mẫu|tờ\s+khai)`,
			`mẫu\s+gốc`,
			`file\s+mẫu`,
			`bản\s+mẫu`,
			`download\s+mẫu`,
			`xin\s+mẫu`,
			`mẫu\s+(ct|na)\d+`,
			`phiếu\s+khai\s+báo`,
		),
		Ambiguous: compileAll(
			`cư\s+trú`,
			`hộ\s+khẩu`,
			`tạm\s+trú`,
			`thường\s+trú`,
			`tạm\s+vắng`,
			`công\s+an`,
			`giấy\s+tờ`,
		),
		General: compileAll(
			`^(xin\s+)?chào`,
			`\bhello\b`,
			`\bhi\b`,
			`cảm\s+ơn`,
			`tạm\s+biệt`,
			`bạn\s+(là\s+ai|tên\s+gì)`,
			`bạn\s+có\s+khỏe`,
			`giúp\s+được\s+(những\s+)?gì`,
		),
	}
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// Classifier scores queries against the rule banks. Zero-allocation of state
// per call; safe for concurrent use.
type Classifier struct {
	rules  Rules
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given rules.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{
		rules:  rules,
		logger: slog.Default(),
	}
}

// countMatches counts, per category, how many distinct patterns match anywhere
// in the lowercased query. Each pattern contributes at most 1 regardless of
// how many times it matches.
func (c *Classifier) countMatches(query string) map[Type]int {
	lowered := strings.ToLower(query)
	counts := map[Type]int{
		Law:       countBank(c.rules.Law, lowered),
		Form:      countBank(c.rules.Form, lowered),
		Term:      countBank(c.rules.Term, lowered),
		Procedure: countBank(c.rules.Procedure, lowered),
		Template:  countBank(c.rules.Template, lowered),
		Ambiguous: countBank(c.rules.Ambiguous, lowered),
		General:   countBank(c.rules.General, lowered),
	}
	return counts
}

func countBank(bank []*regexp.Regexp, lowered string) int {
	n := 0
	for _, re := range bank {
		if re.MatchString(lowered) {
			n++
		}
	}
	return n
}

// Detect classifies a query into its primary intent. It never fails: a query
// that matches nothing resolves to Unknown with very_low confidence, and
// empty/whitespace input resolves the same way.
func (c *Classifier) Detect(ctx context.Context, query string) Detection {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return Detection{Intent: Unknown, Confidence: ConfidenceVeryLow, Matches: map[Type]int{}}
	}

	counts := c.countMatches(query)
	det := resolve(counts)

	logger.InfoContext(ctx, "intent detected",
		"intent", det.Intent,
		"confidence", det.Confidence,
		"law", counts[Law],
		"form", counts[Form],
		"term", counts[Term],
		"procedure", counts[Procedure],
		"template", counts[Template],
		"ambiguous", counts[Ambiguous],
		"general", counts[General],
	)
	return det
}

// resolve applies the classification policy in priority order; the first
// matching rule wins.
func resolve(counts map[Type]int) Detection {
	law, form, term := counts[Law], counts[Form], counts[Term]

	switch {
	case counts[Template] >= 1:
		return Detection{Intent: Template, Confidence: confidenceByCount(counts[Template]), Matches: counts}

	case law > 0 && form == 0 && term == 0:
		return Detection{Intent: Law, Confidence: confidenceByCount(law), Matches: counts}
	case form > 0 && law == 0 && term == 0:
		return Detection{Intent: Form, Confidence: confidenceByCount(form), Matches: counts}
	case term > 0 && law == 0 && form == 0:
		return Detection{Intent: Term, Confidence: confidenceByCount(term), Matches: counts}

	case law > 0 && form > 0 && term == 0:
		if law > form {
			return Detection{Intent: Law, Confidence: ConfidenceMedium, Matches: counts}
		}
		if form > law {
			return Detection{Intent: Form, Confidence: ConfidenceMedium, Matches: counts}
		}
		return Detection{Intent: Ambiguous, Confidence: ConfidenceLow, Matches: counts}

	case counts[Procedure] > 0:
		return Detection{Intent: Procedure, Confidence: confidenceByCount(counts[Procedure]), Matches: counts}

	case counts[Ambiguous] > 0:
		return Detection{Intent: Ambiguous, Confidence: ConfidenceLow, Matches: counts}

	case counts[General] > 0:
		return Detection{Intent: General, Confidence: ConfidenceMedium, Matches: counts}

	default:
		return Detection{Intent: Unknown, Confidence: ConfidenceVeryLow, Matches: counts}
	}
}

func confidenceByCount(n int) Confidence {
	if n >= 2 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// DetectAll produces the full ranked intent distribution used by the retrieval
// stage. Weights are the category's share of all pattern hits across the five
// content categories; ties break on a fixed category order so the output is
// deterministic. A query with no hits yields a single Unknown entry with
// weight 0.
func (c *Classifier) DetectAll(ctx context.Context, query string) []Scored {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return []Scored{{Intent: Unknown, Weight: 0}}
	}

	counts := c.countMatches(query)
	ordered := []Type{Law, Form, Term, Procedure, Template}

	total := 0
	for _, t := range ordered {
		total += counts[t]
	}
	if total == 0 {
		primary := resolve(counts)
		// No content-category hits: either the generic domain bank fired
		// (ambiguous) or nothing did (unknown). Either way the router fans
		// out to every collection.
		return []Scored{{Intent: primary.Intent, Weight: 0}}
	}

	dist := make([]Scored, 0, len(ordered))
	for _, t := range ordered {
		if counts[t] == 0 {
			continue
		}
		dist = append(dist, Scored{Intent: t, Weight: float64(counts[t]) / float64(total)})
	}
	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].Weight > dist[j].Weight
	})

	logger.DebugContext(ctx, "intent distribution", "intents", len(dist), "total_hits", total)
	return dist
}
