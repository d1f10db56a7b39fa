// Package guardrails screens user questions and model answers with a
// fast rule-based filter: sensitive vocabulary, personal data patterns
// and spam heuristics.
package guardrails

import (
	"context"
	"regexp"
	"strings"

	"cutru-ai/internal/contextutil"
)

// Level is the safety verdict for a piece of text.
type Level string

const (
	LevelSafe    Level = "safe"
	LevelWarning Level = "warning"
	LevelBlocked Level = "blocked"
)

// Result reports a check outcome with the rules that fired.
type Result struct {
	Level             Level
	Violations        []string
	SensitiveKeywords []string
	PIIFound          []string
	SpamIndicators    []string
}

// Blocked reports whether the text must not be processed further.
func (r Result) Blocked() bool {
	return r.Level == LevelBlocked
}

// FallbackMessage is returned to the user in place of an answer when
// their question is blocked.
const FallbackMessage = "Xin lỗi, tôi không thể hỗ trợ câu hỏi này. Vui lòng hỏi về lĩnh vực pháp luật Việt Nam."

// Filter holds the rule banks. The zero value is unusable; construct
// with NewFilter.
type Filter struct {
	sensitiveKeywords []string
	piiPatterns       []*regexp.Regexp
	spamPatterns      []*regexp.Regexp
}

// NewFilter builds a Filter with the default Vietnamese rule banks.
func NewFilter() *Filter {
	return &Filter{
		sensitiveKeywords: []string{
			// Tục tĩu
			"fuck", "shit", "bitch",
			"lồn", "địt", "đụ", "đéo",
			"sex", "nude", "porn",

			// Bạo lực
			"kill", "murder", "suicide", "bomb",
			"giết", "tự tử", "bạo lực",

			// Chính trị nhạy cảm
			"phản động", "chống phá", "lật đổ", "biểu tình",

			// Ma túy, tội phạm
			"ma túy", "heroin", "cocaine",

			// Lừa đảo
			"hack", "malware", "phishing",
			"lừa đảo", "rửa tiền", "tham nhũng", "hối lộ",
		},
		piiPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\b\d{9,12}\b`),                            // CMND/CCCD
			regexp.MustCompile(`\b[A-Z]{2}\d{7}\b`),                       // hộ chiếu
			regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`), // thẻ tín dụng
			regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
		},
		spamPatterns: []*regexp.Regexp{
			regexp.MustCompile(`!{3,}`),
			regexp.MustCompile(`\?{3,}`),
			regexp.MustCompile(`[A-Z]{5,}`),
		},
	}
}

// CheckInput screens a user question before it enters the pipeline.
func (f *Filter) CheckInput(ctx context.Context, question string) Result {
	result := f.check(question)
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "input guardrail check",
		"level", result.Level, "violations", len(result.Violations))
	return result
}

// CheckOutput screens a generated answer before it is returned.
func (f *Filter) CheckOutput(ctx context.Context, answer string) Result {
	result := f.check(answer)
	if result.Level != LevelSafe {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "output guardrail check",
			"level", result.Level, "violations", result.Violations)
	}
	return result
}

func (f *Filter) check(text string) Result {
	var result Result
	lower := strings.ToLower(text)

	for _, keyword := range f.sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			result.SensitiveKeywords = append(result.SensitiveKeywords, keyword)
			result.Violations = append(result.Violations, "sensitive_keyword:"+keyword)
		}
	}
	for _, pattern := range f.piiPatterns {
		if matches := pattern.FindAllString(text, -1); len(matches) > 0 {
			result.PIIFound = append(result.PIIFound, matches...)
			result.Violations = append(result.Violations, "pii_pattern:"+pattern.String())
		}
	}
	for _, pattern := range f.spamPatterns {
		if pattern.MatchString(text) {
			result.SpamIndicators = append(result.SpamIndicators, pattern.String())
			result.Violations = append(result.Violations, "spam_pattern:"+pattern.String())
		}
	}

	switch {
	case len(result.SensitiveKeywords) >= 2 || len(result.PIIFound) >= 2:
		result.Level = LevelBlocked
	case len(result.Violations) >= 1:
		result.Level = LevelWarning
	default:
		result.Level = LevelSafe
	}
	return result
}
