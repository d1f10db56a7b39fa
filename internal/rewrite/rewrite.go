// Package rewrite turns short, context-dependent follow-up questions
// into standalone ones using the conversation history.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/llm"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chatter.go -package=mocks cutru-ai/internal/rewrite Chatter

// Chatter is the LLM surface the rewriter needs.
type Chatter interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message) (string, error)
}

const rewritePrompt = `Hãy dựa vào toàn bộ lịch sử hội thoại và câu hỏi mới của người dùng. Nếu câu hỏi mới không đủ rõ, quá ngắn hoặc đứt ý, hãy diễn giải lại thành một câu hỏi hoàn chỉnh, đầy đủ thông tin từ lịch sử. Nếu đã rõ ràng thì giữ nguyên.

Lưu ý:
- Nếu câu hỏi ngắn, thiếu ngữ cảnh, hãy bổ sung thông tin từ lịch sử
- Nếu câu hỏi dùng từ "cái nào", "nữa", "còn", "thì sao", hãy diễn giải rõ ràng
- Chỉ trả lời bằng câu hỏi đã viết lại, không thêm giải thích`

// Rewriter rewrites a question against prior conversation turns. Any
// LLM failure falls back to the original question: rewriting is an
// enhancement, never a gate.
type Rewriter struct {
	chatter Chatter
}

// NewRewriter creates a Rewriter backed by chatter.
func NewRewriter(chatter Chatter) *Rewriter {
	return &Rewriter{chatter: chatter}
}

// Rewrite returns a standalone version of question. With no history
// the question is returned as-is.
func (r *Rewriter) Rewrite(ctx context.Context, question string, history []llm.Message) string {
	if len(history) == 0 || strings.TrimSpace(question) == "" {
		return question
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: rewritePrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("Câu hỏi mới: %s", question)})

	response, err := r.chatter.ChatWithMessages(ctx, messages)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "query rewrite failed, using original question", "error", err)
		return question
	}

	rewritten := cleanResponse(response)
	if rewritten == "" {
		return question
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "rewrote question", "original", question, "rewritten", rewritten)
	return rewritten
}

var unwantedPrefixes = []string{
	"Câu hỏi đã được viết lại:",
	"Câu hỏi mới:",
	"Câu hỏi:",
	"Rewrite:",
}

// cleanResponse strips quoting and boilerplate lead-ins the model
// tends to add despite the prompt.
func cleanResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, `"`) && strings.HasSuffix(response, `"`) && len(response) >= 2 {
		response = response[1 : len(response)-1]
	}
	for _, prefix := range unwantedPrefixes {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
			break
		}
	}
	return strings.TrimSpace(response)
}
