package rag

import (
	"fmt"
	"strings"

	"cutru-ai/internal/legal"
	"cutru-ai/internal/llm"
)

const systemPrompt = `Bạn là trợ lý pháp lý chuyên về pháp luật hành chính và cư trú tại Việt Nam.

VAI TRÒ VÀ TRÁCH NHIỆM:
- Phân tích câu hỏi và trả lời toàn diện dựa trên thông tin được cung cấp
- Kết hợp thông tin từ các nguồn khác nhau một cách logic
- Đưa ra hướng dẫn thực tế và khả thi
- Trích dẫn nguồn thông tin (điều, khoản, điểm) khi cần thiết
- Nếu thông tin tham khảo không đủ để trả lời, hãy nói rõ thay vì suy đoán`

// BuildContext renders the retrieved documents into the reference
// block of the prompt. Each document is numbered and prefixed with its
// legal reference when available.
func BuildContext(docs []legal.Document) string {
	if len(docs) == 0 {
		return "Không tìm thấy thông tin tham khảo."
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d]", i+1)
		if ref, ok := doc.Metadata["law_ref"].(string); ok && ref != "" {
			b.WriteString(" " + ref)
		}
		b.WriteString("\n")
		b.WriteString(doc.PageContent)
	}
	return b.String()
}

// Sources lists the distinct legal references backing the documents,
// in document order.
func Sources(docs []legal.Document) []string {
	seen := make(map[string]struct{}, len(docs))
	var refs []string
	for _, doc := range docs {
		ref, ok := doc.Metadata["law_ref"].(string)
		if !ok || ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// BuildPrompt assembles the chat messages for answer generation:
// system prompt, prior turns, then the question with its reference
// block.
func BuildPrompt(question string, docs []legal.Document, history []llm.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)

	user := fmt.Sprintf("CÂU HỎI: %s\n\nTHÔNG TIN THAM KHẢO:\n%s", question, BuildContext(docs))
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: user})
	return messages
}
