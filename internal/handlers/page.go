package handlers

import (
	"html/template"
	"net/http"

	"cutru-ai/internal/contextutil"
)

// PageHandler serves the chat web page.
type PageHandler struct {
	template *template.Template
}

// NewPageHandler creates the handler for the chat page.
func NewPageHandler() *PageHandler {
	tmpl := template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="vi">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Trợ lý pháp luật cư trú</title>
  <style>
    :root {
      color-scheme: dark;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 800px;
      line-height: 1.7;
      background: #050b18;
      color: #e4ecff;
    }
    h1 {
      color: #fff;
      font-size: 1.6rem;
    }
    #log {
      background: rgba(12, 19, 35, 0.85);
      border: 1px solid rgba(99, 102, 241, 0.2);
      border-radius: 16px;
      padding: 1.5rem;
      min-height: 16rem;
      margin-bottom: 1rem;
    }
    .question {
      color: #93c5fd;
      margin-bottom: 0.5rem;
    }
    .answer {
      color: #cbd5f5;
      border-left: 4px solid rgba(96, 165, 250, 0.6);
      padding-left: 1rem;
      margin-bottom: 1.5rem;
    }
    form {
      display: flex;
      gap: 0.75rem;
    }
    input {
      flex: 1;
      padding: 0.75rem 1rem;
      border-radius: 10px;
      border: 1px solid rgba(99, 102, 241, 0.3);
      background: #0f172a;
      color: #e4ecff;
      font-size: 1rem;
    }
    button {
      padding: 0.75rem 1.5rem;
      border-radius: 10px;
      border: none;
      background: #4f46e5;
      color: #fff;
      font-size: 1rem;
      cursor: pointer;
    }
    button:disabled {
      opacity: 0.5;
    }
  </style>
</head>
<body>
  <h1>Trợ lý pháp luật về cư trú</h1>
  <div id="log"></div>
  <form id="chat">
    <input id="question" autocomplete="off" placeholder="Hỏi về thủ tục, quy định hoặc biểu mẫu cư trú..." required>
    <button type="submit">Gửi</button>
  </form>
  <script>
    const log = document.getElementById('log');
    const form = document.getElementById('chat');
    const input = document.getElementById('question');
    const button = form.querySelector('button');
    let sessionID = null;

    form.addEventListener('submit', async (e) => {
      e.preventDefault();
      const question = input.value.trim();
      if (!question) return;

      const q = document.createElement('div');
      q.className = 'question';
      q.textContent = question;
      log.appendChild(q);
      input.value = '';
      button.disabled = true;

      try {
        const res = await fetch('/api/chat?format=html', {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify({session_id: sessionID, question}),
        });
        const data = await res.json();
        sessionID = data.session_id || sessionID;

        const a = document.createElement('div');
        a.className = 'answer';
        if (data.answer_html) {
          a.innerHTML = data.answer_html;
        } else {
          a.textContent = data.answer || data.error || 'Không nhận được câu trả lời.';
        }
        log.appendChild(a);
      } catch (err) {
        const a = document.createElement('div');
        a.className = 'answer';
        a.textContent = 'Lỗi kết nối: ' + err;
        log.appendChild(a);
      } finally {
        button.disabled = false;
        window.scrollTo(0, document.body.scrollHeight);
      }
    });
  </script>
</body>
</html>`))
	return &PageHandler{template: tmpl}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, nil); err != nil {
		contextutil.LoggerFromContext(r.Context()).ErrorContext(r.Context(), "failed to render chat page", "error", err)
	}
}
