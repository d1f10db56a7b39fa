// Package workflow runs a question through the full assistant
// pipeline: guardrails, answer cache, query rewriting, retrieval,
// generation, output validation and tracking.
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cutru-ai/internal/cache"
	"cutru-ai/internal/contextutil"
	"cutru-ai/internal/guardrails"
	"cutru-ai/internal/intent"
	"cutru-ai/internal/llm"
	"cutru-ai/internal/rag"
	"cutru-ai/internal/storage"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks cutru-ai/internal/workflow AnswerCache,Rewriter,Retriever,Generator

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question is empty")

// apologyMessage is the degraded answer when retrieval or generation
// fails outright.
const apologyMessage = "Xin lỗi, hiện tại tôi chưa thể trả lời câu hỏi này. Vui lòng thử lại sau."

// greetingMessage answers small talk without touching retrieval.
const greetingMessage = "Xin chào! Tôi là trợ lý pháp luật về cư trú. Bạn có thể hỏi tôi về thủ tục hành chính, quy định pháp luật hoặc biểu mẫu liên quan đến cư trú."

// AnswerCache memoizes final answers.
type AnswerCache interface {
	Get(ctx context.Context, question string) (cache.Entry, bool)
	Set(ctx context.Context, question string, entry cache.Entry)
}

// Rewriter turns follow-ups into standalone questions.
type Rewriter interface {
	Rewrite(ctx context.Context, question string, history []llm.Message) string
}

// Retriever produces the context documents for a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) (*rag.Result, error)
}

// Generator produces the final answer text.
type Generator interface {
	ChatWithMessages(ctx context.Context, messages []llm.Message) (string, error)
	StreamChat(ctx context.Context, messages []llm.Message, callback func(chunk string) error) error
}

// Request is one user turn.
type Request struct {
	SessionID string
	Question  string
	History   []llm.Message
}

// Response is the pipeline outcome for one turn.
type Response struct {
	Answer      string
	Intent      string
	Confidence  string
	Collections []string
	Sources     []string
	SafetyLevel string
	DocCount    int
	Cached      bool
	DurationMS  int64
}

// Workflow wires the pipeline stages. Guardrails are mandatory; cache,
// rewriter, reranking and tracking degrade gracefully when absent or
// failing.
type Workflow struct {
	filter    *guardrails.Filter
	cache     AnswerCache
	rewriter  Rewriter
	retriever Retriever
	generator Generator
	tracker   storage.QueryStore
}

// New creates a Workflow. cache, rewriter and tracker may be nil.
func New(filter *guardrails.Filter, answerCache AnswerCache, rewriter Rewriter, retriever Retriever, generator Generator, tracker storage.QueryStore) *Workflow {
	return &Workflow{
		filter:    filter,
		cache:     answerCache,
		rewriter:  rewriter,
		retriever: retriever,
		generator: generator,
		tracker:   tracker,
	}
}

// Answer runs the full pipeline and returns the final answer.
func (w *Workflow) Answer(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	prep, resp, err := w.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		w.finish(ctx, req, "", resp, started)
		return resp, nil
	}

	answer, err := w.generator.ChatWithMessages(ctx, prep.messages)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "generation failed", "error", err)
		answer = apologyMessage
	}
	resp = w.validate(ctx, prep, answer)
	w.finish(ctx, req, prep.question, resp, started)
	return resp, nil
}

// AnswerStream runs the pipeline but streams the generated answer
// through onChunk. Cached, blocked and small-talk answers arrive as a
// single chunk. The full answer is returned for caching and display.
func (w *Workflow) AnswerStream(ctx context.Context, req Request, onChunk func(chunk string) error) (*Response, error) {
	started := time.Now()
	prep, resp, err := w.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		if err := onChunk(resp.Answer); err != nil {
			return nil, err
		}
		w.finish(ctx, req, "", resp, started)
		return resp, nil
	}

	var full strings.Builder
	streamErr := w.generator.StreamChat(ctx, prep.messages, func(chunk string) error {
		full.WriteString(chunk)
		return onChunk(chunk)
	})
	answer := full.String()
	if streamErr != nil && answer == "" {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "streaming generation failed", "error", streamErr)
		answer = apologyMessage
		if err := onChunk(answer); err != nil {
			return nil, err
		}
	}

	resp = w.validate(ctx, prep, answer)
	w.finish(ctx, req, prep.question, resp, started)
	return resp, nil
}

// prepared carries the intermediate state between prepare and the
// generation step.
type prepared struct {
	question  string
	result    *rag.Result
	messages  []llm.Message
	safety    guardrails.Level
}

// prepare runs every stage before generation. A non-nil Response means
// the pipeline short-circuited (blocked input, cache hit, small talk)
// and generation is skipped.
func (w *Workflow) prepare(ctx context.Context, req Request) (*prepared, *Response, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, nil, ErrEmptyQuestion
	}

	check := w.filter.CheckInput(ctx, question)
	if check.Blocked() {
		return nil, &Response{
			Answer:      guardrails.FallbackMessage,
			Intent:      string(intent.Unknown),
			Confidence:  string(intent.ConfidenceVeryLow),
			SafetyLevel: string(check.Level),
		}, nil
	}

	if w.cache != nil {
		if entry, ok := w.cache.Get(ctx, question); ok {
			return nil, &Response{
				Answer:      entry.Answer,
				Intent:      entry.Intent,
				Confidence:  entry.Confidence,
				SafetyLevel: string(check.Level),
				Cached:      true,
			}, nil
		}
	}

	if w.rewriter != nil {
		question = w.rewriter.Rewrite(ctx, question, req.History)
	}

	result, err := w.retriever.Retrieve(ctx, question)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "retrieval failed", "error", err)
		return nil, &Response{
			Answer:      apologyMessage,
			Intent:      string(intent.Unknown),
			Confidence:  string(intent.ConfidenceVeryLow),
			SafetyLevel: string(check.Level),
		}, nil
	}

	if result.Detection.Intent == intent.General && len(result.Documents) == 0 {
		return nil, &Response{
			Answer:      greetingMessage,
			Intent:      string(result.Detection.Intent),
			Confidence:  string(result.Detection.Confidence),
			Collections: result.Collections,
			SafetyLevel: string(check.Level),
		}, nil
	}

	return &prepared{
		question: question,
		result:   result,
		messages: rag.BuildPrompt(question, result.Documents, req.History),
		safety:   check.Level,
	}, nil, nil
}

// validate screens the generated answer and builds the response.
func (w *Workflow) validate(ctx context.Context, prep *prepared, answer string) *Response {
	resp := &Response{
		Answer:      answer,
		Intent:      string(prep.result.Detection.Intent),
		Confidence:  string(prep.result.Detection.Confidence),
		Collections: prep.result.Collections,
		Sources:     rag.Sources(prep.result.Documents),
		SafetyLevel: string(prep.safety),
		DocCount:    len(prep.result.Documents),
	}

	out := w.filter.CheckOutput(ctx, answer)
	if out.Blocked() {
		resp.Answer = guardrails.FallbackMessage
		resp.SafetyLevel = string(out.Level)
		return resp
	}

	if w.cache != nil && answer != apologyMessage {
		w.cache.Set(ctx, prep.question, cache.Entry{
			Answer:     resp.Answer,
			Intent:     resp.Intent,
			Confidence: resp.Confidence,
		})
	}
	return resp
}

// finish records duration and tracks the query. rewritten is empty
// when the pipeline short-circuited before rewriting.
func (w *Workflow) finish(ctx context.Context, req Request, rewritten string, resp *Response, started time.Time) {
	resp.DurationMS = time.Since(started).Milliseconds()
	if w.tracker == nil {
		return
	}
	if rewritten == strings.TrimSpace(req.Question) {
		rewritten = ""
	}
	answered := resp.Answer != "" && resp.Answer != apologyMessage && resp.Answer != guardrails.FallbackMessage
	record := &storage.QueryRecord{
		ID:                uuid.NewString(),
		SessionID:         req.SessionID,
		Question:          req.Question,
		RewrittenQuestion: rewritten,
		Intent:            resp.Intent,
		Confidence:        resp.Confidence,
		Collections:       resp.Collections,
		SafetyLevel:       resp.SafetyLevel,
		DocCount:          resp.DocCount,
		Answered:          answered,
		Cached:            resp.Cached,
		DurationMS:        resp.DurationMS,
	}
	if err := w.tracker.Insert(ctx, record); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to track query", "error", err)
	}
}
