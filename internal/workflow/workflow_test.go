package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"cutru-ai/internal/cache"
	"cutru-ai/internal/guardrails"
	"cutru-ai/internal/intent"
	"cutru-ai/internal/legal"
	"cutru-ai/internal/llm"
	"cutru-ai/internal/rag"
	"cutru-ai/internal/storage"
	storagemocks "cutru-ai/internal/storage/mocks"
	"cutru-ai/internal/workflow/mocks"
)

type deps struct {
	cache     *mocks.MockAnswerCache
	rewriter  *mocks.MockRewriter
	retriever *mocks.MockRetriever
	generator *mocks.MockGenerator
	tracker   *storagemocks.MockQueryStore
}

func newWorkflow(t *testing.T) (*Workflow, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		cache:     mocks.NewMockAnswerCache(ctrl),
		rewriter:  mocks.NewMockRewriter(ctrl),
		retriever: mocks.NewMockRetriever(ctrl),
		generator: mocks.NewMockGenerator(ctrl),
		tracker:   storagemocks.NewMockQueryStore(ctrl),
	}
	w := New(guardrails.NewFilter(), d.cache, d.rewriter, d.retriever, d.generator, d.tracker)
	return w, d
}

func procedureResult() *rag.Result {
	return &rag.Result{
		Documents: []legal.Document{{PageContent: "Hồ sơ gồm tờ khai thay đổi thông tin cư trú."}},
		Detection: intent.Detection{
			Intent:     intent.Procedure,
			Confidence: intent.ConfidenceHigh,
		},
		Collections: []string{intent.CollectionProcedure},
	}
}

func TestAnswerHappyPath(t *testing.T) {
	w, d := newWorkflow(t)
	question := "thủ tục đăng ký thường trú?"

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, gomock.Any()).Return(question)
	d.retriever.EXPECT().Retrieve(gomock.Any(), question).Return(procedureResult(), nil)
	d.generator.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any()).
		Return("Bạn cần nộp tờ khai thay đổi thông tin cư trú.", nil)
	d.cache.EXPECT().Set(gomock.Any(), question, gomock.Any())
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *storage.QueryRecord) error {
			if rec.SessionID != "s1" || rec.Intent != "procedure" || rec.ID == "" {
				t.Errorf("unexpected tracking record: %+v", rec)
			}
			return nil
		})

	resp, err := w.Answer(context.Background(), Request{SessionID: "s1", Question: question})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Bạn cần nộp tờ khai thay đổi thông tin cư trú." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if resp.Intent != "procedure" || resp.Cached {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAnswerBlockedInput(t *testing.T) {
	w, d := newWorkflow(t)
	_ = d // no collaborator calls expected beyond tracking
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := w.Answer(context.Background(), Request{Question: "cách rửa tiền và hối lộ"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != guardrails.FallbackMessage {
		t.Errorf("expected fallback answer, got %q", resp.Answer)
	}
	if resp.SafetyLevel != string(guardrails.LevelBlocked) {
		t.Errorf("expected blocked level, got %s", resp.SafetyLevel)
	}
}

func TestAnswerCacheHit(t *testing.T) {
	w, d := newWorkflow(t)
	question := "thủ tục tách hộ?"

	d.cache.EXPECT().Get(gomock.Any(), question).
		Return(cache.Entry{Answer: "Đã trả lời trước đó.", Intent: "procedure", Confidence: "high"}, true)
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *storage.QueryRecord) error {
			if !rec.Cached {
				t.Error("cache hit must be tracked as cached")
			}
			return nil
		})

	resp, err := w.Answer(context.Background(), Request{Question: question})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Cached || resp.Answer != "Đã trả lời trước đó." {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAnswerEmptyQuestion(t *testing.T) {
	w, _ := newWorkflow(t)
	if _, err := w.Answer(context.Background(), Request{Question: "   "}); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestAnswerRetrievalFailureApologizes(t *testing.T) {
	w, d := newWorkflow(t)
	question := "điều 20 luật cư trú?"

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, gomock.Any()).Return(question)
	d.retriever.EXPECT().Retrieve(gomock.Any(), question).Return(nil, errors.New("embedder down"))
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := w.Answer(context.Background(), Request{Question: question})
	if err != nil {
		t.Fatalf("pipeline failures must degrade, not error: %v", err)
	}
	if resp.Answer != apologyMessage {
		t.Errorf("expected apology, got %q", resp.Answer)
	}
}

func TestAnswerGenerationFailureApologizes(t *testing.T) {
	w, d := newWorkflow(t)
	question := "thủ tục đăng ký tạm trú?"

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, gomock.Any()).Return(question)
	d.retriever.EXPECT().Retrieve(gomock.Any(), question).Return(procedureResult(), nil)
	d.generator.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any()).Return("", errors.New("model offline"))
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := w.Answer(context.Background(), Request{Question: question})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != apologyMessage {
		t.Errorf("expected apology, got %q", resp.Answer)
	}
}

func TestAnswerGeneralSmallTalk(t *testing.T) {
	w, d := newWorkflow(t)
	question := "xin chào"

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, gomock.Any()).Return(question)
	d.retriever.EXPECT().Retrieve(gomock.Any(), question).Return(&rag.Result{
		Detection:   intent.Detection{Intent: intent.General, Confidence: intent.ConfidenceHigh},
		Collections: []string{intent.CollectionGeneral},
	}, nil)
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := w.Answer(context.Background(), Request{Question: question})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != greetingMessage {
		t.Errorf("expected greeting, got %q", resp.Answer)
	}
}

func TestAnswerStream(t *testing.T) {
	w, d := newWorkflow(t)
	question := "thủ tục đăng ký thường trú?"

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, gomock.Any()).Return(question)
	d.retriever.EXPECT().Retrieve(gomock.Any(), question).Return(procedureResult(), nil)
	d.generator.EXPECT().StreamChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []llm.Message, callback func(string) error) error {
			for _, chunk := range []string{"Bạn cần ", "nộp tờ khai."} {
				if err := callback(chunk); err != nil {
					return err
				}
			}
			return nil
		})
	d.cache.EXPECT().Set(gomock.Any(), question, gomock.Any())
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	var streamed strings.Builder
	resp, err := w.AnswerStream(context.Background(), Request{Question: question}, func(chunk string) error {
		streamed.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if streamed.String() != "Bạn cần nộp tờ khai." {
		t.Errorf("unexpected streamed text: %q", streamed.String())
	}
	if resp.Answer != "Bạn cần nộp tờ khai." {
		t.Errorf("full answer mismatch: %q", resp.Answer)
	}
}

func TestAnswerTracksRewrittenQuestion(t *testing.T) {
	w, d := newWorkflow(t)
	question := "còn tạm trú thì sao?"
	rewritten := "thủ tục đăng ký tạm trú như thế nào?"
	history := []llm.Message{{Role: llm.RoleUser, Content: "thủ tục đăng ký thường trú?"}}

	d.cache.EXPECT().Get(gomock.Any(), question).Return(cache.Entry{}, false)
	d.rewriter.EXPECT().Rewrite(gomock.Any(), question, history).Return(rewritten)
	d.retriever.EXPECT().Retrieve(gomock.Any(), rewritten).Return(procedureResult(), nil)
	d.generator.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any()).Return("Bạn cần khai báo tạm trú.", nil)
	d.cache.EXPECT().Set(gomock.Any(), rewritten, gomock.Any())
	d.tracker.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *storage.QueryRecord) error {
			if rec.Question != question || rec.RewrittenQuestion != rewritten {
				t.Errorf("unexpected tracking record: %+v", rec)
			}
			return nil
		})

	resp, err := w.Answer(context.Background(), Request{Question: question, History: history})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "Bạn cần khai báo tạm trú." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
}
