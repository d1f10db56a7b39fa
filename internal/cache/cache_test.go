package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

type fakeRedis struct {
	data    map[string]string
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestCacheRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	c := New(fake, time.Hour)
	ctx := context.Background()

	question := "thủ tục đăng ký thường trú?"
	if _, ok := c.Get(ctx, question); ok {
		t.Fatal("expected initial miss")
	}

	c.Set(ctx, question, Entry{Answer: "Theo Điều 21...", Intent: "procedure", Confidence: "high"})
	entry, ok := c.Get(ctx, question)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if entry.Answer != "Theo Điều 21..." || entry.Intent != "procedure" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if fake.lastTTL != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", fake.lastTTL)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	if Key("Thủ tục   ĐĂNG KÝ thường trú") != Key("thủ tục đăng ký thường trú") {
		t.Fatal("case and spacing must not change the key")
	}
	if Key("tách hộ") == Key("nhập hộ") {
		t.Fatal("distinct questions must not collide")
	}
}

func TestCacheErrorsAreMisses(t *testing.T) {
	fake := newFakeRedis()
	fake.getErr = errors.New("connection reset")
	c := New(fake, time.Minute)

	if _, ok := c.Get(context.Background(), "câu hỏi"); ok {
		t.Fatal("redis error must read as miss")
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	fake := newFakeRedis()
	c := New(fake, time.Minute)
	fake.data[Key("câu hỏi")] = "{not json"

	if _, ok := c.Get(context.Background(), "câu hỏi"); ok {
		t.Fatal("corrupt entry must read as miss")
	}
}

func TestCacheSetFailureIsSilent(t *testing.T) {
	fake := newFakeRedis()
	fake.setErr = errors.New("readonly replica")
	c := New(fake, time.Minute)

	// Must not panic or error out.
	c.Set(context.Background(), "câu hỏi", Entry{Answer: "trả lời"})
}
