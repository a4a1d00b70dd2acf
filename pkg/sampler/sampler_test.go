package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSamplerCoalescesToLatest(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var flushed []int

	s := New(zap.NewNop(), func(_ context.Context, v int) {
		mu.Lock()
		flushed = append(flushed, v)
		mu.Unlock()
	}, 10*time.Millisecond, 100)

	s.Start(context.Background())
	for i := 1; i <= 50; i++ {
		s.Offer(i)
	}
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(flushed) == 0 {
		t.Fatal("expected at least one flush")
	}
	if len(flushed) >= 50 {
		t.Fatalf("expected coalescing, got %d flushes", len(flushed))
	}
	if last := flushed[len(flushed)-1]; last != 50 {
		t.Fatalf("last flushed value = %d, want 50", last)
	}
}

func TestSamplerStopFlushesPending(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []string

	s := New(zap.NewNop(), func(_ context.Context, v string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	}, time.Hour, 100) // interval never fires; only Stop flushes

	s.Start(context.Background())
	s.Offer("pending")
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "pending" {
		t.Fatalf("flushed = %v, want [pending]", got)
	}
}

func TestSamplerNoFlushWithoutOffer(t *testing.T) {
	t.Parallel()

	var count int32
	s := New(zap.NewNop(), func(context.Context, int) {
		count++
	}, 5*time.Millisecond, 100)

	s.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	s.Stop()

	if count != 0 {
		t.Fatalf("expected no flushes without offers, got %d", count)
	}
}
