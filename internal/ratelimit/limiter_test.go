package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAcquire_WithinBurst(t *testing.T) {
	l := New(60, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := l.Acquire(ctx, ClassLLM); err != nil {
		t.Fatalf("first acquire should not block: %v", err)
	}
}

func TestAcquire_BlocksUntilSlotFrees(t *testing.T) {
	// 600 RPM = 10 per second, so the second call after the burst
	// should be delayed by roughly 100ms, not refused.
	l := New(600, 1)

	ctx := context.Background()

	if err := l.Acquire(ctx, ClassLLM); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()

	if err := l.Acquire(ctx, ClassLLM); err != nil {
		t.Fatalf("blocked acquire should eventually succeed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second acquire returned too fast: %v", elapsed)
	}
}

func TestAcquire_ContextCancellation(t *testing.T) {
	// 1 RPM: after the burst the next slot is a minute away, so a
	// short deadline must surface the context error instead of hanging.
	l := New(1, 1)

	ctx := context.Background()
	if err := l.Acquire(ctx, ClassLLM); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := l.Acquire(shortCtx, ClassLLM); err == nil {
		t.Fatal("expected context error when the window cannot reset in time")
	}
}

func TestAcquire_ClassesAreIndependent(t *testing.T) {
	l := New(1, 5)

	ctx := context.Background()

	if err := l.Acquire(ctx, ClassLLM); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exhausting the LLM class must not affect the search class.
	done := make(chan struct{})

	go func() {
		defer close(done)

		_ = l.Acquire(ctx, ClassSearch)
		_ = l.Acquire(ctx, ClassSearch)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("search class blocked by llm class exhaustion")
	}
}

func TestAcquire_UnknownClassIsNoop(t *testing.T) {
	l := New(1, 1)

	if err := l.Acquire(context.Background(), Class("unknown")); err != nil {
		t.Fatalf("unknown class should be a no-op: %v", err)
	}
}
