package worker

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestForEachRunsAll(t *testing.T) {
	var n int64
	p := NewPool(4)
	err := p.ForEach(context.Background(), 100, func(_ context.Context, _ int) {
		atomic.AddInt64(&n, 1)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 100 {
		t.Fatalf("ran %d units, want 100", n)
	}
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var n int64
	p := NewPool(2)
	err := p.ForEach(ctx, 50, func(_ context.Context, _ int) {
		atomic.AddInt64(&n, 1)
	})
	if err == nil {
		t.Fatalf("expected ctx error")
	}
	if n >= 50 {
		t.Fatalf("cancelled run must not schedule every unit")
	}
}

func TestForEachEmpty(t *testing.T) {
	p := NewPool(3)
	if err := p.ForEach(context.Background(), 0, func(_ context.Context, _ int) {
		t.Fatalf("must not run")
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
