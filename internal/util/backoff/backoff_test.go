package backoff

import (
	"context"
	"testing"
	"time"
)

func TestShouldContinue_ExhaustsBudget(t *testing.T) {
	t.Parallel()
	g := New(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))

	ctx := context.Background()
	waits := 0
	for g.ShouldContinue() {
		if err := g.Backoff(ctx); err != nil {
			t.Fatalf("Backoff returned error: %v", err)
		}
		waits++
	}

	if waits != 3 {
		t.Errorf("Expected 3 waits before exhaustion, got %d", waits)
	}
	if g.Attempt() != 3 {
		t.Errorf("Expected attempt counter 3, got %d", g.Attempt())
	}
	if g.ShouldContinue() {
		t.Error("Expected ShouldContinue to be false after exhaustion")
	}
}

func TestBackoff_DelayIsCapped(t *testing.T) {
	t.Parallel()
	g := New(
		WithMaxAttempts(10),
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond),
	)

	ctx := context.Background()
	start := time.Now()
	for g.ShouldContinue() {
		if err := g.Backoff(ctx); err != nil {
			t.Fatalf("Backoff returned error: %v", err)
		}
	}

	// 10 waits of at most 5ms each; leave generous headroom for slow CI.
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Capped backoff took too long: %v", elapsed)
	}
}

func TestBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()
	g := New(WithMaxAttempts(1), WithBaseDelay(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Backoff(ctx); err == nil {
		t.Error("Expected context error from cancelled Backoff, got nil")
	}
	// The attempt is still consumed even when the wait is interrupted.
	if g.Attempt() != 1 {
		t.Errorf("Expected attempt counter 1, got %d", g.Attempt())
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	g := New()

	if g.MaxAttempts() != 5 {
		t.Errorf("Expected default budget of 5 attempts, got %d", g.MaxAttempts())
	}
	if !g.ShouldContinue() {
		t.Error("Expected a fresh generator to permit attempts")
	}
}
