package backoff

import (
	"context"
	"math/rand"
	"time"
)

// Generator produces a bounded sequence of increasing, jittered wait
// intervals. One Generator serves one logical retry loop; it is not safe
// for concurrent use.
type Generator struct {
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
	attempt     int
}

// Option is a functional option for Generator configuration.
type Option func(*Generator)

// New creates a Generator with the default policy: 5 attempts, 200ms base
// delay, 30s cap.
func New(opts ...Option) *Generator {
	g := &Generator{
		baseDelay:   200 * time.Millisecond,
		maxDelay:    30 * time.Second,
		maxAttempts: 5,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithBaseDelay sets the delay used for the first wait.
func WithBaseDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.baseDelay = d
	}
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.maxDelay = d
	}
}

// WithMaxAttempts sets the attempt budget.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		g.maxAttempts = n
	}
}

// ShouldContinue reports whether the attempt budget permits another try.
func (g *Generator) ShouldContinue() bool {
	return g.attempt < g.maxAttempts
}

// Attempt returns the number of waits taken so far.
func (g *Generator) Attempt() int {
	return g.attempt
}

// MaxAttempts returns the configured attempt budget.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Backoff waits for the next interval and consumes one attempt. The
// interval doubles per attempt up to the cap, with the upper half
// randomized so concurrent callers do not retry in lockstep. Returns the
// context error if the context is cancelled during the wait.
func (g *Generator) Backoff(ctx context.Context) error {
	d := g.baseDelay << uint(g.attempt)
	if d > g.maxDelay || d <= 0 {
		d = g.maxDelay
	}
	// Half fixed, half jitter: the wait still grows monotonically with
	// the attempt count but spreads callers out.
	d = d/2 + time.Duration(rand.Int63n(int64(d/2)+1))

	g.attempt++

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
