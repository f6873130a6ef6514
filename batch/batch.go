// Package batch validates many values against one schema concurrently.
//
// Built schemas are immutable, so a single schema is shared by every worker.
// Results keep the input order regardless of completion order.
package batch

import (
	"context"
	"runtime"

	okskema "github.com/reoring/okskema"
	"golang.org/x/sync/errgroup"
)

// Option configures a batch run.
type Option func(*config)

type config struct {
	concurrency int
	onResult    func(Result)
}

// WithConcurrency caps the number of concurrent validations. Values below 1
// select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithProgress registers a callback invoked once per finished value. It is
// called from worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(Result)) Option {
	return func(c *config) { c.onResult = fn }
}

// Result is the outcome of one input value.
type Result struct {
	Index    int
	Valid    bool
	Failures okskema.Failures
}

// Report aggregates a batch run.
type Report[T any] struct {
	Outcomes []okskema.Outcome[T]
	Valid    int
	Invalid  int
}

// Failed returns the indexes of invalid values in input order.
func (r Report[T]) Failed() []int {
	var out []int
	for i, o := range r.Outcomes {
		if !o.IsValid() {
			out = append(out, i)
		}
	}
	return out
}

// Validate validates every value with s. It returns early with ctx.Err() when
// the context is cancelled; invalid values are not errors.
func Validate[T any](ctx context.Context, s okskema.Schema[T], values []any, opts ...Option) (Report[T], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]okskema.Outcome[T], len(values))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.concurrency)
	for i, v := range values {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := s.Validate(v)
			outcomes[i] = o
			if cfg.onResult != nil {
				cfg.onResult(Result{Index: i, Valid: o.IsValid(), Failures: o.Failures()})
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Report[T]{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report[T]{}, err
	}

	rep := Report[T]{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.IsValid() {
			rep.Valid++
		} else {
			rep.Invalid++
		}
	}
	return rep, nil
}
