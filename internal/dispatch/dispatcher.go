// Package dispatch drives a batch of URLs through a processor while keeping
// each domain under its rate limit. Throttled URLs are deferred and replayed
// so one slow domain never blocks the others.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// RateLimiter is the admission control used by the Dispatcher.
type RateLimiter interface {
	IsAllowed(rawURL string) bool
	RecordAccess(rawURL string)
	Defer(rawURL string)
	GetReadyDeferred() []string
	HasDeferred() bool
	PopDeferredWithWait(ctx context.Context) (string, bool, error)
}

// Clock supplies the time used for wait and processing metrics. Pass the
// limiter's clock so waits are measured on the same timeline.
type Clock interface {
	Now() time.Time
}

// Dispatcher runs URLs through a Processor one at a time.
type Dispatcher struct {
	processor Processor
	limiter   RateLimiter
	log       logger.Logger
	metrics   *Metrics
	now       func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLimiter enables rate limiting. Without a limiter every URL is allowed
// and nothing is deferred.
func WithLimiter(l RateLimiter) Option {
	return func(d *Dispatcher) {
		d.limiter = l
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithMetrics records dispatch metrics.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithClock measures durations with c instead of the wall clock.
func WithClock(c Clock) Option {
	return func(d *Dispatcher) {
		d.now = c.Now
	}
}

// New creates a Dispatcher.
func New(processor Processor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		processor: processor,
		log:       logger.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes urls until every URL has been attempted once or the run is
// aborted. Deferred URLs that have become ready are placed ahead of fresh
// ones. The only blocking wait happens when nothing else can make progress:
// the head of the deferred queue is then awaited and processed directly.
//
// A processor error wrapping ErrFatal, or a done ctx, ends the run; the
// returned Summary covers the URLs handled so far.
func (d *Dispatcher) Run(ctx context.Context, urls []string) (Summary, error) {
	summary := Summary{Total: len(urls)}
	pending := append([]string(nil), urls...)

	for len(pending) > 0 || d.hasDeferred() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if d.limiter != nil {
			if ready := d.limiter.GetReadyDeferred(); len(ready) > 0 {
				pending = append(ready, pending...)
			}
		}

		if len(pending) == 0 {
			next, waitErr := d.waitForDeferred(ctx)
			if waitErr != nil {
				return summary, waitErr
			}
			if next == "" {
				continue
			}
			if err := d.dispatch(ctx, next, &summary); err != nil {
				return summary, err
			}
			continue
		}

		batch := pending
		pending = nil

		for _, rawURL := range batch {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			if d.limiter != nil && !d.limiter.IsAllowed(rawURL) {
				d.limiter.Defer(rawURL)
				summary.Deferrals++
				d.metrics.observeDeferral()
				d.log.Debug("Deferred rate limited URL", logger.String("url", rawURL))
				continue
			}

			if err := d.dispatch(ctx, rawURL, &summary); err != nil {
				return summary, err
			}
		}
	}

	d.log.Info("Dispatch complete",
		logger.Int("total", summary.Total),
		logger.Int("processed", summary.Processed),
		logger.Int("skipped", summary.Skipped),
		logger.Int("failed", summary.Failed),
		logger.Int("deferrals", summary.Deferrals),
	)

	return summary, nil
}

func (d *Dispatcher) hasDeferred() bool {
	return d.limiter != nil && d.limiter.HasDeferred()
}

// waitForDeferred pops the head of the deferred queue once its cool-down has
// elapsed.
func (d *Dispatcher) waitForDeferred(ctx context.Context) (string, error) {
	start := d.now()
	head, ok, err := d.limiter.PopDeferredWithWait(ctx)
	waited := d.now().Sub(start)
	d.metrics.observeWait(waited.Seconds())
	if err != nil {
		return "", fmt.Errorf("wait for deferred url: %w", err)
	}
	if !ok {
		return "", nil
	}
	d.log.Debug("Waited for domain cool-down",
		logger.String("url", head),
		logger.Duration("waited", waited),
	)
	return head, nil
}

// dispatch invokes the processor for one allowed URL. The domain access is
// recorded whatever the outcome.
func (d *Dispatcher) dispatch(ctx context.Context, rawURL string, summary *Summary) error {
	start := d.now()
	outcome, processErr := d.processor.Process(ctx, rawURL)
	elapsed := d.now().Sub(start)

	// Always record the access after any attempt, successful or not.
	if d.limiter != nil {
		d.limiter.RecordAccess(rawURL)
	}

	if processErr != nil && errors.Is(processErr, ErrFatal) {
		d.log.Error("Aborting run on fatal error",
			logger.String("url", rawURL),
			logger.Error(processErr),
		)
		return fmt.Errorf("process %s: %w", rawURL, processErr)
	}

	result := Result{URL: rawURL, Status: StatusSuccess}
	switch {
	case processErr != nil:
		result.Status = StatusFailed
		result.Err = processErr
		d.log.Warn("Processing failed",
			logger.String("url", rawURL),
			logger.Error(processErr),
		)
	case outcome == OutcomeSkip:
		result.Status = StatusSkipped
		d.log.Info("Skipped", logger.String("url", rawURL))
	default:
		d.log.Debug("Processed",
			logger.String("url", rawURL),
			logger.Duration("elapsed", elapsed),
		)
	}

	summary.record(result)
	d.metrics.observeResult(result.Status, elapsed.Seconds())

	return nil
}
