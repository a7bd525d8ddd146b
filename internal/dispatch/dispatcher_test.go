package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/north-cloud/mdclip/internal/dispatch"
	"github.com/jonesrussell/north-cloud/mdclip/internal/ratelimit"
	"github.com/jonesrussell/north-cloud/mdclip/internal/testutils/fakeclock"
	dispatchMock "github.com/jonesrussell/north-cloud/mdclip/internal/testutils/mocks/dispatch"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newLimiter(delay time.Duration) (*ratelimit.Limiter, *fakeclock.Clock) {
	clock := fakeclock.New(epoch)
	return ratelimit.New(delay, ratelimit.WithClock(clock)), clock
}

// recorder is a processor that succeeds and remembers call order.
type recorder struct {
	calls []string
}

func (r *recorder) Process(_ context.Context, rawURL string) (dispatch.Outcome, error) {
	r.calls = append(r.calls, rawURL)
	return dispatch.OutcomeSuccess, nil
}

func TestDispatcher_NoLimiterProcessesEverythingInOrder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	urls := []string{"https://a.com/1", "https://b.com/1", "https://a.com/2", "https://b.com/2"}

	processor := dispatchMock.NewMockProcessor(ctrl)
	calls := make([]any, 0, len(urls))
	for _, u := range urls {
		calls = append(calls, processor.EXPECT().Process(gomock.Any(), u).Return(dispatch.OutcomeSuccess, nil))
	}
	gomock.InOrder(calls...)

	summary, err := dispatch.New(processor).Run(context.Background(), urls)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 4, summary.Processed)
	assert.Zero(t, summary.Deferrals)
	assert.Equal(t, urls, summary.Order())
}

func TestDispatcher_ZeroDelayLimiterNeverDefers(t *testing.T) {
	t.Parallel()

	limiter, clock := newLimiter(0)
	proc := &recorder{}
	urls := []string{"https://a.com/1", "https://a.com/2", "https://b.com/1", "https://b.com/2", "https://a.com/3"}

	summary, err := dispatch.New(proc, dispatch.WithLimiter(limiter)).Run(context.Background(), urls)

	require.NoError(t, err)
	assert.Equal(t, urls, proc.calls)
	assert.Equal(t, len(urls), summary.Processed)
	assert.Zero(t, summary.Deferrals)
	assert.Empty(t, clock.Slept())
}

func TestDispatcher_SameDomainWaitsForDelay(t *testing.T) {
	t.Parallel()

	limiter, clock := newLimiter(3 * time.Second)
	proc := &recorder{}

	summary, err := dispatch.New(proc, dispatch.WithLimiter(limiter)).
		Run(context.Background(), []string{"https://a.com/1", "https://a.com/2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1", "https://a.com/2"}, proc.calls)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Deferrals, "second URL is deferred on the first pass")
	assert.GreaterOrEqual(t, clock.TotalSlept(), 3*time.Second)
	assert.False(t, limiter.HasDeferred())
}

func TestDispatcher_NoHeadOfLineBlocking(t *testing.T) {
	t.Parallel()

	limiter, clock := newLimiter(3 * time.Second)
	proc := &recorder{}

	summary, err := dispatch.New(proc, dispatch.WithLimiter(limiter)).Run(context.Background(), []string{
		"https://a.com/1", "https://a.com/2", "https://b.com/1", "https://a.com/3", "https://c.com/1", "https://b.com/2",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://a.com/1", "https://b.com/1", "https://c.com/1",
		"https://a.com/2", "https://b.com/2", "https://a.com/3",
	}, proc.calls)
	assert.Equal(t, 6, summary.Processed)
	assert.Equal(t, 6*time.Second, clock.TotalSlept(), "a.com/3 needs a second cool-down")
}

func TestDispatcher_ThrottledDomainDoesNotDelayOthers(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(3 * time.Second)
	limiter.RecordAccess("https://a.com/")
	proc := &recorder{}

	_, err := dispatch.New(proc, dispatch.WithLimiter(limiter)).
		Run(context.Background(), []string{"https://a.com/1", "https://b.com/1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.com/1", "https://a.com/1"}, proc.calls)
}

func TestDispatcher_ReadyDeferredGoAheadOfFreshURLs(t *testing.T) {
	t.Parallel()

	limiter, clock := newLimiter(3 * time.Second)
	var calls []string
	proc := dispatch.ProcessorFunc(func(_ context.Context, rawURL string) (dispatch.Outcome, error) {
		calls = append(calls, rawURL)
		clock.Advance(2 * time.Second)
		return dispatch.OutcomeSuccess, nil
	})

	// a.com/2 is deferred behind a.com/1. Processing b.com/1 and c.com/1
	// takes 4s, so a.com/2 is ready before the final batch.
	_, err := dispatch.New(proc, dispatch.WithLimiter(limiter)).Run(context.Background(), []string{
		"https://a.com/1", "https://a.com/2", "https://b.com/1", "https://c.com/1", "https://b.com/2",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://a.com/1", "https://b.com/1", "https://c.com/1", "https://a.com/2", "https://b.com/2",
	}, calls)
	assert.Empty(t, clock.Slept(), "no wait needed when other work covers the cool-down")
}

func TestDispatcher_RecoverableFailureContinuesAndRecordsAccess(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	limiter, clock := newLimiter(3 * time.Second)
	processor := dispatchMock.NewMockProcessor(ctrl)
	extractErr := errors.New("extraction failed")

	gomock.InOrder(
		processor.EXPECT().Process(gomock.Any(), "https://a.com/1").Return(dispatch.OutcomeSuccess, extractErr),
		processor.EXPECT().Process(gomock.Any(), "https://b.com/1").Return(dispatch.OutcomeSkip, nil),
		processor.EXPECT().Process(gomock.Any(), "https://a.com/2").Return(dispatch.OutcomeSuccess, nil),
	)

	summary, err := dispatch.New(processor, dispatch.WithLimiter(limiter)).Run(context.Background(), []string{
		"https://a.com/1", "https://a.com/2", "https://b.com/1",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Deferrals, "failed attempt still throttles the domain")
	assert.GreaterOrEqual(t, clock.TotalSlept(), 3*time.Second)

	require.Len(t, summary.Results, 3)
	assert.Equal(t, dispatch.StatusFailed, summary.Results[0].Status)
	assert.ErrorIs(t, summary.Results[0].Err, extractErr)
	assert.Equal(t, dispatch.StatusSkipped, summary.Results[1].Status)
}

func TestDispatcher_FatalErrorAborts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	processor := dispatchMock.NewMockProcessor(ctrl)
	fatal := fmt.Errorf("extractor missing: %w", dispatch.ErrFatal)

	gomock.InOrder(
		processor.EXPECT().Process(gomock.Any(), "https://a.com/1").Return(dispatch.OutcomeSuccess, nil),
		processor.EXPECT().Process(gomock.Any(), "https://b.com/1").Return(dispatch.OutcomeSuccess, fatal),
	)

	summary, err := dispatch.New(processor).Run(context.Background(), []string{
		"https://a.com/1", "https://b.com/1", "https://c.com/1",
	})

	require.ErrorIs(t, err, dispatch.ErrFatal)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, []string{"https://a.com/1"}, summary.Order())
}

func TestDispatcher_CancelledContext(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	processor := dispatchMock.NewMockProcessor(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := dispatch.New(processor).Run(ctx, []string{"https://a.com/1"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Processed)
}

func TestDispatcher_CancelDuringProcessingStopsBeforeNextURL(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls []string
	proc := dispatch.ProcessorFunc(func(_ context.Context, rawURL string) (dispatch.Outcome, error) {
		calls = append(calls, rawURL)
		cancel()
		return dispatch.OutcomeSuccess, nil
	})

	summary, err := dispatch.New(proc).Run(ctx, []string{"https://a.com/1", "https://b.com/1"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"https://a.com/1"}, calls)
	assert.Equal(t, 1, summary.Processed)
}

func TestDispatcher_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := dispatch.NewMetrics(reg)
	limiter, _ := newLimiter(time.Second)

	proc := dispatch.ProcessorFunc(func(_ context.Context, rawURL string) (dispatch.Outcome, error) {
		if rawURL == "https://b.com/1" {
			return dispatch.OutcomeSuccess, errors.New("boom")
		}
		return dispatch.OutcomeSuccess, nil
	})

	_, err := dispatch.New(proc, dispatch.WithLimiter(limiter), dispatch.WithMetrics(metrics)).
		Run(context.Background(), []string{"https://a.com/1", "https://a.com/2", "https://b.com/1"})
	require.NoError(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(metrics.URLsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.URLsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DeferralsTotal), 0)
}

func TestDispatcher_WaitMetricUsesLimiterClock(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := dispatch.NewMetrics(reg)
	limiter, clock := newLimiter(3 * time.Second)

	_, err := dispatch.New(&recorder{},
		dispatch.WithLimiter(limiter),
		dispatch.WithMetrics(metrics),
		dispatch.WithClock(clock),
	).Run(context.Background(), []string{"https://a.com/1", "https://a.com/2"})
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, clock.TotalSlept())
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.WaitSeconds), 0.001)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", dispatch.OutcomeSuccess.String())
	assert.Equal(t, "skip", dispatch.OutcomeSkip.String())
	assert.Equal(t, "unknown", dispatch.Outcome(42).String())
}
