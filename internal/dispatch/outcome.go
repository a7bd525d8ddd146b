package dispatch

import (
	"context"
	"errors"
)

// ErrFatal marks an environment failure, such as a missing external tool.
// A processor error wrapping ErrFatal aborts the whole run.
var ErrFatal = errors.New("fatal environment error")

// Outcome is what a processor reports for a URL it handled without error.
type Outcome int

const (
	// OutcomeSuccess means the URL was processed.
	OutcomeSuccess Outcome = iota
	// OutcomeSkip means the processor deliberately did nothing.
	OutcomeSkip
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

//go:generate mockgen -destination=../testutils/mocks/dispatch/processor.go -package=dispatch github.com/jonesrussell/north-cloud/mdclip/internal/dispatch Processor

// Processor handles one URL. Errors wrapping ErrFatal stop the run; any
// other error is recorded against the URL and the run continues.
type Processor interface {
	Process(ctx context.Context, rawURL string) (Outcome, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, rawURL string) (Outcome, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, rawURL string) (Outcome, error) {
	return f(ctx, rawURL)
}

// Status is the recorded result for one dispatched URL.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result records one processor invocation.
type Result struct {
	URL    string
	Status Status
	Err    error
}

// Summary aggregates a run. Results are in dispatch order.
type Summary struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Deferrals int
	Results   []Result
}

func (s *Summary) record(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusSuccess:
		s.Processed++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Order returns the dispatched URLs in order.
func (s Summary) Order() []string {
	urls := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		urls = append(urls, r.URL)
	}
	return urls
}
