// Package clip implements the command that turns URLs into vault notes.
package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
	"github.com/jonesrussell/north-cloud/mdclip/internal/dispatch"
	"github.com/jonesrussell/north-cloud/mdclip/internal/inputs"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/processor"
	"github.com/jonesrussell/north-cloud/mdclip/internal/ratelimit"
)

var (
	// ErrNoInput is returned when no INPUT argument was given.
	ErrNoInput = errors.New("no input provided")
	// ErrNoURLs is returned when the inputs contained no valid URL.
	ErrNoURLs = errors.New("no valid URLs found in input")
)

// Options are the clip command flags.
type Options struct {
	Output      string
	Vault       string
	Template    string
	Tags        []string
	DryRun      bool
	Yes         bool
	Delay       time.Duration
	MetricsFile string
}

// Runner executes one clip run.
type Runner struct {
	deps    common.CommandDeps
	opts    Options
	in      io.Reader
	out     io.Writer
	runID   string
	log     logger.Logger
	metrics *dispatch.Metrics
	reg     *prometheus.Registry
}

// NewRunner creates a Runner writing prompts and the summary to out.
func NewRunner(deps common.CommandDeps, opts Options, in io.Reader, out io.Writer) *Runner {
	runID := uuid.New().String()
	reg := prometheus.NewRegistry()

	return &Runner{
		deps:    deps,
		opts:    opts,
		in:      in,
		out:     out,
		runID:   runID,
		log:     deps.Logger.With(logger.String("run_id", runID)),
		metrics: dispatch.NewMetrics(reg),
		reg:     reg,
	}
}

// Start parses args into URLs, asks for confirmation when there are many and
// dispatches them. It returns common.ErrNothingProcessed when no URL was
// processed.
func (r *Runner) Start(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrNoInput
	}

	urls, err := inputs.ParseAll(args)
	if err != nil {
		return fmt.Errorf("parse inputs: %w", err)
	}
	if len(urls) == 0 {
		return ErrNoURLs
	}
	r.log.Debug("Parsed inputs",
		logger.Int("urls", len(urls)),
		logger.Bool("dry_run", r.opts.DryRun),
	)

	cfg := r.deps.Config
	if len(urls) > cfg.ConfirmThreshold && !r.opts.Yes {
		question := fmt.Sprintf("Process %d URLs?", len(urls))
		if !common.Confirm(r.in, r.out, question) {
			fmt.Fprintln(r.out, "Aborted.")
			return nil
		}
	}

	dispatcher := r.newDispatcher()
	summary, runErr := dispatcher.Run(ctx, urls)

	if r.opts.MetricsFile != "" {
		if err := r.writeMetrics(); err != nil {
			r.log.Warn("Failed to write metrics file",
				logger.String("path", r.opts.MetricsFile),
				logger.Error(err),
			)
		}
	}

	if runErr != nil {
		return runErr
	}

	if summary.Total > 1 {
		fmt.Fprintf(r.out, "Processed %d/%d URLs\n", summary.Processed, summary.Total)
	}
	if summary.Processed == 0 {
		return common.ErrNothingProcessed
	}

	return nil
}

func (r *Runner) newDispatcher() *dispatch.Dispatcher {
	cfg := r.deps.Config
	rt, _ := common.NewRouter(common.CommandDeps{Logger: r.log, Config: cfg})
	resolver := processor.NewResolver(rt, cfg.Templates, r.opts.Template, r.log)

	var proc dispatch.Processor
	if r.opts.DryRun {
		proc = processor.NewDryRunProcessor(resolver, r.opts.Output, cfg.FilenameDateLayout(), r.log)
	} else {
		proc = processor.NewCommandProcessor(processor.CommandConfig{
			Command:    cfg.Extractor.Command,
			Args:       cfg.Extractor.Args,
			Timeout:    cfg.Extractor.Timeout,
			Vault:      cfg.Vault,
			Folder:     r.opts.Output,
			ExtraTags:  r.opts.Tags,
			DateLayout: cfg.FilenameDateLayout(),
		}, resolver, r.log)
	}

	opts := []dispatch.Option{
		dispatch.WithLogger(r.log),
		dispatch.WithMetrics(r.metrics),
	}
	if delay := cfg.RateLimit.Delay; delay > 0 {
		clock := ratelimit.SystemClock{}
		limiter := ratelimit.New(delay, ratelimit.WithClock(clock))
		r.log.Debug("Rate limiting per domain", logger.Duration("delay", limiter.Delay()))
		opts = append(opts, dispatch.WithLimiter(limiter), dispatch.WithClock(clock))
	} else {
		r.log.Debug("Rate limiting disabled")
	}

	return dispatch.New(proc, opts...)
}

func (r *Runner) writeMetrics() error {
	runInfo := promauto.With(r.reg).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mdclip",
		Name:      "run_info",
		Help:      "Identifies the clip run that produced these metrics.",
	}, []string{"run_id"})
	runInfo.WithLabelValues(r.runID).Set(1)

	return prometheus.WriteToTextfile(r.opts.MetricsFile, r.reg)
}

// Command creates the clip command.
func Command() *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "clip [INPUT...]",
		Short: "Clip URLs into the vault",
		Long: `Clip one or more web pages into the vault.

Each INPUT is a URL, a text or Markdown file listing URLs, or a browser
bookmarks HTML export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{Vault: opts.Vault}
			if cmd.Flags().Changed("delay") {
				overrides.Delay = &opts.Delay
			}

			deps, err := common.NewCommandDeps(overrides)
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return NewRunner(deps, opts, cmd.InOrStdin(), cmd.OutOrStdout()).Start(ctx, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "override output folder (relative to vault or absolute)")
	flags.StringVarP(&opts.Vault, "vault", "v", "", "override vault path")
	flags.StringVarP(&opts.Template, "template", "t", "", "force a template by name, bypassing trigger matching")
	flags.StringSliceVar(&opts.Tags, "tags", nil, "additional tags to append")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "show what would be done without running the extractor")
	flags.BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt for many URLs")
	flags.DurationVar(&opts.Delay, "delay", config.DefaultDelay, "minimum delay between requests to one domain (0 disables)")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")

	return cmd
}
