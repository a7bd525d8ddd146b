package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/mdclip/internal/dispatch"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// ExitCodeSkip is the extractor exit status meaning "nothing to do".
const ExitCodeSkip = 3

// Environment variables passed to the extractor.
const (
	EnvTemplate   = "MDCLIP_TEMPLATE"
	EnvFolder     = "MDCLIP_FOLDER"
	EnvTags       = "MDCLIP_TAGS"
	EnvFilename   = "MDCLIP_FILENAME"
	EnvVault      = "MDCLIP_VAULT"
	EnvGatherOpts = "MDCLIP_GATHER_OPTS"
)

// waitDelay bounds how long Wait blocks on output pipes after the extractor
// is killed.
const waitDelay = 2 * time.Second

// maxStderrInError caps how much extractor output is copied into an error.
const maxStderrInError = 512

// CommandConfig describes how to run the extractor.
type CommandConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
	Vault   string
	// Folder overrides the template folder when set.
	Folder    string
	ExtraTags []string
	// DateLayout formats {{date}} in the filename pattern.
	DateLayout string
}

// CommandProcessor runs the extractor once per URL. The URL is the last
// argument; the resolved template reaches the extractor through MDCLIP_*
// environment variables.
type CommandProcessor struct {
	cfg      CommandConfig
	resolver *Resolver
	log      logger.Logger
}

// NewCommandProcessor creates a CommandProcessor.
func NewCommandProcessor(cfg CommandConfig, resolver *Resolver, log logger.Logger) *CommandProcessor {
	if log == nil {
		log = logger.NewNop()
	}
	return &CommandProcessor{cfg: cfg, resolver: resolver, log: log}
}

// Process implements dispatch.Processor.
func (p *CommandProcessor) Process(ctx context.Context, rawURL string) (dispatch.Outcome, error) {
	tpl := p.resolver.Resolve(rawURL)

	runCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), p.cfg.Args...), rawURL)
	cmd := exec.CommandContext(runCtx, p.cfg.Command, args...)
	cmd.Env = append(os.Environ(), p.environment(tpl, rawURL)...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.log.Debug("Running extractor",
		logger.String("url", rawURL),
		logger.String("template", tpl.Name),
		logger.String("command", p.cfg.Command),
	)

	runErr := cmd.Run()
	if runErr == nil {
		p.log.Info("Clipped", logger.String("url", rawURL), logger.String("template", tpl.Name))
		return dispatch.OutcomeSuccess, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
		return dispatch.OutcomeSuccess, fmt.Errorf("%w: %s", ErrExtractorNotFound, p.cfg.Command)
	}

	if runCtx.Err() != nil && ctx.Err() == nil {
		return dispatch.OutcomeSuccess, fmt.Errorf("%w: timed out after %s", ErrExtractionFailed, p.cfg.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		if exitErr.ExitCode() == ExitCodeSkip {
			p.log.Info("Extractor skipped URL", logger.String("url", rawURL))
			return dispatch.OutcomeSkip, nil
		}
		return dispatch.OutcomeSuccess, fmt.Errorf("%w: %s", ErrExtractionFailed, stderrMessage(stderr.Bytes(), exitErr))
	}

	return dispatch.OutcomeSuccess, fmt.Errorf("run extractor: %w", runErr)
}

func (p *CommandProcessor) environment(tpl router.Template, rawURL string) []string {
	folder := tpl.Folder
	if p.cfg.Folder != "" {
		folder = p.cfg.Folder
	}

	tags := append(append([]string(nil), tpl.Tags...), p.cfg.ExtraTags...)

	return []string{
		EnvTemplate + "=" + tpl.Name,
		EnvFolder + "=" + folder,
		EnvTags + "=" + strings.Join(tags, ","),
		EnvFilename + "=" + router.RenderFilename(tpl.Filename, FilenameVars(rawURL, p.cfg.DateLayout, time.Now())),
		EnvVault + "=" + p.cfg.Vault,
		EnvGatherOpts + "=" + strings.Join(tpl.GatherOpts, " "),
	}
}

// stderrMessage extracts the extractor's error text. The extractor may print
// a JSON object with a "message" field; otherwise the raw output is used.
func stderrMessage(stderr []byte, exitErr *exec.ExitError) string {
	trimmed := bytes.TrimSpace(stderr)
	if len(trimmed) == 0 {
		return exitErr.Error()
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	msg := string(trimmed)
	if len(msg) > maxStderrInError {
		msg = msg[:maxStderrInError] + "..."
	}
	return msg
}
