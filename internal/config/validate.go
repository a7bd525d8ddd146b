package config

import (
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []*ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidationErrors listing
// every problem, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	if strings.TrimSpace(c.Vault) == "" {
		add("vault", "is required")
	}
	if c.RateLimit.Delay < 0 {
		add("rate_limit.delay", "must not be negative")
	}
	if c.Extractor.Command == "" {
		add("extractor.command", "is required")
	}
	if c.Extractor.Timeout < 0 {
		add("extractor.timeout", "must not be negative")
	}
	if c.ConfirmThreshold < 0 {
		add("confirm_threshold", "must not be negative")
	}
	for name, threshold := range c.Filters.Thresholds {
		if threshold <= 0 {
			add("filters.thresholds."+name, "must be positive")
		}
	}

	switch c.Logging.Level {
	case "", string(logger.DebugLevel), string(logger.InfoLevel), string(logger.WarnLevel), string(logger.ErrorLevel):
	default:
		add("logging.level", "must be one of: debug, info, warn, error")
	}
	switch c.Logging.Format {
	case "", logger.FormatConsole, logger.FormatJSON:
	default:
		add("logging.format", "must be one of: console, json")
	}

	seen := make(map[string]int, len(c.Templates))
	for i, t := range c.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		if strings.TrimSpace(t.Name) == "" {
			add(field+".name", "is required")
			continue
		}
		if first, dup := seen[t.Name]; dup {
			add(field+".name", fmt.Sprintf("duplicates templates[%d] %q", first, t.Name))
			continue
		}
		seen[t.Name] = i
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
