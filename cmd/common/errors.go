package common

import "errors"

var (
	// ErrLoggerRequired is returned when CommandDeps.Logger is nil.
	ErrLoggerRequired = errors.New("logger is required")

	// ErrConfigRequired is returned when CommandDeps.Config is nil.
	ErrConfigRequired = errors.New("config is required")

	// ErrNothingProcessed is returned when a clip run processed no URL.
	ErrNothingProcessed = errors.New("no URLs were processed")
)
