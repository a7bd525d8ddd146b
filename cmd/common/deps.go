// Package common provides shared utilities for command implementations.
package common

import (
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// GlobalOptions holds the values of the root persistent flags.
type GlobalOptions struct {
	ConfigPath string
	Debug      bool
}

// Globals is populated by the root command before any subcommand runs.
var Globals GlobalOptions

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger     logger.Logger
	Config     *config.Config
	ConfigPath string
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}
