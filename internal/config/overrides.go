package config

import "time"

// Overrides are command-line values that take precedence over the file.
// Zero values leave the loaded setting unchanged.
type Overrides struct {
	Vault   string
	Delay   *time.Duration
	DataDir string
	Debug   bool
}

// MergeOverrides applies o on top of c.
func (c *Config) MergeOverrides(o Overrides) {
	if o.Vault != "" {
		c.Vault = expandHome(o.Vault)
	}
	if o.Delay != nil {
		c.RateLimit.Delay = *o.Delay
	}
	if o.DataDir != "" {
		c.Filters.DataDir = expandHome(o.DataDir)
	}
	if o.Debug {
		c.Logging.Level = "debug"
		c.Logging.Development = true
	}
}
