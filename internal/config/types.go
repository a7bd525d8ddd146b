// Package config loads mdclip settings from ~/.mdclip.yml, MDCLIP_*
// environment variables and built-in defaults.
package config

import (
	"time"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// Default values.
const (
	DefaultVault              = "~/Documents/Obsidian/Notes"
	DefaultDateFormat         = "%Y-%m-%d"
	DefaultFilenameDateFormat = "%Y-%m-%d"
	DefaultConfirmThreshold   = 10
	DefaultExtractorCommand   = "node"
	DefaultExtractorTimeout   = 60 * time.Second
	// DefaultDelay is the minimum spacing between requests to one domain.
	DefaultDelay = 3 * time.Second
)

// DefaultExtractorArgs runs the bundled extraction script.
var DefaultExtractorArgs = []string{"scripts/defuddle-extract.js"}

// DefaultProperties lists frontmatter properties included when available.
var DefaultProperties = []string{"title", "source", "author", "created", "published", "description"}

// Config is the complete mdclip configuration.
type Config struct {
	Vault              string            `mapstructure:"vault"                yaml:"vault"`
	DateFormat         string            `mapstructure:"date_format"          yaml:"date_format"`
	FilenameDateFormat string            `mapstructure:"filename_date_format" yaml:"filename_date_format"`
	DefaultFolder      string            `mapstructure:"default_folder"       yaml:"default_folder"`
	AutoFormat         bool              `mapstructure:"auto_format"          yaml:"auto_format"`
	DefaultProperties  []string          `mapstructure:"default_properties"   yaml:"default_properties"`
	Templates          []router.Template `mapstructure:"-"                    yaml:"templates"`
	RateLimit          RateLimitConfig   `mapstructure:"rate_limit"           yaml:"rate_limit"`
	Extractor          ExtractorConfig   `mapstructure:"extractor"            yaml:"extractor"`
	Filters            FiltersConfig     `mapstructure:"filters"              yaml:"filters"`
	Logging            logger.Config     `mapstructure:"logging"              yaml:"logging"`
	ConfirmThreshold   int               `mapstructure:"confirm_threshold"    yaml:"confirm_threshold"`
}

// RateLimitConfig controls per-domain request spacing. A zero delay turns
// rate limiting off.
type RateLimitConfig struct {
	Delay time.Duration `env:"MDCLIP_RATE_LIMIT_DELAY" mapstructure:"delay" yaml:"delay"`
}

// ExtractorConfig describes the external content extractor.
type ExtractorConfig struct {
	Command string        `env:"MDCLIP_EXTRACTOR_COMMAND" mapstructure:"command" yaml:"command"`
	Args    []string      `mapstructure:"args"    yaml:"args"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// FiltersConfig customises category data. DataDir, when set, replaces the
// built-in category data with a directory of the same layout. Thresholds
// overrides the match threshold per category.
type FiltersConfig struct {
	DataDir    string         `env:"MDCLIP_FILTERS_DATA_DIR" mapstructure:"data_dir" yaml:"data_dir"`
	Thresholds map[string]int `mapstructure:"thresholds" yaml:"thresholds"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Vault == "" {
		c.Vault = DefaultVault
	}
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}
	if c.FilenameDateFormat == "" {
		c.FilenameDateFormat = DefaultFilenameDateFormat
	}
	if c.DefaultFolder == "" {
		c.DefaultFolder = router.DefaultFolder
	}
	if c.DefaultProperties == nil {
		c.DefaultProperties = append([]string(nil), DefaultProperties...)
	}
	if len(c.Templates) == 0 {
		c.Templates = []router.Template{router.BareDefault()}
	}
	if c.ConfirmThreshold == 0 {
		c.ConfirmThreshold = DefaultConfirmThreshold
	}
	c.Extractor.SetDefaults()
	c.Logging.SetDefaults()
}

// SetDefaults fills unset extractor fields.
func (e *ExtractorConfig) SetDefaults() {
	if e.Command == "" {
		e.Command = DefaultExtractorCommand
		if e.Args == nil {
			e.Args = append([]string(nil), DefaultExtractorArgs...)
		}
	}
	if e.Timeout == 0 {
		e.Timeout = DefaultExtractorTimeout
	}
}

// FilenameDateLayout returns filename_date_format as a time.Format layout.
func (c *Config) FilenameDateLayout() string {
	return router.DateLayout(c.FilenameDateFormat)
}

// TemplateByName returns the configured template called name.
func (c *Config) TemplateByName(name string) (router.Template, bool) {
	return router.TemplateByName(name, c.Templates)
}
