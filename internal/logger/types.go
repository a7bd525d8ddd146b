// Package logger provides the structured logging interface used across mdclip.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
)

// Supported encodings.
const (
	// FormatConsole renders human readable lines for interactive terminals.
	FormatConsole = "console"
	// FormatJSON renders one JSON object per entry.
	FormatJSON = "json"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error).
	Level string `env:"MDCLIP_LOG_LEVEL" mapstructure:"level" yaml:"level"`
	// Format is the output encoding, "console" or "json".
	Format string `env:"MDCLIP_LOG_FORMAT" mapstructure:"format" yaml:"format"`
	// Development enables caller and stacktrace annotations on warnings.
	Development bool `mapstructure:"development" yaml:"development"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths"`
}

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = "info"
	// DefaultFormat is the default log format. mdclip is an interactive CLI,
	// so logs go to stderr as console lines unless JSON is requested.
	DefaultFormat = FormatConsole
)

// DefaultOutputPaths keeps stdout free for command output such as tables.
var DefaultOutputPaths = []string{"stderr"}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = DefaultOutputPaths
	}
}
