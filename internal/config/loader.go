package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// EnvPrefix prefixes every environment override, e.g. MDCLIP_VAULT.
const EnvPrefix = "MDCLIP"

// FileName is the config file name in the home directory.
const FileName = ".mdclip.yml"

// configFileMode keeps the config readable only by its owner.
const configFileMode = 0o600

var (
	// ErrConfigExists is returned by InitConfig when the file is already there.
	ErrConfigExists = errors.New("config file already exists")
	// ErrInvalidTemplate is returned when a template entry cannot be decoded.
	ErrInvalidTemplate = errors.New("invalid template")
)

// DefaultPath returns ~/.mdclip.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config at path, creating it from DefaultConfigYAML when it
// does not exist. An empty path means DefaultPath. The boolean reports
// whether the file was created by this call.
func Load(path string) (*Config, bool, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, false, err
		}
		path = defaultPath
	}

	created := false
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return nil, false, err
		}
		created = true
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, created, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, created, fmt.Errorf("decode config %s: %w", path, err)
	}

	return cfg, created, nil
}

// InitConfig writes DefaultConfigYAML to path (DefaultPath when empty). It
// fails with ErrConfigExists rather than overwrite an existing file.
func InitConfig(path string) (string, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := writeDefault(path); err != nil {
		return path, err
	}
	return path, nil
}

func writeDefault(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(DefaultConfigYAML), configFileMode); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// setDefaults registers every scalar key so environment variables can
// override it even when the file leaves it out.
func setDefaults(v *viper.Viper) {
	v.SetDefault("vault", DefaultVault)
	v.SetDefault("date_format", DefaultDateFormat)
	v.SetDefault("filename_date_format", DefaultFilenameDateFormat)
	v.SetDefault("default_folder", router.DefaultFolder)
	v.SetDefault("auto_format", false)
	v.SetDefault("default_properties", DefaultProperties)
	v.SetDefault("confirm_threshold", DefaultConfirmThreshold)

	v.SetDefault("rate_limit.delay", DefaultDelay.String())

	v.SetDefault("extractor.command", DefaultExtractorCommand)
	v.SetDefault("extractor.args", DefaultExtractorArgs)
	v.SetDefault("extractor.timeout", DefaultExtractorTimeout.String())

	v.SetDefault("filters.data_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func decode(v *viper.Viper) (*Config, error) {
	settings := v.AllSettings()
	rawTemplates := settings["templates"]
	delete(settings, "templates")

	cfg := &Config{}
	if err := decodeInto(settings, cfg); err != nil {
		return nil, err
	}

	templates, err := decodeTemplates(rawTemplates)
	if err != nil {
		return nil, err
	}
	cfg.Templates = templates

	cfg.Vault = expandHome(cfg.Vault)
	cfg.Filters.DataDir = expandHome(cfg.Filters.DataDir)
	cfg.SetDefaults()

	return cfg, nil
}

// decodeTemplates converts the raw template list, applying per-template
// defaults.
func decodeTemplates(raw any) ([]router.Template, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: templates must be a list", ErrInvalidTemplate)
	}

	templates := make([]router.Template, 0, len(items))
	for i, item := range items {
		var t router.Template
		if err := decodeInto(item, &t); err != nil {
			return nil, fmt.Errorf("%w: templates[%d]: %w", ErrInvalidTemplate, i, err)
		}
		t.SetDefaults()
		templates = append(templates, t)
	}
	return templates, nil
}

func decodeInto(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if decodeErr := decoder.Decode(input); decodeErr != nil {
		return fmt.Errorf("decode: %w", decodeErr)
	}
	return nil
}

// secondsToDurationHook lets durations be written as plain numbers of
// seconds, e.g. "delay: 1.5" or MDCLIP_RATE_LIMIT_DELAY=2.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}

		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		case reflect.String:
			s := strings.TrimSpace(data.(string))
			if seconds, err := strconv.ParseFloat(s, 64); err == nil {
				return time.Duration(seconds * float64(time.Second)), nil
			}
			return s, nil
		default:
			return data, nil
		}
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
