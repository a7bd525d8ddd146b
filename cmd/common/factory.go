package common

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/mdclip/internal/classifier"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// NewCommandDeps loads the configuration named by the --config flag,
// applies overrides and builds the logger.
func NewCommandDeps(overrides config.Overrides) (CommandDeps, error) {
	path := Globals.ConfigPath
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return CommandDeps{}, err
		}
		path = defaultPath
	}

	cfg, created, err := config.Load(path)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	overrides.Debug = overrides.Debug || Globals.Debug
	cfg.MergeOverrides(overrides)

	if validateErr := cfg.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("invalid config %s: %w", path, validateErr)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}
	if created {
		log.Info("Created default config file", logger.String("path", path))
	}

	deps := CommandDeps{
		Logger:     log,
		Config:     cfg,
		ConfigPath: path,
	}

	if validateErr := deps.Validate(); validateErr != nil {
		return CommandDeps{}, fmt.Errorf("validate deps: %w", validateErr)
	}

	return deps, nil
}

// NewFilterStore returns the category data store selected by the config:
// the filters.data_dir directory when set, the embedded data otherwise.
func NewFilterStore(cfg *config.Config, log logger.Logger) *filterdata.Store {
	if cfg.Filters.DataDir != "" {
		log.Debug("Using category data directory", logger.String("dir", cfg.Filters.DataDir))
		return filterdata.NewDirStore(cfg.Filters.DataDir, log)
	}
	return filterdata.NewEmbeddedStore(log)
}

// NewRegistry builds the classifier registry. Built-in categories take their
// thresholds from filters.thresholds when present; categories found in the
// data store without a built-in definition use the default threshold.
func NewRegistry(cfg *config.Config, store *filterdata.Store, log logger.Logger) *classifier.Registry {
	builtins := classifier.BuiltinCategories()
	known := make(map[string]struct{}, len(builtins))
	for i := range builtins {
		known[builtins[i].Name] = struct{}{}
		if threshold, ok := cfg.Filters.Thresholds[builtins[i].Name]; ok {
			builtins[i].Threshold = threshold
		}
	}

	var extra []classifier.Category
	names, err := store.Categories()
	if err != nil {
		log.Warn("Failed to list category data", logger.Error(err))
	}
	for _, name := range names {
		if _, ok := known[name]; ok {
			continue
		}
		threshold := classifier.DefaultThreshold
		if override, ok := cfg.Filters.Thresholds[name]; ok {
			threshold = override
		}
		extra = append(extra, classifier.Category{
			Name:      name,
			Threshold: threshold,
			Special:   classifier.SpecialCheckFor(name),
		})
	}

	return classifier.NewRegistry(store,
		classifier.WithCategories(builtins...),
		classifier.WithExtraCategories(extra...),
		classifier.WithLogger(log),
	)
}

// NewRouter builds the template router over the configured categories.
func NewRouter(deps CommandDeps) (*router.Router, *classifier.Registry) {
	store := NewFilterStore(deps.Config, deps.Logger)
	registry := NewRegistry(deps.Config, store, deps.Logger)
	return router.New(registry, router.WithLogger(deps.Logger)), registry
}

