package classifier

import (
	"sort"
	"strings"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// TriggerPrefix marks a template trigger that refers to a category.
const TriggerPrefix = "@"

// Registry maps category names to classifiers. It is built once at startup
// and is read-only afterwards.
type Registry struct {
	classifiers map[string]*Classifier
	log         logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	categories []Category
	extra      []Category
	log        logger.Logger
}

// WithCategories replaces the built-in category set.
func WithCategories(categories ...Category) RegistryOption {
	return func(o *registryOptions) {
		o.categories = categories
	}
}

// WithExtraCategories adds categories on top of the base set. An extra
// category with the same name as a base one replaces it.
func WithExtraCategories(categories ...Category) RegistryOption {
	return func(o *registryOptions) {
		o.extra = append(o.extra, categories...)
	}
}

// WithLogger sets the registry logger.
func WithLogger(log logger.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.log = log
	}
}

// NewRegistry builds one Classifier per category, all reading from source.
func NewRegistry(source DataSource, opts ...RegistryOption) *Registry {
	o := &registryOptions{
		categories: BuiltinCategories(),
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &Registry{
		classifiers: make(map[string]*Classifier, len(o.categories)+len(o.extra)),
		log:         o.log,
	}
	for _, category := range append(o.categories, o.extra...) {
		category.Name = strings.ToLower(strings.TrimSpace(category.Name))
		if category.Name == "" {
			continue
		}
		r.classifiers[category.Name] = New(category, source)
	}

	r.log.Debug("Classifier registry built", logger.Strings("categories", r.Names()))

	return r
}

// Get returns the classifier for a bare category name.
func (r *Registry) Get(name string) (*Classifier, bool) {
	c, ok := r.classifiers[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Lookup resolves an "@name" trigger token. Surrounding whitespace and case
// are ignored.
func (r *Registry) Lookup(trigger string) (*Classifier, bool) {
	token := strings.ToLower(strings.TrimSpace(trigger))
	name, ok := strings.CutPrefix(token, TriggerPrefix)
	if !ok {
		return nil, false
	}
	c, found := r.classifiers[name]
	return c, found
}

// IsTrigger reports whether trigger names a registered category.
func (r *Registry) IsTrigger(trigger string) bool {
	_, ok := r.Lookup(trigger)
	return ok
}

// Names returns the registered category names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.classifiers))
	for name := range r.classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match reports whether rawURL matches the category named by trigger.
// Unknown triggers never match.
func (r *Registry) Match(trigger, rawURL string) bool {
	c, ok := r.Lookup(trigger)
	if !ok {
		return false
	}
	return c.Matches(rawURL)
}
