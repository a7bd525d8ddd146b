// Package router resolves URLs to templates through ordered trigger rules.
package router

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// regexMetacharacters flag a trigger as a regular expression. '/' and '.'
// are excluded because they are common in literal URL fragments.
const regexMetacharacters = `^$*+?{}[]()|\`

// categoryPrefix marks a trigger that delegates to a classifier.
const categoryPrefix = "@"

// CategoryMatcher answers "@category" triggers.
type CategoryMatcher interface {
	Match(trigger, rawURL string) bool
}

// Router resolves URLs against ordered template lists. It is safe for
// concurrent use and caches compiled trigger regexes.
type Router struct {
	categories CategoryMatcher
	log        logger.Logger

	mu      sync.RWMutex
	regexes map[string]*regexp.Regexp
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Router) {
		r.log = log
	}
}

// New creates a Router. A nil categories matcher makes every "@category"
// trigger a non-match.
func New(categories CategoryMatcher, opts ...Option) *Router {
	r := &Router{
		categories: categories,
		log:        logger.NewNop(),
		regexes:    make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first template whose trigger matches rawURL. Templates
// without triggers are skipped. When nothing matches, the template named
// "default" is returned if present (the last one when several share the
// name), otherwise a bare default.
func (r *Router) Resolve(rawURL string, templates []Template) Template {
	var fallback *Template

	for i := range templates {
		t := &templates[i]
		if t.IsDefault() {
			fallback = t
		}
		if len(t.Triggers) == 0 {
			continue
		}
		for _, trigger := range t.Triggers {
			if r.MatchesPattern(rawURL, trigger) {
				r.log.Debug("Template matched",
					logger.String("url", rawURL),
					logger.String("template", t.Name),
					logger.String("trigger", trigger),
				)
				return *t
			}
		}
	}

	if fallback != nil {
		return *fallback
	}
	return BareDefault()
}

// MatchesPattern reports whether rawURL satisfies a single trigger.
func (r *Router) MatchesPattern(rawURL, pattern string) bool {
	if strings.HasPrefix(strings.TrimSpace(pattern), categoryPrefix) {
		return r.categories != nil && r.categories.Match(pattern, rawURL)
	}

	if IsRegexPattern(pattern) {
		if re := r.compile(pattern); re != nil {
			return re.MatchString(rawURL)
		}
	}

	return strings.Contains(strings.ToLower(rawURL), strings.ToLower(pattern))
}

// compile returns the cached case-insensitive regex for pattern, or nil when
// the pattern does not compile.
func (r *Router) compile(pattern string) *regexp.Regexp {
	r.mu.RLock()
	re, ok := r.regexes[pattern]
	r.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		r.log.Debug("Trigger is not a valid regex, matching literally",
			logger.String("trigger", pattern),
			logger.Error(err),
		)
		re = nil
	}

	r.mu.Lock()
	r.regexes[pattern] = re
	r.mu.Unlock()

	return re
}

// IsRegexPattern reports whether a trigger is treated as a regular
// expression: it starts with '^' or contains a regex metacharacter.
func IsRegexPattern(pattern string) bool {
	return strings.HasPrefix(pattern, "^") || strings.ContainsAny(pattern, regexMetacharacters)
}
