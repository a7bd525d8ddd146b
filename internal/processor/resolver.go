// Package processor connects dispatched URLs to the external content
// extractor. It resolves each URL's template and hands both to the extractor
// process, or only reports what would happen in dry-run mode.
package processor

import (
	"sync"

	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// Resolver picks the template for a URL. A forced template name takes
// precedence over routing; if no template has that name, routing is used and
// a warning is logged once.
type Resolver struct {
	router    *router.Router
	templates []router.Template
	forced    string
	log       logger.Logger

	warnOnce sync.Once
}

// NewResolver creates a Resolver over templates. forced may be empty.
func NewResolver(r *router.Router, templates []router.Template, forced string, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{
		router:    r,
		templates: templates,
		forced:    forced,
		log:       log,
	}
}

// Resolve returns the template for rawURL.
func (r *Resolver) Resolve(rawURL string) router.Template {
	if r.forced != "" {
		if t, ok := router.TemplateByName(r.forced, r.templates); ok {
			return t
		}
		r.warnOnce.Do(func() {
			r.log.Warn("Template not found, routing instead", logger.String("template", r.forced))
		})
	}
	return r.router.Resolve(rawURL, r.templates)
}
