package processor

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/mdclip/internal/dispatch"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

// DryRunProcessor reports the template each URL would use without running
// the extractor. Every URL counts as processed.
type DryRunProcessor struct {
	resolver   *Resolver
	folder     string
	dateLayout string
	log        logger.Logger
}

// NewDryRunProcessor creates a DryRunProcessor. folder, when set, overrides
// the template folder in the report; dateLayout formats {{date}} in the
// previewed file name.
func NewDryRunProcessor(resolver *Resolver, folder, dateLayout string, log logger.Logger) *DryRunProcessor {
	if log == nil {
		log = logger.NewNop()
	}
	return &DryRunProcessor{resolver: resolver, folder: folder, dateLayout: dateLayout, log: log}
}

// Process implements dispatch.Processor.
func (p *DryRunProcessor) Process(_ context.Context, rawURL string) (dispatch.Outcome, error) {
	tpl := p.resolver.Resolve(rawURL)

	folder := tpl.Folder
	if p.folder != "" {
		folder = p.folder
	}

	p.log.Info("[dry-run] Would process",
		logger.String("url", rawURL),
		logger.String("template", tpl.Name),
		logger.String("folder", folder),
		logger.String("file", PreviewFilename(tpl, rawURL, p.dateLayout, time.Now())),
	)

	return dispatch.OutcomeSuccess, nil
}
