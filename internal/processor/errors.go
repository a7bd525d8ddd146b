package processor

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/mdclip/internal/dispatch"
)

var (
	// ErrExtractorNotFound means the extractor executable is not installed.
	// It wraps dispatch.ErrFatal so the run stops.
	ErrExtractorNotFound = fmt.Errorf("extractor not found: %w", dispatch.ErrFatal)

	// ErrExtractionFailed is returned when the extractor exits with an error.
	ErrExtractionFailed = errors.New("extraction failed")
)
