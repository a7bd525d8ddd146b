package processor

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// FilenameVars returns the filename placeholders known before extraction:
// "date", formatted with layout, and "domain". "title" and "slug" are left
// for the extractor.
func FilenameVars(rawURL, layout string, now time.Time) map[string]string {
	if layout == "" {
		layout = time.DateOnly
	}
	vars := map[string]string{"date": now.Format(layout)}
	if u, err := url.Parse(rawURL); err == nil {
		vars["domain"] = u.Host
	}
	return vars
}

// PreviewFilename renders the note file name for tpl using the last path
// segment of rawURL as a stand-in title.
func PreviewFilename(tpl router.Template, rawURL, layout string, now time.Time) string {
	title := previewTitle(rawURL)

	vars := FilenameVars(rawURL, layout, now)
	vars["title"] = title
	vars["slug"] = router.Slugify(title)

	return router.SanitizeFilename(router.RenderFilename(tpl.Filename, vars), router.DefaultMaxFilenameLength) + ".md"
}

func previewTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segment := path.Base(strings.Trim(u.Path, "/"))
	if segment == "." || segment == "" {
		return u.Hostname()
	}
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	return strings.Join(strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	}), " ")
}
