package router

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxFilenameLength bounds SanitizeFilename output, in characters.
const DefaultMaxFilenameLength = 100

const untitled = "Untitled"

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
	nonSlugRun           = regexp.MustCompile(`[^a-z0-9]+`)
)

// RenderFilename substitutes "{{key}}" placeholders in pattern. Unknown
// placeholders are left as they are.
func RenderFilename(pattern string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	oldnew := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		oldnew = append(oldnew, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(oldnew...).Replace(pattern)
}

// Slugify converts text to a lowercase, hyphen-separated ASCII slug.
// Accented letters are reduced to their base letter; other non-ASCII
// characters are dropped.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(text) {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	slug := nonSlugRun.ReplaceAllString(strings.ToLower(b.String()), "-")
	return strings.Trim(slug, "-")
}

// SanitizeFilename makes name safe as a file name: characters invalid on
// common filesystems are removed, whitespace collapsed, surrounding spaces
// and dots trimmed, and the result truncated to maxLen characters, at a word
// boundary when one falls in the second half. Empty results become
// "Untitled". A non-positive maxLen uses DefaultMaxFilenameLength.
func SanitizeFilename(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxFilenameLength
	}

	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")
	if name == "" {
		return untitled
	}

	if runes := []rune(name); len(runes) > maxLen {
		truncated := string(runes[:maxLen])
		if i := strings.LastIndex(truncated, " "); i >= 0 && utf8.RuneCountInString(truncated[:i]) > maxLen/2 {
			truncated = truncated[:i]
		}
		name = strings.Trim(truncated, " .")
	}

	if name == "" {
		return untitled
	}
	return name
}

var strftimeDirectives = strings.NewReplacer(
	"%%", "%",
	"%Y", "2006",
	"%y", "06",
	"%m", "01",
	"%d", "02",
	"%H", "15",
	"%M", "04",
	"%S", "05",
	"%b", "Jan",
	"%B", "January",
	"%a", "Mon",
	"%A", "Monday",
	"%j", "002",
)

// DateLayout converts a strftime-style format such as "%Y-%m-%d" to a
// time.Format layout. Unknown directives are copied unchanged.
func DateLayout(format string) string {
	return strftimeDirectives.Replace(format)
}
