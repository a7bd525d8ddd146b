// Package inputs turns command-line arguments into a list of URLs. An
// argument may be a URL, a text file with one URL per line, a markdown file
// with links, or a browser bookmarks export.
package inputs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/charmap"
)

// Type classifies an input argument.
type Type int

// Input types.
const (
	TypeURL Type = iota
	TypeURLFile
	TypeMarkdownFile
	TypeBookmarksHTML
)

func (t Type) String() string {
	switch t {
	case TypeURL:
		return "url"
	case TypeURLFile:
		return "url-file"
	case TypeMarkdownFile:
		return "markdown"
	case TypeBookmarksHTML:
		return "bookmarks"
	default:
		return "unknown"
	}
}

var (
	schemePrefix = regexp.MustCompile(`(?i)^https?://`)
	hostAfter    = regexp.MustCompile(`(?i)^https?://[^\s/]+`)
	markdownLink = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^\s)]+)\)`)
)

// IsValidURL reports whether s is an http or https URL with a host.
func IsValidURL(s string) bool {
	s = strings.TrimSpace(s)
	return schemePrefix.MatchString(s) && hostAfter.MatchString(s)
}

// DetectType decides how input is read. Anything that is neither an http(s)
// URL nor an existing file is treated as a URL and later rejected if invalid.
func DetectType(input string) Type {
	input = strings.TrimSpace(input)
	if schemePrefix.MatchString(input) {
		return TypeURL
	}

	info, err := os.Stat(expandHome(input))
	if err != nil || info.IsDir() {
		return TypeURL
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".html", ".htm":
		return TypeBookmarksHTML
	case ".md":
		return TypeMarkdownFile
	default:
		return TypeURLFile
	}
}

// Parse returns the valid URLs named by input, deduplicated in order of
// first appearance.
func Parse(input string) ([]string, error) {
	switch DetectType(input) {
	case TypeURL:
		u := strings.TrimSpace(input)
		if IsValidURL(u) {
			return []string{u}, nil
		}
		return nil, nil
	case TypeBookmarksHTML:
		content, err := readText(input)
		if err != nil {
			return nil, err
		}
		return ParseBookmarksHTML(content)
	default:
		content, err := readText(input)
		if err != nil {
			return nil, err
		}
		return ParseText(content), nil
	}
}

// ParseAll parses every input and deduplicates across them.
func ParseAll(inputs []string) ([]string, error) {
	var urls []string
	for _, in := range inputs {
		parsed, err := Parse(in)
		if err != nil {
			return nil, err
		}
		urls = append(urls, parsed...)
	}
	return Dedupe(urls), nil
}

// ParseText collects markdown link targets followed by lines that are bare
// URLs. Blank lines and lines starting with '#' are ignored.
func ParseText(text string) []string {
	var urls []string

	for _, m := range markdownLink.FindAllStringSubmatch(text, -1) {
		urls = append(urls, m[2])
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if IsValidURL(line) {
			urls = append(urls, line)
		}
	}

	return Dedupe(urls)
}

// ParseBookmarksHTML extracts every http(s) link from a bookmarks export.
// Folder structure is ignored.
func ParseBookmarksHTML(content string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse bookmarks: %w", err)
	}

	var urls []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if IsValidURL(href) {
			urls = append(urls, strings.TrimSpace(href))
		}
	})

	return Dedupe(urls), nil
}

// Dedupe removes repeated URLs, keeping the first occurrence.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// readText reads a file as UTF-8, decoding it as Latin-1 when it is not
// valid UTF-8.
func readText(path string) (string, error) {
	raw, err := os.ReadFile(expandHome(strings.TrimSpace(path)))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode input %s: %w", path, err)
	}
	return string(bytes.ToValidUTF8(decoded, nil)), nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
