// Package filterdata loads the per-category URL signal data (domains, path
// fragments, query parameters and regular expressions) consumed by the
// classifier. Data is parsed once per category and shared read-only.
package filterdata

import (
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Confidence labels attached to combined patterns. Only ConfidenceHigh changes
// classification behaviour.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CombinedPattern is a compiled pattern tagged with a confidence label.
type CombinedPattern struct {
	Pattern    *regexp.Regexp
	Confidence string
}

// FilterData holds the loaded signals for one category. It is immutable once
// built and safe for concurrent use.
type FilterData struct {
	Domains          map[string]struct{}
	PathPatterns     []string
	QueryParams      []string
	Regexes          map[string]*regexp.Regexp
	CombinedPatterns []CombinedPattern

	pathMatcher  *ahocorasick.Matcher
	pathMatchAll bool
}

// Raw is the uncompiled form of a category's data, as read from YAML or
// built in code.
type Raw struct {
	Domains          []string
	PathPatterns     []string
	QueryParams      []string
	RegexPatterns    map[string]string
	CombinedPatterns []RawCombined
}

// RawCombined is an uncompiled combined pattern.
type RawCombined struct {
	Pattern    string `yaml:"pattern"`
	Confidence string `yaml:"confidence"`
}

// Compile builds FilterData from raw values. Patterns that fail to compile are
// omitted; the returned slice names them so callers can log the omission.
func Compile(raw Raw) (*FilterData, []string) {
	data := &FilterData{
		Domains: make(map[string]struct{}, len(raw.Domains)),
		Regexes: make(map[string]*regexp.Regexp, len(raw.RegexPatterns)),
	}
	var rejected []string

	for _, d := range raw.Domains {
		if normalized := NormalizeDomain(d); normalized != "" {
			data.Domains[normalized] = struct{}{}
		}
	}

	for _, p := range raw.PathPatterns {
		data.PathPatterns = append(data.PathPatterns, strings.ToLower(p))
	}

	for _, q := range raw.QueryParams {
		name := strings.ToLower(strings.TrimSpace(strings.TrimRight(q, "=")))
		if name != "" {
			data.QueryParams = append(data.QueryParams, name)
		}
	}

	for name, pattern := range raw.RegexPatterns {
		re, err := compileInsensitive(pattern)
		if err != nil {
			rejected = append(rejected, name)
			continue
		}
		data.Regexes[name] = re
	}

	for _, c := range raw.CombinedPatterns {
		re, err := compileInsensitive(c.Pattern)
		if err != nil {
			rejected = append(rejected, c.Pattern)
			continue
		}
		confidence := strings.ToLower(strings.TrimSpace(c.Confidence))
		if confidence == "" {
			confidence = ConfidenceMedium
		}
		data.CombinedPatterns = append(data.CombinedPatterns, CombinedPattern{
			Pattern:    re,
			Confidence: confidence,
		})
	}

	data.buildPathMatcher()

	return data, rejected
}

// Empty returns FilterData with no signals.
func Empty() *FilterData {
	data, _ := Compile(Raw{})
	return data
}

func compileInsensitive(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// buildPathMatcher constructs the Aho-Corasick automaton over the path
// patterns. An empty pattern is a substring of every path.
func (d *FilterData) buildPathMatcher() {
	keywords := make([]string, 0, len(d.PathPatterns))
	for _, p := range d.PathPatterns {
		if p == "" {
			d.pathMatchAll = true
			continue
		}
		keywords = append(keywords, p)
	}
	if len(keywords) > 0 {
		d.pathMatcher = ahocorasick.NewStringMatcher(keywords)
	}
}

// HasDomain reports whether host equals a known domain or is a subdomain of
// one. Both sides are compared without a leading "www.".
func (d *FilterData) HasDomain(host string) bool {
	host = NormalizeDomain(host)
	if host == "" {
		return false
	}
	if _, ok := d.Domains[host]; ok {
		return true
	}
	// Walk parent domains: a.b.example.com -> b.example.com -> example.com.
	for i := strings.IndexByte(host, '.'); i >= 0; i = strings.IndexByte(host, '.') {
		host = host[i+1:]
		if _, ok := d.Domains[host]; ok {
			return true
		}
	}
	return false
}

// HasPath reports whether any configured path pattern is a substring of the
// lowercased path.
func (d *FilterData) HasPath(path string) bool {
	if d.pathMatchAll {
		return true
	}
	if d.pathMatcher == nil {
		return false
	}
	return len(d.pathMatcher.MatchThreadSafe([]byte(strings.ToLower(path)))) > 0
}

// HasQueryParam reports whether "name=" for any configured parameter occurs in
// the raw query string, case-insensitively.
func (d *FilterData) HasQueryParam(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, name := range d.QueryParams {
		if strings.Contains(query, name+"=") {
			return true
		}
	}
	return false
}

// HasHighConfidence reports whether any high-confidence combined pattern is
// found in rawURL. Lower-confidence patterns never mask a later high one.
func (d *FilterData) HasHighConfidence(rawURL string) bool {
	for _, c := range d.CombinedPatterns {
		if c.Confidence == ConfidenceHigh && c.Pattern.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// NormalizeDomain lowercases a hostname or domain entry and strips one
// leading "www.". Ports are not handled here; pass url.URL.Hostname().
func NormalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
