// Package classifier scores URLs against named categories of domain, path,
// query-parameter and regex signals.
package classifier

import (
	"net/url"
	"strings"

	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
)

// Signal weights shared by every category.
const (
	ScoreCombinedHigh  = 100
	ScoreDomainAndPath = 90
	ScoreSpecial       = 80
	ScoreDomain        = 50
	ScorePath          = 40
	ScoreQueryParam    = 30
)

// Reasons reported in MatchResult.
const (
	reasonHighConfidence = "high-confidence pattern"
	reasonNoSignals      = "no signals"
	reasonInvalidURL     = "invalid url"
)

// MatchResult is the outcome of scoring one URL. Reason is diagnostic only.
type MatchResult struct {
	IsMatch bool
	Score   int
	Reason  string
}

// DataSource supplies category data on demand.
type DataSource interface {
	Load(category string) *filterdata.FilterData
}

// Classifier scores URLs for a single category.
type Classifier struct {
	category Category
	source   DataSource
}

// New creates a Classifier. A zero threshold falls back to DefaultThreshold
// and a nil special check to NoSpecial.
func New(category Category, source DataSource) *Classifier {
	if category.Threshold <= 0 {
		category.Threshold = DefaultThreshold
	}
	if category.Special == nil {
		category.Special = NoSpecial{}
	}
	return &Classifier{category: category, source: source}
}

// Name returns the category name.
func (c *Classifier) Name() string { return c.category.Name }

// Threshold returns the score needed for a match.
func (c *Classifier) Threshold() int { return c.category.Threshold }

// Data returns the category's filter data, loading it on first use.
func (c *Classifier) Data() *filterdata.FilterData {
	return c.source.Load(c.category.Name)
}

// Match scores rawURL. A high-confidence combined pattern accepts the URL
// outright. Otherwise the special-pattern score and the domain/path score are
// combined with max, and a query-parameter hit adds a fixed bonus on top.
func (c *Classifier) Match(rawURL string) MatchResult {
	data := c.Data()

	if data.HasHighConfidence(rawURL) {
		return MatchResult{IsMatch: true, Score: ScoreCombinedHigh, Reason: reasonHighConfidence}
	}

	u, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return MatchResult{Reason: reasonInvalidURL}
	}

	score := 0
	var reasons []string

	if special := c.category.Special.Check(rawURL, data); special > 0 {
		score += special
		reasons = append(reasons, "special pattern")
	}

	domainMatch := data.HasDomain(u.Hostname())
	pathMatch := data.HasPath(u.Path)

	switch {
	case domainMatch && pathMatch:
		score = max(score, ScoreDomainAndPath)
		reasons = append(reasons, "domain", "path")
	case domainMatch:
		score = max(score, ScoreDomain)
		reasons = append(reasons, "domain")
	case pathMatch:
		score = max(score, ScorePath)
		reasons = append(reasons, "path")
	}

	if data.HasQueryParam(u.RawQuery) {
		score += ScoreQueryParam
		reasons = append(reasons, "query param")
	}

	reason := reasonNoSignals
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return MatchResult{
		IsMatch: score >= c.category.Threshold,
		Score:   score,
		Reason:  reason,
	}
}

// Matches reports whether rawURL matches the category.
func (c *Classifier) Matches(rawURL string) bool {
	return c.Match(rawURL).IsMatch
}
