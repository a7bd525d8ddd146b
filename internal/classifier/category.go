package classifier

import (
	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
)

// DefaultThreshold is the score a URL must reach to match a category that
// does not set its own threshold.
const DefaultThreshold = 70

// Category is a named rule set scored by a Classifier.
type Category struct {
	Name      string
	Threshold int
	Special   SpecialPatternCheck
}

// SpecialPatternCheck contributes a category-specific score for signals that
// do not fit the domain/path/query model, such as a DOI or a .gov TLD.
type SpecialPatternCheck interface {
	Check(rawURL string, data *filterdata.FilterData) int
}

// RegexCheck scores ScoreSpecial when any of the named regexes from the
// category data matches the full URL. Names are tried in order; names absent
// from the data are ignored.
type RegexCheck []string

// Check implements SpecialPatternCheck.
func (r RegexCheck) Check(rawURL string, data *filterdata.FilterData) int {
	for _, name := range r {
		re, ok := data.Regexes[name]
		if ok && re.MatchString(rawURL) {
			return ScoreSpecial
		}
	}
	return 0
}

// NoSpecial is the check for categories without special patterns.
type NoSpecial struct{}

// Check implements SpecialPatternCheck.
func (NoSpecial) Check(string, *filterdata.FilterData) int { return 0 }

// specialChecks selects the special-pattern variant by category name.
var specialChecks = map[string]SpecialPatternCheck{
	"academic": RegexCheck{"doi_pattern"},
	"gov":      RegexCheck{"gov_tld", "mil_tld"},
	"edu":      RegexCheck{"edu_tld"},
}

// SpecialCheckFor returns the special-pattern check registered for name.
func SpecialCheckFor(name string) SpecialPatternCheck {
	if check, ok := specialChecks[name]; ok {
		return check
	}
	return NoSpecial{}
}

// trustedDomainThreshold is used by categories whose domain lists are curated
// tightly enough to match on the domain alone.
const trustedDomainThreshold = 50

// BuiltinCategories returns the categories shipped with the embedded data.
func BuiltinCategories() []Category {
	thresholds := []struct {
		name      string
		threshold int
	}{
		{"academic", DefaultThreshold},
		{"docs", DefaultThreshold},
		{"edu", trustedDomainThreshold},
		{"gov", trustedDomainThreshold},
		{"longform", trustedDomainThreshold},
		{"news", trustedDomainThreshold},
		{"scitech", trustedDomainThreshold},
		{"social", trustedDomainThreshold},
		{"wiki", trustedDomainThreshold},
	}

	categories := make([]Category, 0, len(thresholds))
	for _, t := range thresholds {
		categories = append(categories, Category{
			Name:      t.name,
			Threshold: t.threshold,
			Special:   SpecialCheckFor(t.name),
		})
	}
	return categories
}
