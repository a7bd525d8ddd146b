package filterdata_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

func TestStore_LoadParsesBothFiles(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"papers/domains.yml": {Data: []byte("journals:\n  - Nature.com\n  - www.science.org\nnote: ignored\n")},
		"papers/paths.yml": {Data: []byte(`url_path_patterns:
  - /Abs/
query_parameters:
  - doi=
regex_patterns:
  doi_pattern: '10\.\d{4,9}/'
  broken: '(['
combined_patterns:
  - pattern: 'arxiv\.org/abs/'
    confidence: high
`)},
	}

	store := filterdata.NewStore(fsys, logger.NewNop())
	data := store.Load("papers")

	assert.Contains(t, data.Domains, "nature.com")
	assert.Contains(t, data.Domains, "science.org")
	assert.Len(t, data.Domains, 2)
	assert.Equal(t, []string{"/abs/"}, data.PathPatterns)
	assert.Equal(t, []string{"doi"}, data.QueryParams)
	assert.Contains(t, data.Regexes, "doi_pattern")
	assert.NotContains(t, data.Regexes, "broken")
	require.Len(t, data.CombinedPatterns, 1)
	assert.Equal(t, filterdata.ConfidenceHigh, data.CombinedPatterns[0].Confidence)
}

func TestStore_LoadIsMemoized(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"wiki/domains.yml": {Data: []byte("sites:\n  - wikipedia.org\n")},
	}

	store := filterdata.NewStore(fsys, nil)
	first := store.Load("wiki")

	// Changing the backing data must not affect an already loaded category.
	fsys["wiki/domains.yml"] = &fstest.MapFile{Data: []byte("sites:\n  - other.org\n")}
	second := store.Load("wiki")

	assert.Same(t, first, second)
	assert.True(t, second.HasDomain("en.wikipedia.org"))
}

func TestStore_MissingAndMalformedDegradeToEmpty(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"bad/domains.yml": {Data: []byte("domains: [unclosed")},
		"bad/paths.yml":   {Data: []byte("url_path_patterns:\n  - /ok/\n")},
	}

	store := filterdata.NewStore(fsys, logger.NewNop())

	missing := store.Load("nope")
	require.NotNil(t, missing)
	assert.Empty(t, missing.Domains)
	assert.Empty(t, missing.PathPatterns)

	bad := store.Load("bad")
	assert.Empty(t, bad.Domains)
	assert.True(t, bad.HasPath("/ok/page"))
}

func TestEmbeddedStore_ShipsBuiltinCategories(t *testing.T) {
	t.Parallel()

	store := filterdata.NewEmbeddedStore(logger.NewNop())

	names, err := store.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"academic", "docs", "edu", "gov", "longform", "news", "scitech", "social", "wiki",
	}, names)

	for _, name := range names {
		data := store.Load(name)
		assert.NotEmpty(t, data.Domains, "category %s has no domains", name)
	}

	academic := store.Load("academic")
	assert.Contains(t, academic.Regexes, "doi_pattern")
	gov := store.Load("gov")
	assert.Contains(t, gov.Regexes, "gov_tld")
	assert.Contains(t, gov.Regexes, "mil_tld")
	assert.Contains(t, store.Load("edu").Regexes, "edu_tld")
}
