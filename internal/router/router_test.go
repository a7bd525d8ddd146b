package router_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/mdclip/internal/classifier"
	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// fakeCategories matches "@name" triggers against a fixed URL set.
type fakeCategories map[string][]string

func (f fakeCategories) Match(trigger, rawURL string) bool {
	for _, u := range f[trigger] {
		if u == rawURL {
			return true
		}
	}
	return false
}

func TestIsRegexPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    bool
	}{
		{"github.com", false},
		{"example.com/docs/", false},
		{"^https://", true},
		{`arxiv\.org`, true},
		{"youtube.com/watch?v=", true},
		{"a|b", true},
		{"docs.*", true},
		{"foo$", true},
		{"(group)", true},
		{"[abc]", true},
		{"x{2}", true},
		{"plain-text_with-dashes", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, router.IsRegexPattern(tt.pattern), tt.pattern)
	}
}

func TestRouter_MatchesPattern(t *testing.T) {
	t.Parallel()

	r := router.New(fakeCategories{"@news": {"https://n.example/1"}})

	tests := []struct {
		name    string
		url     string
		pattern string
		want    bool
	}{
		{"literal case insensitive", "https://GitHub.com/x", "github.com", true},
		{"literal miss", "https://gitlab.com/x", "github.com", false},
		{"regex", "https://www.youtube.com/watch?v=1", `youtube\.com/watch`, true},
		{"regex case insensitive", "HTTPS://EXAMPLE.COM", "^https://example", true},
		{"anchored regex miss", "http://example.com", "^https://", false},
		{"invalid regex falls back to literal", "https://x.com/a[b", "a[b", true},
		{"invalid regex literal miss", "https://x.com/ab", "a[b", false},
		{"category match", "https://n.example/1", "@news", true},
		{"category miss", "https://n.example/2", "@news", false},
		{"unknown category", "https://n.example/1", "@sport", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.MatchesPattern(tt.url, tt.pattern))
		})
	}
}

func TestRouter_MatchesPattern_NilCategories(t *testing.T) {
	t.Parallel()

	r := router.New(nil)
	assert.False(t, r.MatchesPattern("https://arxiv.org/abs/1", "@academic"))
}

func TestRouter_Resolve(t *testing.T) {
	t.Parallel()

	templates := []router.Template{
		{Name: "inbox"},
		{Name: "video", Triggers: []string{"youtube.com", "vimeo.com"}},
		{Name: "tube", Triggers: []string{`youtube\.com/watch`}},
		{Name: "default", Folder: "Clips/Default"},
	}
	r := router.New(nil)

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()
		got := r.Resolve("https://www.youtube.com/watch?v=1", templates)
		assert.Equal(t, "video", got.Name)
	})

	t.Run("later template matches", func(t *testing.T) {
		t.Parallel()
		got := r.Resolve("https://vimeo.com/1", templates)
		assert.Equal(t, "video", got.Name)
	})

	t.Run("falls back to configured default", func(t *testing.T) {
		t.Parallel()
		got := r.Resolve("https://example.com", templates)
		assert.Equal(t, "default", got.Name)
		assert.Equal(t, "Clips/Default", got.Folder)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		first := r.Resolve("https://www.youtube.com/watch?v=1", templates)
		second := r.Resolve("https://www.youtube.com/watch?v=1", templates)
		assert.Equal(t, first, second)
	})
}

func TestRouter_Resolve_SynthesizesDefault(t *testing.T) {
	t.Parallel()

	r := router.New(nil)

	got := r.Resolve("https://example.com", []router.Template{
		{Name: "video", Triggers: []string{"youtube.com"}},
	})
	assert.Equal(t, router.BareDefault(), got)
	assert.Equal(t, "default", got.Name)
	assert.Equal(t, router.DefaultFolder, got.Folder)
	assert.Equal(t, []string{router.DefaultTag}, got.Tags)
	assert.Empty(t, got.Triggers)

	assert.Equal(t, "default", r.Resolve("https://example.com", nil).Name)
}

func TestRouter_Resolve_DefaultWithTriggersStillMatches(t *testing.T) {
	t.Parallel()

	r := router.New(nil)
	templates := []router.Template{
		{Name: "default", Triggers: []string{"example.com"}},
		{Name: "other", Triggers: []string{"example"}},
	}

	assert.Equal(t, "default", r.Resolve("https://example.com/", templates).Name)
	assert.Equal(t, "default", r.Resolve("https://nothing.net/", templates).Name)
}

func TestRouter_Resolve_LastDefaultIsFallback(t *testing.T) {
	t.Parallel()

	r := router.New(nil)
	templates := []router.Template{
		{Name: "default", Folder: "First"},
		{Name: "video", Triggers: []string{"youtube.com"}},
		{Name: "default", Folder: "Second"},
	}

	assert.Equal(t, "Second", r.Resolve("https://nothing.net/", templates).Folder)
	assert.Equal(t, "video", r.Resolve("https://youtube.com/watch", templates).Name)
}

func TestRouter_Resolve_CategoryTrigger(t *testing.T) {
	t.Parallel()

	registry := classifier.NewRegistry(filterdata.NewEmbeddedStore(logger.NewNop()))
	r := router.New(registry)

	templates := []router.Template{
		{Name: "papers", Triggers: []string{"@academic"}},
		{Name: "default"},
	}

	assert.Equal(t, "papers", r.Resolve("https://arxiv.org/abs/1234.5678", templates).Name)
	assert.Equal(t, "default", r.Resolve("https://example.com/blog/post", templates).Name)
}

func TestRouter_ConcurrentResolve(t *testing.T) {
	t.Parallel()

	r := router.New(nil)
	templates := []router.Template{
		{Name: "regex", Triggers: []string{`^https://a\d+\.example`}},
		{Name: "default"},
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if got := r.Resolve("https://a1.example/x", templates); got.Name != "regex" {
					t.Errorf("Resolve = %q, want regex", got.Name)
					return
				}
			}
		}()
	}
	wg.Wait()
}
