package inputs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/mdclip/internal/inputs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"HTTP://example.com/path", true},
		{"  https://example.com  ", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"https:///path", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, inputs.IsValidURL(tt.in), tt.in)
	}
}

func TestDetectType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, inputs.TypeURL, inputs.DetectType("https://example.com"))
	assert.Equal(t, inputs.TypeURL, inputs.DetectType("not-a-file-or-url"))
	assert.Equal(t, inputs.TypeURL, inputs.DetectType(t.TempDir()))
	assert.Equal(t, inputs.TypeMarkdownFile, inputs.DetectType(writeFile(t, "links.MD", "")))
	assert.Equal(t, inputs.TypeBookmarksHTML, inputs.DetectType(writeFile(t, "bookmarks.html", "")))
	assert.Equal(t, inputs.TypeURLFile, inputs.DetectType(writeFile(t, "urls.txt", "")))
}

func TestParse_URL(t *testing.T) {
	t.Parallel()

	urls, err := inputs.Parse(" https://example.com/a ")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a"}, urls)

	urls, err = inputs.Parse("nonsense")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestParse_URLFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "urls.txt", `# reading list
https://a.com/1

  https://b.com/1
not a url
https://a.com/1
# https://ignored.com
`)

	urls, err := inputs.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1", "https://b.com/1"}, urls)
}

func TestParse_MarkdownFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "notes.md", `# Links

- [Paper](https://arxiv.org/abs/1234.5678) and [Docs](https://go.dev/doc/)
- [Relative](/local/path)

https://plain.example/page
`)

	urls, err := inputs.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://arxiv.org/abs/1234.5678",
		"https://go.dev/doc/",
		"https://plain.example/page",
	}, urls)
}

func TestParse_BookmarksHTML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bookmarks.html", `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
  <DT><H3>Folder</H3>
  <DL><p>
    <DT><A HREF="https://a.com/1" ADD_DATE="1">A</A>
    <DT><A HREF="javascript:void(0)">Bookmarklet</A>
  </DL><p>
  <DT><A HREF="https://b.com/1">B</A>
  <DT><A HREF="https://a.com/1">A again</A>
</DL><p>`)

	urls, err := inputs.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1", "https://b.com/1"}, urls)
}

func TestParse_Latin1File(t *testing.T) {
	t.Parallel()

	// "café" in ISO-8859-1 is not valid UTF-8.
	path := writeFile(t, "urls.txt", "# caf\xe9\nhttps://a.com/1\n")

	urls, err := inputs.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1"}, urls)
}

func TestParseAll_DedupesAcrossInputs(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "urls.txt", "https://a.com/1\nhttps://b.com/1\n")

	urls, err := inputs.ParseAll([]string{"https://b.com/1", path, "https://c.com/1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.com/1", "https://a.com/1", "https://c.com/1"}, urls)
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, inputs.Dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, inputs.Dedupe(nil))
}
