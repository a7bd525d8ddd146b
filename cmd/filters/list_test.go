package filters_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/filters"
	"github.com/jonesrussell/north-cloud/mdclip/internal/classifier"
	"github.com/jonesrussell/north-cloud/mdclip/internal/filterdata"
	"github.com/jonesrussell/north-cloud/mdclip/internal/logger"
)

func TestTableRenderer_RenderTable(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"recipes/domains.yml": {Data: []byte("domains:\n  - cooking.example\n  - bake.example\n")},
	}
	registry := classifier.NewRegistry(
		filterdata.NewStore(fsys, logger.NewNop()),
		classifier.WithCategories(classifier.Category{Name: "recipes", Threshold: 50}),
	)

	var out bytes.Buffer
	filters.NewTableRenderer(&out).RenderTable(registry)

	rendered := out.String()
	assert.Contains(t, rendered, "@recipes")
	assert.Contains(t, rendered, "50")
	assert.Contains(t, rendered, "2")
	assert.NotContains(t, rendered, "@academic")
}
