// Package route implements the command that shows which template a URL
// would be clipped with.
package route

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/internal/classifier"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// Explainer resolves URLs against the configured templates and reports the
// category scores behind each decision.
type Explainer struct {
	router    *router.Router
	registry  *classifier.Registry
	templates []router.Template
	out       io.Writer
}

// NewExplainer creates an Explainer.
func NewExplainer(
	rt *router.Router,
	registry *classifier.Registry,
	templates []router.Template,
	out io.Writer,
) *Explainer {
	return &Explainer{
		router:    rt,
		registry:  registry,
		templates: templates,
		out:       out,
	}
}

// RenderRoutes writes one row per URL with the template it resolves to and
// the categories it belongs to.
func (e *Explainer) RenderRoutes(urls []string) {
	t := table.NewWriter()
	t.SetOutputMirror(e.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"URL", "Template", "Folder", "Categories"})
	for _, u := range urls {
		tpl := e.router.Resolve(u, e.templates)
		t.AppendRow(table.Row{u, tpl.Name, tpl.Folder, e.matchingCategories(u)})
	}

	t.Render()
}

// RenderScores writes the score of every category for rawURL.
func (e *Explainer) RenderScores(rawURL string) {
	t := table.NewWriter()
	t.SetOutputMirror(e.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(rawURL)

	t.AppendHeader(table.Row{"Category", "Threshold", "Score", "Match", "Reason"})
	for _, name := range e.registry.Names() {
		c, _ := e.registry.Get(name)
		result := c.Match(rawURL)
		t.AppendRow(table.Row{name, c.Threshold(), result.Score, result.IsMatch, result.Reason})
	}

	t.Render()
}

func (e *Explainer) matchingCategories(rawURL string) string {
	var matched []string
	for _, name := range e.registry.Names() {
		c, _ := e.registry.Get(name)
		if result := c.Match(rawURL); result.IsMatch {
			matched = append(matched, fmt.Sprintf("%s (%d)", name, result.Score))
		}
	}
	if len(matched) == 0 {
		return "-"
	}
	return strings.Join(matched, ", ")
}

// Command creates the route command.
func Command() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "route URL...",
		Short: "Show which template each URL resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(config.Overrides{})
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			rt, registry := common.NewRouter(deps)
			explainer := NewExplainer(rt, registry, deps.Config.Templates, cmd.OutOrStdout())

			explainer.RenderRoutes(args)
			if explain {
				for _, u := range args {
					explainer.RenderScores(u)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "show the score of every category for each URL")

	return cmd
}
