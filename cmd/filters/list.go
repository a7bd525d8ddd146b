// Package filters implements commands for inspecting URL categories.
package filters

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/internal/classifier"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
)

// TableRenderer renders the category registry as a table.
type TableRenderer struct {
	out io.Writer
}

// NewTableRenderer creates a TableRenderer writing to out.
func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// RenderTable writes one row per category with its threshold and data sizes.
func (r *TableRenderer) RenderTable(registry *classifier.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{
		"Trigger", "Threshold", "Domains", "Paths", "Query Params", "Regexes", "Combined",
	})
	for _, name := range registry.Names() {
		c, _ := registry.Get(name)
		data := c.Data()
		t.AppendRow(table.Row{
			classifier.TriggerPrefix + name,
			c.Threshold(),
			len(data.Domains),
			len(data.PathPatterns),
			len(data.QueryParams),
			len(data.Regexes),
			len(data.CombinedPatterns),
		})
	}

	t.Render()
}

// NewListCommand creates the filters list command.
func NewListCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List URL categories usable as @triggers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(config.Overrides{DataDir: dataDir})
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			store := common.NewFilterStore(deps.Config, deps.Logger)
			registry := common.NewRegistry(deps.Config, store, deps.Logger)
			NewTableRenderer(cmd.OutOrStdout()).RenderTable(registry)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "read category data from this directory instead of filters.data_dir")

	return cmd
}

// Command creates the filters command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Inspect URL categories",
	}
	cmd.AddCommand(NewListCommand())
	return cmd
}
