// Package templates implements commands for inspecting configured templates.
package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
	"github.com/jonesrussell/north-cloud/mdclip/internal/router"
)

// maxTriggersShown limits the trigger column to a readable width.
const maxTriggersShown = 3

// TableRenderer renders templates as a table.
type TableRenderer struct {
	out io.Writer
}

// NewTableRenderer creates a TableRenderer writing to out.
func NewTableRenderer(out io.Writer) *TableRenderer {
	return &TableRenderer{out: out}
}

// RenderTable writes one row per template in configuration order.
func (r *TableRenderer) RenderTable(templates []router.Template) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Folder", "Triggers", "Tags"})
	for _, tpl := range templates {
		t.AppendRow(table.Row{
			tpl.Name,
			tpl.Folder,
			FormatTriggers(tpl.Triggers),
			strings.Join(tpl.Tags, ", "),
		})
	}

	t.Render()
}

// FormatTriggers joins the first few triggers and notes how many were left out.
func FormatTriggers(triggers []string) string {
	if len(triggers) <= maxTriggersShown {
		return strings.Join(triggers, ", ")
	}
	return fmt.Sprintf("%s (+%d more)",
		strings.Join(triggers[:maxTriggersShown], ", "),
		len(triggers)-maxTriggersShown,
	)
}

// NewListCommand creates the templates list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := common.NewCommandDeps(config.Overrides{})
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			if len(deps.Config.Templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates configured.")
				return nil
			}

			NewTableRenderer(cmd.OutOrStdout()).RenderTable(deps.Config.Templates)
			return nil
		},
	}
}

// Command creates the templates command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect configured templates",
	}
	cmd.AddCommand(NewListCommand())
	return cmd
}
