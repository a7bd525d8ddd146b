// Package cmd implements the mdclip command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/clip"
	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/cmd/filters"
	"github.com/jonesrussell/north-cloud/mdclip/cmd/initconfig"
	"github.com/jonesrussell/north-cloud/mdclip/cmd/route"
	"github.com/jonesrussell/north-cloud/mdclip/cmd/templates"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// rootCmd represents the root command for the mdclip CLI.
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdclip",
		Short: "Clip web pages to Markdown with YAML frontmatter",
		Long: `Clip web pages into an Obsidian vault as Markdown notes.

Templates are chosen per URL from configured triggers: plain prefixes,
regular expressions, or @category names backed by the built-in URL
classifiers. Requests to the same domain are spaced by rate_limit.delay.`,
		Example: `  mdclip init-config
  mdclip clip --dry-run bookmarks.html
  mdclip clip "https://github.com/kepano/defuddle"
  mdclip clip -o "Projects/Research" "https://example.com/article"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(
		&common.Globals.ConfigPath,
		"config",
		"",
		"config file (default is ~/.mdclip.yml)",
	)
	root.PersistentFlags().BoolVar(&common.Globals.Debug, "debug", false, "enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdclip version %s\n", Version)
		},
	})

	root.AddCommand(clip.Command())
	root.AddCommand(templates.Command())
	root.AddCommand(route.Command())
	root.AddCommand(filters.Command())
	root.AddCommand(initconfig.Command())

	return root
}

// Execute runs the root command.
func Execute() error {
	// Environment from .env is optional.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}
