// Package initconfig implements the command that writes the default config file.
package initconfig

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/mdclip/cmd/common"
	"github.com/jonesrussell/north-cloud/mdclip/internal/config"
)

// Command creates the init-config command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config file",
		Long: `Write the default config file to ~/.mdclip.yml, or to the path given
with --config. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.InitConfig(common.Globals.ConfigPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created config file: %s\n", path)
			fmt.Fprintln(out, "Edit this file to customize vault path and templates.")
			return nil
		},
	}
}
