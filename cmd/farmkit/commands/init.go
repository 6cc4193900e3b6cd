package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/farmkit/cmd/farmkit/handlers"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "farmkit.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a farmkit configuration",
		Long: `Interactively create a farmkit configuration file.

This command asks for the region, the tracking table, the retry
behavior and the optional audit bucket, then writes the result as
commented YAML. It requires an interactive terminal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "farmkit.yaml", "Output file path")

	return cmd
}
