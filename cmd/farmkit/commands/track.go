package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/farmkit/cmd/farmkit/handlers"
)

// Track returns the command that inspects the tracking table.
//
// Flags:
//
//	--config, -c: Path to the configuration file (default "farmkit.yaml")
func Track() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "track <physical-id>",
		Short: "Show the tracked sub-resources of a physical resource id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Track(cmd.Context(), configPath, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "farmkit.yaml", "Configuration file path")

	return cmd
}
