package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/imamik/farmkit/cmd/farmkit/handlers"
)

// Handle returns the command that processes one lifecycle event.
//
// Flags:
//
//	--config, -c: Path to the configuration file (default "farmkit.yaml")
//	--event, -e: Path to the event JSON; "-" reads stdin (default "-")
//	--no-respond: Skip the HTTP callback to the event's ResponseURL
func Handle() *cobra.Command {
	var (
		configPath string
		eventPath  string
		noRespond  bool
	)

	cmd := &cobra.Command{
		Use:   "handle",
		Short: "Process one resource lifecycle event",
		Long: `Process one resource lifecycle event.

The event is a JSON document in the shape the orchestration layer
delivers: a RequestType of Create, Update or Delete, the resource
properties, and a presigned ResponseURL. farmkit dispatches the event
to the matching handler, reports the terminal result to the
ResponseURL, and prints the response JSON to stdout.

The command exits non-zero when the lifecycle operation failed, even
though the failure was already reported to the ResponseURL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Handle(cmd.Context(), handlers.HandleOptions{
				ConfigPath: configPath,
				EventPath:  eventPath,
				NoRespond:  noRespond,
				Out:        os.Stdout,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "farmkit.yaml", "Configuration file path")
	cmd.Flags().StringVarP(&eventPath, "event", "e", "-", "Event JSON path, - for stdin")
	cmd.Flags().BoolVar(&noRespond, "no-respond", false, "Skip the ResponseURL callback")

	return cmd
}
