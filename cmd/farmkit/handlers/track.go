package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/imamik/farmkit/internal/config"
)

// Track prints the tracked sub-resources of one physical resource id.
func Track(ctx context.Context, configPath, physicalID string, out io.Writer) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	c, err := buildClients(ctx, cfg, log)
	if err != nil {
		return err
	}

	rows, err := c.store.Query(ctx, physicalID, 0)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintf(out, "no tracked resources for %s\n", physicalID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SORT KEY\tATTRIBUTES")
	for _, row := range rows {
		keys := make([]string, 0, len(row.Attributes))
		for k := range row.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		attrs := ""
		for i, k := range keys {
			if i > 0 {
				attrs += " "
			}
			attrs += k + "=" + row.Attributes[k]
		}
		fmt.Fprintf(w, "%s\t%s\n", row.SortKey, attrs)
	}
	return w.Flush()
}
