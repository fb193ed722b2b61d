// cmd/aggregator/snapshot.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamzrod/status-aggregator/internal/status"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch every provider once and print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := a.buildAggregator()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			snap := agg.BuildSnapshot(ctx)
			return printSnapshot(cmd.OutOrStdout(), snap, a.v.GetString("format"))
		},
	}

	cmd.Flags().StringP("format", "o", "table", "output format: table or json")
	return cmd
}

func printSnapshot(w io.Writer, snap status.Snapshot, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)

	case "table", "":
		return printTable(w, snap)

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printTable(w io.Writer, snap status.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "PROVIDER\tCOLOR\tSTATUS\tISSUES")
	for _, id := range snap.ProviderIDs() {
		p := snap.Providers[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, p.Color, p.Label, issues(p))
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\ngenerated at %s\n", snap.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	return err
}

// issues lists non-operational records, or the fetch error.
func issues(p status.ProviderResult) string {
	if p.Failed() {
		return "fetch error: " + p.FetchError
	}

	var out []string
	for _, r := range p.Records {
		if r.Operational() {
			break // sorted: the rest are operational
		}
		if r.SeverityTag != "" {
			out = append(out, fmt.Sprintf("%s (%s)", r.Name, r.SeverityTag))
		} else {
			out = append(out, r.Name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}
