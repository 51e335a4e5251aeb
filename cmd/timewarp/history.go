package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/timewarp/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past runs, or the evictions of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("db")
		if path == "" {
			cfg, err := readConfig(viper.GetString("config"))
			if err != nil {
				return err
			}
			path = cfg.History.Path
		}
		if path == "" {
			return fmt.Errorf("no history database: set history.path or --db")
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer tw.Flush()

		if len(args) == 1 {
			evs, err := store.Evictions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "SNAPSHOT\tSIZE\tSTATUS\tDETAIL")
			for _, e := range evs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Snapshot, humanize.IBytes(uint64(e.Size)), e.Status, e.Detail)
			}
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "RUN\tSTARTED\tMODE\tSNAPSHOTS\tBUDGET\tEVICTED\tFAILED\tFREED\tDURATION")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%d\t%s\t%s\n",
				r.ID,
				humanize.Time(r.StartedAt),
				r.Mode,
				r.Snapshots,
				humanize.IBytes(uint64(max(r.Threshold, 0))),
				r.Evicted,
				r.Failed,
				humanize.IBytes(uint64(r.BytesFreed)),
				r.Duration.Round(time.Millisecond))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Number of runs to list")
	historyCmd.Flags().String("db", "", "History database (overrides history.path)")
}
