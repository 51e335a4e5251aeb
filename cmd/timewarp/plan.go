package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/eviction"
	"github.com/raoulx24/timewarp/internal/journal"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/worker"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which snapshots a run would keep and evict",
	Long: `Runs the selection as a dry run regardless of the configured mode and
prints every snapshot with its weight, priority key and decision. The journal
and history are not written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}
		cfg.Mode = string(config.ModeDryRun)
		cfg.Metrics = config.MetricsConfig{}
		cfg.History = config.HistoryConfig{}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := notifyContext(cmd.Context())
		defer stop()

		w, _, cleanup, err := newWorker(cfg, log, mailbox.New[worker.Job]())
		if err != nil {
			return err
		}
		defer cleanup()
		w.WithJournal(journal.Discard{})

		out, err := w.Run(ctx)
		if err != nil {
			return err
		}

		printPlan(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func printPlan(wr io.Writer, out *eviction.RunOutcome) {
	evicted := make(map[string]int, len(out.Decision.Evict))
	for i, s := range out.Decision.Evict {
		evicted[s.Name] = i + 1
	}

	tw := tabwriter.NewWriter(wr, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SNAPSHOT\tTIMESTAMP\tSIZE\tWEIGHT\tKEY\tDECISION")
	for _, r := range out.Decision.Ranked {
		decision := "retain"
		if n, ok := evicted[r.Name]; ok {
			decision = fmt.Sprintf("evict #%d", n)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4g\t%.6g\t%s\n",
			r.Name,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			humanize.IBytes(uint64(r.Size)),
			r.Weight,
			r.Key,
			decision)
	}
	if len(out.Decision.Ranked) == 0 {
		// under budget: nothing was ranked
		for _, s := range out.Decision.Retain {
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\tretain\n",
				s.Name,
				s.Timestamp.Format("2006-01-02 15:04:05"),
				humanize.IBytes(uint64(s.Size)))
		}
	}
	_ = tw.Flush()

	fmt.Fprintln(wr)
	printOutcome(wr, out)
}
