package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raoulx24/timewarp/internal/eviction"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/worker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one eviction pass against the volume",
	Long: `Scans the volume, selects snapshots to keep under the threshold and
evicts the rest. Nothing is removed unless mode is live.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}

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

		out, err := w.Run(ctx)
		if err != nil {
			return err
		}

		printOutcome(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func printOutcome(wr io.Writer, out *eviction.RunOutcome) {
	d := out.Decision
	fmt.Fprintf(wr, "run %s (%s)\n", out.RunID, out.Mode)
	fmt.Fprintf(wr, "  snapshots: %d (%s), budget %s\n",
		len(d.Retain)+len(d.Evict),
		humanize.IBytes(uint64(d.RetainedBytes()+d.EvictBytes())),
		humanize.IBytes(uint64(max(d.Threshold, 0))))
	fmt.Fprintf(wr, "  retained:  %d (%s)\n", len(d.Retain), humanize.IBytes(uint64(d.RetainedBytes())))

	switch {
	case out.Count(eviction.StatusWouldEvict) > 0:
		fmt.Fprintf(wr, "  would evict: %d (%s)\n", out.Count(eviction.StatusWouldEvict), humanize.IBytes(uint64(d.EvictBytes())))
	default:
		fmt.Fprintf(wr, "  evicted:   %d (%s freed)\n", out.Count(eviction.StatusRemoved), humanize.IBytes(uint64(out.BytesFreed)))
	}
	if n := out.Count(eviction.StatusFailed); n > 0 {
		fmt.Fprintf(wr, "  failed:    %d\n", n)
		for _, r := range out.Results {
			if r.Status == eviction.StatusFailed {
				fmt.Fprintf(wr, "    %s: %s\n", r.Snapshot.Name, r.Detail)
			}
		}
	}
	if n := out.Count(eviction.StatusSkipped); n > 0 {
		fmt.Fprintf(wr, "  skipped:   %d (interrupted)\n", n)
	}
}

// notifyContext cancels on SIGINT or SIGTERM. A run interrupted this way
// stops before its next removal.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
