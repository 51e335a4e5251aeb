package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/errutil"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/scheduler"
	"github.com/raoulx24/timewarp/internal/watcher"
	"github.com/raoulx24/timewarp/internal/worker"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run evictions on the configured cron schedule",
	Long: `Stays in the foreground and runs an eviction pass on every tick of
schedule.cron. Ticks that fire while a run is in progress are coalesced.
The config file is reloaded on change when configReload.enabled is set, and
on SIGHUP.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Bool("run-now", false, "Run once immediately at startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	path := viper.GetString("config")
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if cfg.Schedule.Cron == "" {
		return &config.ConfigError{Field: "schedule.cron", Reason: "is required in schedule mode"}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	mb := mailbox.New[worker.Job]()

	w, col, cleanup, err := newWorker(cfg, log.With("component", "worker"), mb)
	if err != nil {
		return err
	}
	defer cleanup()

	g, gctx := errgroup.WithContext(ctx)

	sched := scheduler.New(cfg.Schedule.Cron, mb, log.With("component", "scheduler"))
	if err := sched.Start(gctx); err != nil {
		return err
	}

	var watch *watcher.Watcher
	reload := func(newCfg *config.Config) {
		w.UpdateConfig(*newCfg)
		errutil.ReportError(log, sched.UpdateSchedule(newCfg.Schedule.Cron), "updating schedule")
		if watch != nil {
			watch.UpdateConfig(newCfg.ConfigReload)
		}
		log.Info("config applied", "mode", newCfg.Mode, "volume", newCfg.Volume, "threshold", newCfg.Threshold)
	}

	g.Go(func() error {
		w.Start(gctx)
		return nil
	})

	if cfg.ConfigReload.Enabled {
		watch = watcher.New(path, cfg.ConfigReload, log.With("component", "watcher"), reload).
			WithLoader(loadConfig)
		g.Go(func() error {
			return watch.Start(gctx)
		})
	}

	// Hot reload on SIGHUP
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-sigCh:
				newCfg, err := loadConfig(path)
				if err != nil {
					log.Error("config reload failed", "error", err)
					continue
				}
				reload(newCfg)
			}
		}
	})

	if col != nil && cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", col.Handler())
		srv := &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info("serving metrics", "addr", cfg.Metrics.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if runNow, _ := cmd.Flags().GetBool("run-now"); runNow {
		mb.Put(worker.Job{Reason: "startup", At: time.Now()})
	}

	if next := sched.NextRun(); next != nil {
		log.Info("schedule mode started", "schedule", cfg.Schedule.Cron, "next_run", next.Format(time.RFC3339))
	}

	err = g.Wait()
	log.Info("exit complete")
	return err
}
