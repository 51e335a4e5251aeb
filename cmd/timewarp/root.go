package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "timewarp",
	Short: "Weighted-random eviction of backup snapshots",
	Long: `timewarp keeps a backup volume under a byte budget by evicting snapshots
chosen with weighted random sampling. Runs are dry runs unless mode is live.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on fatal errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SilenceErrors = true

	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "timewarp.yaml", "Path to the YAML config file")
	pf.String("mode", "", "Run mode: safe, dry-run or live (overrides config)")
	pf.String("volume", "", "Snapshot volume root (overrides config)")
	pf.String("threshold", "", "Byte budget, e.g. 500GB (overrides config)")
	pf.String("log", "", "Journal file, - for stdout (overrides config)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Uint64("seed", 0, "Seed the random source for a reproducible selection")

	for _, name := range []string{"config", "mode", "volume", "threshold", "log", "log-level", "log-format", "seed"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	viper.SetEnvPrefix("TIMEWARP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
