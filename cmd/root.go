package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/peerstat/peerstat/internal/config"
	"github.com/peerstat/peerstat/internal/logging"
	"github.com/peerstat/peerstat/internal/metrics"
	"github.com/peerstat/peerstat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "peerstat",
	Short: "Track learner progress and class consensus",
	Long: "peerstat keeps a learner's answers to a question catalogue, imports class\n" +
		"exports from peers and reports answer distributions, consensus and badges.",
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// env is the per-invocation state built by setup.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	reg     *prometheus.Registry
	metrics *metrics.Recorder
}

var rt *env

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a peerstat.yaml config file")
	pf.String("db", "", "Path to SQLite database file (overrides PEERSTAT_DB env var)")
	pf.StringP("user", "u", "", "Learner whose progress document to use")
	pf.String("questions", "", "Path to the question catalogue JSON")
	pf.String("units", "", "Path to the unit metadata JSON")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.Bool("metrics", false, "Print engine counters to stderr on exit")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(consensusCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindings maps config keys to the root flags that override them.
var bindings = map[string]string{
	"db":                  "db",
	"user":                "user",
	"catalogue.questions": "questions",
	"catalogue.units":     "units",
	"log.level":           "log-level",
}

func setup(cmd *cobra.Command, args []string) error {
	v := viper.New()
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, file)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rt = &env{cfg: cfg, log: log, reg: reg, metrics: metrics.New(reg)}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if rt == nil {
		return nil
	}
	defer rt.log.Sync() //nolint:errcheck

	if show, _ := cmd.Flags().GetBool("metrics"); show {
		families, err := rt.reg.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveDBPath returns the database path using --db / config (highest
// priority), then PEERSTAT_DB env var, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := rt.cfg.DB; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

var errNoUser = errors.New("several learners are archived; choose one with --user")
