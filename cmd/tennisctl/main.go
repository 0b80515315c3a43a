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

	"github.com/spf13/cobra"

	"github.com/Vodeneev/collegetennis/internal/collector/app"
	"github.com/Vodeneev/collegetennis/internal/collector/jobs"
	"github.com/Vodeneev/collegetennis/internal/collector/reconcile"
	"github.com/Vodeneev/collegetennis/internal/collector/syncer"
	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/logging"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tennisctl",
		Short:         "Run college tennis collection and reconciliation jobs by hand",
		SilenceUsage: true,
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if _, err := logging.SetupLogger(&cfg.Logging, "tennisctl"); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(
		newJobsCmd(),
		newSyncCmd(load),
		newTournamentCmd(load),
		newReconcileCmd(load),
	)
	return root
}

type loader func() (*config.Config, error)

func newJobsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List registered jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range jobs.AvailableNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newSyncCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [job]",
		Short: "Run one job once and print its summary",
		Long:  "Run one registered job (see 'tennisctl jobs') once, regardless of sync.enabled_jobs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(a *app.App) error {
				stats, err := a.Runner.Run(cmd.Context(), strings.ToLower(args[0]))
				return printSummary(cmd.OutOrStdout(), stats, err)
			})
		},
	}
}

func newTournamentCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "tournament [id]",
		Short: "Refresh registrations and draws of one tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(a *app.App) error {
				stats, err := a.Runner.RunOne(cmd.Context(), syncer.JobTournament, args[0])
				return printSummary(cmd.OutOrStdout(), stats, err)
			})
		},
	}
}

func newReconcileCmd(load loader) *cobra.Command {
	var commit bool
	cmd := &cobra.Command{
		Use:   "reconcile [job]",
		Short: "Run a reconciliation job; dry run unless --commit is given",
		Long:  "Run one of: " + strings.Join(reconcileNames(), ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, ok := reconcile.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown reconciliation job %q (available: %s)", args[0], strings.Join(reconcileNames(), ", "))
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := reconcile.Run(cmd.Context(), job, store, reconcile.Options{
				BatchSize: cfg.Reconcile.BatchSize,
				DryRun:    !commit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"job": job.Name(), "dry_run": !commit, "result": res})
		},
	}
	cmd.Flags().BoolVar(&commit, "commit", false, "Write changes instead of only counting them")
	return cmd
}

func reconcileNames() []string {
	var names []string
	for _, j := range reconcile.All() {
		names = append(names, j.Name())
	}
	return names
}

func withApp(load loader, fn func(a *app.App) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printSummary(w io.Writer, stats *performance.RunStats, runErr error) error {
	if stats == nil {
		return runErr
	}
	if err := printJSON(w, stats.Summary()); err != nil {
		return err
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
