package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Vodeneev/collegetennis/internal/collector/app"
	"github.com/Vodeneev/collegetennis/internal/collector/jobutil"
	pkgconfig "github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/health"
	"github.com/Vodeneev/collegetennis/internal/pkg/logging"
	"github.com/Vodeneev/collegetennis/internal/pkg/performance"
)

const (
	defaultConfigPath = "configs/production.yaml"
)

type config struct {
	configPath string
	runFor     time.Duration
	once       bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Collector failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting collector...")

	cfg := parseFlags()
	slog.Info("Loading config", "path", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := logging.SetupLogger(&appConfig.Logging, "collector"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	} else {
		slog.Info("Logging initialized", "service", "collector")
	}

	a, err := app.New(appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()
	slog.Info("Using jobs", "jobs", strings.Join(a.Runner.Names(), ", "))

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	if cfg.once {
		return runOnce(ctx, a)
	}

	healthAddr, err := health.AddrFor(appConfig.Health.Port)
	if err != nil {
		return fmt.Errorf("health.port: %w", err)
	}
	if err := health.Run(ctx, healthAddr, a.Runner, appConfig.Health.ReadHeaderTimeout, appConfig.Health.TriggerTimeout); err != nil {
		return err
	}

	scheduler, err := newScheduler(a, appConfig)
	if err != nil {
		return err
	}
	scheduler.Start()
	slog.Info("Scheduler started", "entries", len(scheduler.Entries()), "time_zone", appConfig.Schedule.TimeZone)

	if appConfig.Schedule.RunOnStart {
		a.Runner.RunAll(ctx, a.Runner.Names(), jobutil.RunOptions{OnError: logJobError})
	}

	<-ctx.Done()
	slog.Info("Stopping scheduler...")
	<-scheduler.Stop().Done()
	performance.GetTracker().PrintSummary()
	slog.Info("Collector stopped gracefully")
	return nil
}

func parseFlags() config {
	var cfg config

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.BoolVar(&cfg.once, "once", false, "Run every enabled job once and exit")
	flag.Parse()
	return cfg
}

// newScheduler adds one cron entry per schedule.jobs item. Jobs that are not enabled are rejected.
func newScheduler(a *app.App, cfg *pkgconfig.Config) (*cron.Cron, error) {
	loc := time.UTC
	if tz := cfg.Schedule.TimeZone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: schedule.time_zone: %v", pkgconfig.ErrInvalid, err)
		}
		loc = l
	}

	c := cron.New(cron.WithLocation(loc))
	names := make([]string, 0, len(cfg.Schedule.Jobs))
	for name := range cfg.Schedule.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := cfg.Schedule.Jobs[name]
		if _, ok := a.Runner.Job(name); !ok {
			return nil, fmt.Errorf("%w: schedule.jobs: job %q is not enabled", pkgconfig.ErrInvalid, name)
		}
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := jobutil.RunContext(context.Background(), cfg.Health.TriggerTimeout)
			defer cancel()
			if _, err := a.Runner.Run(ctx, name); err != nil {
				logJobError(name, err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("%w: schedule.jobs.%s %q: %v", pkgconfig.ErrInvalid, name, spec, err)
		}
		slog.Info("Scheduled job", "job", name, "spec", spec)
	}
	return c, nil
}

func runOnce(ctx context.Context, a *app.App) error {
	var (
		mu     sync.Mutex
		failed []string
	)
	a.Runner.RunAll(ctx, a.Runner.Names(), jobutil.RunOptions{
		WaitForCompletion: true,
		OnError: func(name string, err error) {
			logJobError(name, err)
			mu.Lock()
			failed = append(failed, name)
			mu.Unlock()
		},
	})
	performance.GetTracker().PrintSummary()
	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("jobs failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func logJobError(name string, err error) {
	slog.Error("Job failed", "job", name, "error", err)
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping collector...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
}
