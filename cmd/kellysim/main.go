package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/kellysim/config"
	"github.com/alejandrodnm/kellysim/internal/adapters/notify"
	"github.com/alejandrodnm/kellysim/internal/adapters/storage"
	"github.com/alejandrodnm/kellysim/internal/application/engine"
	"github.com/alejandrodnm/kellysim/internal/ports"
	"github.com/alejandrodnm/kellysim/internal/simulation"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	paths := flag.Int("paths", 0, "Monte Carlo paths per strategy (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed for a reproducible run (overrides config)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	metrics := flag.Bool("metrics", false, "print the averaged metric bundle per strategy")
	noStore := flag.Bool("no-store", false, "do not persist the run")
	last := flag.Bool("last", false, "print the last stored run and exit")
	history := flag.Int("history", 0, "list the N most recent stored runs and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *paths > 0 {
		cfg.Run.Paths = *paths
	}
	if flagSet("seed") {
		cfg.Simulation.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	strategies, err := cfg.StrategyList()
	if err != nil {
		slog.Error("invalid strategies", "err", err)
		os.Exit(1)
	}

	slog.Info("kellysim starting",
		"config", *configPath,
		"strategies", len(strategies),
		"paths", cfg.Run.Paths,
		"rounds", cfg.Simulation.Rounds,
		"workers", cfg.Run.Workers,
		"store", !*noStore,
	)

	var store ports.RunStore
	if !*noStore {
		sqlStore, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	notifier := notify.NewConsole()

	pauser := &simulation.Pauser{}
	sim := simulation.New(simulation.Options{
		BatchSize: cfg.Run.BatchSize,
		Workers:   cfg.Run.Workers,
		Pauser:    pauser,
	})
	e := engine.New(sim, store, notifier, engine.Config{
		KeepPaths:      cfg.Storage.KeepPaths,
		MetricsWorkers: cfg.Run.Workers,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *history > 0:
		runHistory(ctx, e, notifier, *history)
		return
	case *last:
		runLast(ctx, e, notifier, *metrics)
		return
	}

	go togglePauseOnSignal(ctx, pauser)

	run, err := e.Run(ctx, engine.Request{
		Config:     cfg.BaseConfig(),
		Strategies: strategies,
		Paths:      cfg.Run.Paths,
	})
	if errors.Is(err, context.Canceled) {
		slog.Info("run cancelled, nothing stored")
		return
	}
	if err != nil {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	if *metrics {
		printMetrics(ctx, e, notifier, *run)
	}

	slog.Info("kellysim stopped cleanly")
}

// flagSet indica si el flag se pasó explícitamente en la línea de comandos.
func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
