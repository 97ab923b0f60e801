package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/kellysim/internal/adapters/notify"
	"github.com/alejandrodnm/kellysim/internal/application/engine"
	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/alejandrodnm/kellysim/internal/ports"
	"github.com/alejandrodnm/kellysim/internal/simulation"
)

// printMetrics calcula el bundle promedio de cada estrategia y lo imprime en una tabla.
// Las estrategias sin paths (runs restaurados sin keep_paths) se omiten.
func printMetrics(ctx context.Context, e *engine.Engine, notifier *notify.Console, run domain.RunResult) {
	var (
		labels  []string
		bundles []domain.MetricSeries
	)
	for _, s := range run.Summaries {
		if len(s.Paths) == 0 {
			slog.Debug("no paths for metrics", "strategy", s.Strategy.Label())
			continue
		}
		ms, err := e.Metrics(ctx, s, run.Config.InitialWealth)
		if err != nil {
			slog.Warn("metrics failed", "err", err, "strategy", s.Strategy.Label())
			return
		}
		labels = append(labels, s.Strategy.Label())
		bundles = append(bundles, ms)
	}
	if len(bundles) == 0 {
		slog.Warn("no path histories available for metrics (set storage.keep_paths)")
		return
	}
	notifier.PrintMetrics(labels, bundles)
}

func runLast(ctx context.Context, e *engine.Engine, notifier *notify.Console, metrics bool) {
	run, err := e.Last(ctx)
	if errors.Is(err, ports.ErrNoRuns) {
		slog.Warn("no stored runs yet")
		return
	}
	if err != nil {
		slog.Error("failed to load last run", "err", err)
		os.Exit(1)
	}

	if err := notifier.Notify(ctx, run); err != nil {
		slog.Warn("notifier error", "err", err)
	}
	if metrics {
		printMetrics(ctx, e, notifier, run)
	}
}

func runHistory(ctx context.Context, e *engine.Engine, notifier *notify.Console, limit int) {
	runs, err := e.History(ctx, limit)
	if err != nil {
		slog.Error("failed to list runs", "err", err)
		os.Exit(1)
	}
	notifier.PrintRuns(runs)
}

// togglePauseOnSignal pausa o reanuda la simulación con cada SIGUSR1.
func togglePauseOnSignal(ctx context.Context, p *simulation.Pauser) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	defer signal.Stop(sigs)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			if p.Paused() {
				p.Resume()
				slog.Info("simulation resumed")
			} else {
				p.Pause()
				slog.Info("simulation paused (send SIGUSR1 again to resume)")
			}
		}
	}
}
