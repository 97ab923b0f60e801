package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/kellysim/internal/analytics"
	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/alejandrodnm/kellysim/internal/ports"
	"github.com/alejandrodnm/kellysim/internal/simulation"
	"github.com/google/uuid"
)

// ErrNoStrategies se devuelve cuando la request no trae ninguna estrategia.
var ErrNoStrategies = errors.New("no strategies to simulate")

// Simulator es la interfaz mínima que el Engine necesita del orquestador Monte Carlo.
// *simulation.MonteCarlo la implementa; los tests usan un fake.
type Simulator interface {
	Run(ctx context.Context, strategies []domain.Strategy, cfg domain.BaseConfig, paths int) (simulation.Output, error)
}

// Config contiene los ajustes propios del engine.
type Config struct {
	KeepPaths      bool // guardar las historias completas de cada path con el run
	MetricsWorkers int
}

// Request describe una ejecución Monte Carlo.
type Request struct {
	Config     domain.BaseConfig
	Strategies []domain.Strategy
	Paths      int
}

// Engine ejecuta la simulación, resume cada estrategia y entrega el resultado a storage y notifier.
type Engine struct {
	sim      Simulator
	store    ports.RunStore
	notifier ports.Notifier
	cfg      Config
}

// New crea el engine. store y notifier pueden ser nil.
func New(sim Simulator, store ports.RunStore, notifier ports.Notifier, cfg Config) *Engine {
	return &Engine{
		sim:      sim,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Run ejecuta un run completo: simular → resumir → persistir → notificar.
// Si ctx se cancela devuelve un error que envuelve ctx.Err() y no se guarda ni imprime nada.
func (e *Engine) Run(ctx context.Context, req Request) (*domain.RunResult, error) {
	if len(req.Strategies) == 0 {
		return nil, fmt.Errorf("engine.Run: %w", ErrNoStrategies)
	}
	start := time.Now()

	out, err := e.sim.Run(ctx, req.Strategies, req.Config, req.Paths)
	if err != nil {
		return nil, fmt.Errorf("engine.Run: simulate: %w", err)
	}

	run := &domain.RunResult{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Config:    req.Config,
		Paths:     req.Paths,
		Seed:      out.Seed,
		Summaries: make([]domain.StrategySummary, len(req.Strategies)),
	}
	for i, s := range req.Strategies {
		run.Summaries[i] = analytics.Summarize(s, out.Paths[i])
		slog.Debug("strategy summarized",
			"strategy", s.Label(),
			"mean_final", run.Summaries[i].MeanFinal,
			"ruin_rate", run.Summaries[i].RuinRate,
			"mean_log", run.Summaries[i].MeanLogFinal,
		)
	}

	e.persist(ctx, *run)

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, *run); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("run complete",
		"run_id", run.ID,
		"strategies", len(run.Summaries),
		"paths", run.Paths,
		"seed", run.Seed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return run, nil
}

// persist guarda el run; las historias de los paths se descartan salvo con KeepPaths.
func (e *Engine) persist(ctx context.Context, run domain.RunResult) {
	if e.store == nil {
		return
	}
	if !e.cfg.KeepPaths {
		stripped := make([]domain.StrategySummary, len(run.Summaries))
		for i, s := range run.Summaries {
			stripped[i] = s.WithoutPaths()
		}
		run.Summaries = stripped
	}
	if err := e.store.SaveRun(ctx, run); err != nil {
		slog.Warn("storage error", "err", err, "run_id", run.ID)
	}
}

// Metrics calcula el bundle de métricas promedio de una estrategia del run.
func (e *Engine) Metrics(ctx context.Context, summary domain.StrategySummary, initialWealth float64) (domain.MetricSeries, error) {
	ms, err := analytics.StrategyMetrics(ctx, summary, initialWealth, e.cfg.MetricsWorkers)
	if err != nil {
		return nil, fmt.Errorf("engine.Metrics: %w", err)
	}
	return ms, nil
}

// Last devuelve el último run guardado, o ports.ErrNoRuns.
func (e *Engine) Last(ctx context.Context) (domain.RunResult, error) {
	if e.store == nil {
		return domain.RunResult{}, ports.ErrNoRuns
	}
	run, err := e.store.LastRun(ctx)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("engine.Last: %w", err)
	}
	return run, nil
}

// History devuelve los últimos runs guardados, el más reciente primero.
func (e *Engine) History(ctx context.Context, limit int) ([]domain.RunInfo, error) {
	if e.store == nil {
		return nil, nil
	}
	runs, err := e.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("engine.History: %w", err)
	}
	return runs, nil
}
