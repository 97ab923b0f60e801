package simulation

// montecarlo.go: ejecuta N paths independientes por estrategia.
//
// Reproducibilidad:
//   - Cada estrategia parte de un RandomSource sembrado con el seed del run
//     (common random numbers: todas las estrategias ven el mismo stream padre).
//   - Los sub-seeds de cada path se derivan del padre en orden, ANTES de
//     repartir el batch entre workers. El scheduling no altera los resultados.
//
// Los batches solo sirven para ceder control y poder pausar/cancelar; sus
// límites son invisibles en los datos.

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultBatchSize  = 100
	progressLogPeriod = 2 * time.Second
)

// Progress describe el avance tras cada batch completado.
type Progress struct {
	Strategy      domain.Strategy
	StrategyIndex int
	Strategies    int
	Done          int // paths completados de la estrategia actual
	Total         int // paths por estrategia
}

// Options controla el scheduling de MonteCarlo. Ninguna opción cambia los resultados.
type Options struct {
	BatchSize  int            // paths por batch; <= 0 usa DefaultBatchSize
	Workers    int            // paths en paralelo dentro de un batch; <= 0 usa runtime.NumCPU()
	Pauser     *Pauser        // opcional; se consulta entre batches
	OnProgress func(Progress) // opcional; se llama tras cada batch
}

// Output contiene los paths simulados: índice externo = estrategia, interno = path.
type Output struct {
	Seed  uint64
	Paths [][]domain.PathStats
}

// MonteCarlo orquesta la simulación de múltiples estrategias.
type MonteCarlo struct {
	opts     Options
	progress *rate.Sometimes
}

// New crea un orquestador con las opciones dadas.
func New(opts Options) *MonteCarlo {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &MonteCarlo{
		opts:     opts,
		progress: &rate.Sometimes{First: 1, Interval: progressLogPeriod},
	}
}

// Run simula `paths` trayectorias por cada estrategia.
//
// La cancelación se comprueba entre batches: si ctx se cancela, los resultados
// parciales se descartan y se devuelve ctx.Err().
func (mc *MonteCarlo) Run(ctx context.Context, strategies []domain.Strategy, cfg domain.BaseConfig, paths int) (Output, error) {
	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	paths = max(paths, 0)

	slog.Debug("monte carlo starting",
		"strategies", len(strategies),
		"paths", paths,
		"rounds", cfg.Rounds,
		"seed", seed,
		"batch_size", mc.opts.BatchSize,
		"workers", mc.opts.Workers,
	)

	out := Output{Seed: seed, Paths: make([][]domain.PathStats, len(strategies))}
	for si, s := range strategies {
		results, err := mc.runStrategy(ctx, si, len(strategies), s, cfg, seed, paths)
		if err != nil {
			return Output{}, fmt.Errorf("simulation.Run: %s: %w", labelOf(s), err)
		}
		out.Paths[si] = results
	}
	return out, nil
}

// runStrategy simula todos los paths de una estrategia batch a batch.
func (mc *MonteCarlo) runStrategy(
	ctx context.Context,
	index, total int,
	s domain.Strategy,
	cfg domain.BaseConfig,
	seed uint64,
	paths int,
) ([]domain.PathStats, error) {
	parent := NewRandomSource(seed)
	results := make([]domain.PathStats, paths)

	for start := 0; start < paths; start += mc.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if mc.opts.Pauser != nil {
			if err := mc.opts.Pauser.Wait(ctx); err != nil {
				return nil, err
			}
		}

		end := min(start+mc.opts.BatchSize, paths)
		if err := mc.runBatch(s, cfg, parent, results[start:end]); err != nil {
			return nil, err
		}

		p := Progress{Strategy: s, StrategyIndex: index, Strategies: total, Done: end, Total: paths}
		mc.report(p)
		runtime.Gosched()
	}

	// Un cancel durante el último batch también descarta la estrategia.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runBatch deriva los sub-seeds en orden y simula el batch con un pool acotado.
func (mc *MonteCarlo) runBatch(s domain.Strategy, cfg domain.BaseConfig, parent *RandomSource, dst []domain.PathStats) error {
	sources := make([]*RandomSource, len(dst))
	for i := range sources {
		sources[i] = parent.Derive()
	}

	var g errgroup.Group
	g.SetLimit(mc.opts.Workers)
	for i := range dst {
		g.Go(func() error {
			dst[i] = SimulatePath(s, cfg, sources[i])
			return nil
		})
	}
	return g.Wait()
}

func (mc *MonteCarlo) report(p Progress) {
	if mc.opts.OnProgress != nil {
		mc.opts.OnProgress(p)
	}
	mc.progress.Do(func() {
		slog.Info("simulating",
			"strategy", labelOf(p.Strategy),
			"n", fmt.Sprintf("%d/%d", p.StrategyIndex+1, p.Strategies),
			"paths_done", p.Done,
			"paths_total", p.Total,
		)
	})
}

func labelOf(s domain.Strategy) string {
	if s == nil {
		return "<nil>"
	}
	return s.Label()
}
