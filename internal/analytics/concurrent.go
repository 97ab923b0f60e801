package analytics

// concurrent.go: worker pool para calcular las métricas de todos los paths.
//
// ComputeSeries es O(n·W) por path; con 1000 paths × 500 rondas compensa
// repartirlo entre cores. Los resultados se colocan por índice para que el
// promedio sea idéntico sin importar el orden en que terminan los workers.

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/kellysim/internal/domain"
)

// StrategyMetrics calcula el bundle de métricas promedio de una estrategia.
// Si workers <= 0 usa runtime.NumCPU(). Si ctx se cancela devuelve ctx.Err().
func StrategyMetrics(ctx context.Context, summary domain.StrategySummary, initialWealth float64, workers int) (domain.MetricSeries, error) {
	series, err := pathSeriesConcurrent(ctx, summary.Paths, initialWealth, workers)
	if err != nil {
		return nil, err
	}
	return AverageSeries(series), nil
}

func pathSeriesConcurrent(ctx context.Context, paths []domain.PathStats, initialWealth float64, workers int) ([]domain.MetricSeries, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type result struct {
		idx    int
		series domain.MetricSeries
	}

	workCh := make(chan int, len(paths))
	resultCh := make(chan result, len(paths))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if ctx.Err() != nil {
					continue
				}
				resultCh <- result{idx: idx, series: ComputeSeries(paths[idx].WealthHistory, initialWealth)}
			}
		}()
	}

	for i := range paths {
		workCh <- i
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := make([]domain.MetricSeries, len(paths))
	for r := range resultCh {
		out[r.idx] = r.series
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("path metrics computed",
		"paths", len(paths),
		"workers", workers,
	)
	return out, nil
}
