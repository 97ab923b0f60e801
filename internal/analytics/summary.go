package analytics

import (
	"math"
	"sort"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Summarize agrega los paths de una estrategia.
// Con 0 paths todos los escalares valen 0.
func Summarize(s domain.Strategy, paths []domain.PathStats) domain.StrategySummary {
	summary := domain.StrategySummary{Strategy: s, Paths: paths}
	n := len(paths)
	if n == 0 {
		return summary
	}

	finals := make([]float64, n)
	logs := make([]float64, n)
	mdds := make([]float64, n)
	ruins := 0
	for i, p := range paths {
		finals[i] = p.FinalWealth
		logs[i] = p.LogWealth
		mdds[i] = p.MaxDrawdown
		if p.Ruin {
			ruins++
		}
	}

	sorted := make([]float64, n)
	copy(sorted, finals)
	sort.Float64s(sorted)

	summary.MeanFinal = mean(finals)
	summary.MedianFinal = Median(sorted)
	summary.P5Final = Percentile(sorted, 0.05)
	summary.P95Final = Percentile(sorted, 0.95)
	summary.RuinRate = float64(ruins) / float64(n)
	summary.MeanLogFinal = stat.Mean(logs, nil)
	summary.MeanMDD = stat.Mean(mdds, nil)
	return summary
}

// mean usa stat.Mean y, si la suma desborda, recalcula con media incremental.
func mean(xs []float64) float64 {
	if m := stat.Mean(xs, nil); !math.IsInf(m, 0) && !math.IsNaN(m) {
		return m
	}
	var m float64
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m
}

// Median devuelve la mediana de un slice ya ordenado (media de los dos
// centrales si n es par).
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1]/2 + sorted[n/2]/2
}

// Percentile devuelve el percentil p ∈ [0,1] por nearest-rank sobre un slice ordenado:
// índice = ceil(n·p) − 1, acotado a [0, n−1].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(n)*p)) - 1
	idx = min(max(idx, 0), n-1)
	return sorted[idx]
}
