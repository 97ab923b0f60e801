package analytics

import (
	"math"

	"github.com/alejandrodnm/kellysim/internal/domain"
)

// AverageSeries promedia, índice a índice, las series de varios paths.
//
// En cada índice solo cuentan los paths cuya serie llega hasta él (un path
// arruinado es más corto) y se ignoran NaN/±Inf. Un índice sin contribuciones
// vale 0. La longitud resultante es la máxima de las entradas.
// La media es incremental para no desbordar con valores cercanos a math.MaxFloat64.
func AverageSeries(list []domain.MetricSeries) domain.MetricSeries {
	n := 0
	for _, ms := range list {
		n = max(n, ms.Len())
	}
	out := domain.NewMetricSeries(n)
	if n == 0 {
		return out
	}

	means := make([]float64, n)
	counts := make([]int, n)
	for _, name := range domain.MetricNames() {
		clear(means)
		clear(counts)
		for _, ms := range list {
			for i, v := range ms[name] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				counts[i]++
				means[i] += (v - means[i]) / float64(counts[i])
			}
		}
		copy(out[name], means)
	}
	return out
}
