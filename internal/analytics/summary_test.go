package analytics

import (
	"math"
	"testing"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makePath(final, mdd float64, ruin bool) domain.PathStats {
	return domain.PathStats{
		FinalWealth: final,
		LogWealth:   math.Log(math.Max(final, domain.LogFloor)),
		MaxDrawdown: mdd,
		Ruin:        ruin,
	}
}

func TestSummarize_Basic(t *testing.T) {
	paths := []domain.PathStats{
		makePath(50, 0.6, false),
		makePath(0.5, 0.99, true),
		makePath(200, 0.2, false),
		makePath(100, 0.3, false),
	}

	s := Summarize(domain.Kelly{}, paths)

	assert.Equal(t, domain.Kelly{}, s.Strategy)
	assert.InDelta(t, 87.625, s.MeanFinal, 1e-9)
	assert.InDelta(t, 75.0, s.MedianFinal, 1e-9) // (50+100)/2
	assert.Equal(t, 0.5, s.P5Final)              // ceil(4×0.05)−1 = 0
	assert.Equal(t, 200.0, s.P95Final)           // ceil(4×0.95)−1 = 3
	assert.Equal(t, 0.25, s.RuinRate)
	assert.InDelta(t, (math.Log(50)+math.Log(0.5)+math.Log(200)+math.Log(100))/4, s.MeanLogFinal, 1e-9)
	assert.InDelta(t, 0.5225, s.MeanMDD, 1e-9)
	assert.Len(t, s.Paths, 4)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(domain.NewMartingale(), nil)
	assert.Equal(t, domain.StrategySummary{Strategy: domain.NewMartingale()}, s)
}

func TestSummarize_PercentilesOrdered(t *testing.T) {
	paths := make([]domain.PathStats, 0, 101)
	for i := 100; i >= 0; i-- {
		paths = append(paths, makePath(float64(i*i), 0, false))
	}

	s := Summarize(domain.Kelly{}, paths)
	assert.LessOrEqual(t, s.P5Final, s.MedianFinal)
	assert.LessOrEqual(t, s.MedianFinal, s.P95Final)
	assert.Equal(t, 2500.0, s.MedianFinal)
}

func TestPercentile_NearestRank(t *testing.T) {
	sorted := make([]float64, 20)
	for i := range sorted {
		sorted[i] = float64(i + 1)
	}
	assert.Equal(t, 1.0, Percentile(sorted, 0.05))
	assert.Equal(t, 10.0, Percentile(sorted, 0.5))
	assert.Equal(t, 20.0, Percentile(sorted, 1))
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
}

func TestMedian_OddCount(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{1, 2, 3, 4, 100}))
	assert.Equal(t, 0.0, Median(nil))
}

func TestSummarize_MeanDoesNotOverflow(t *testing.T) {
	paths := []domain.PathStats{
		makePath(math.MaxFloat64, 0.89, false),
		makePath(math.MaxFloat64, 0.89, false),
		makePath(math.MaxFloat64, 0.89, false),
	}

	s := Summarize(domain.Kelly{}, paths)

	assert.False(t, math.IsInf(s.MeanFinal, 0) || math.IsNaN(s.MeanFinal))
	assert.Equal(t, math.MaxFloat64, s.MeanFinal)
	assert.Equal(t, math.MaxFloat64, s.P95Final)
	assert.InDelta(t, 0.89, s.MeanMDD, 1e-12)
}

func TestMedian_EvenCountNearOverflow(t *testing.T) {
	assert.Equal(t, math.MaxFloat64, Median([]float64{math.MaxFloat64, math.MaxFloat64}))
}
