package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() BaseConfig {
	cfg := DefaultBaseConfig()
	cfg.WinProb = 0.55
	cfg.Odds = 1
	cfg.FMax = 1
	return cfg
}

// --- KellyOptimal ---

func TestKellyOptimal_EvenOdds(t *testing.T) {
	// (1×0.55 − 0.45) / 1 = 0.10
	assert.InDelta(t, 0.10, KellyOptimal(0.55, 1), 1e-12)
}

func TestKellyOptimal_NegativeEdge(t *testing.T) {
	assert.Equal(t, 0.0, KellyOptimal(0.40, 1))
}

func TestKellyOptimal_NonNegative(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.99, 1} {
		for _, b := range []float64{0.01, 0.5, 1, 2, 10} {
			assert.GreaterOrEqual(t, KellyOptimal(p, b), 0.0, "p=%v b=%v", p, b)
		}
	}
}

func TestKellyOptimal_ZeroOdds(t *testing.T) {
	assert.Equal(t, 0.0, KellyOptimal(0.6, 0))
}

// --- BetFraction ---

func TestBetFraction_KellyClampedByFMax(t *testing.T) {
	cfg := testConfig()
	cfg.WinProb = 0.8 // f* = 0.6
	cfg.FMax = 0.25
	assert.InDelta(t, 0.25, BetFraction(Kelly{}, cfg, 100, 0, 0), 1e-12)
}

func TestBetFraction_FractionalKelly(t *testing.T) {
	cfg := testConfig()
	assert.InDelta(t, 0.05, BetFraction(NewFractionalKelly(), cfg, 100, 0, 0), 1e-12)
	assert.Equal(t, 0.0, BetFraction(FractionalKelly{Alpha: 0}, cfg, 100, 0, 0))
}

func TestBetFraction_FixedFraction(t *testing.T) {
	cfg := testConfig()
	assert.InDelta(t, 0.1, BetFraction(NewFixedFraction(), cfg, 100, 0, 0), 1e-12)

	cfg.FMax = 0.05
	assert.InDelta(t, 0.05, BetFraction(NewFixedFraction(), cfg, 100, 0, 0), 1e-12)
}

func TestBetFraction_FixedStake(t *testing.T) {
	cfg := testConfig()
	assert.InDelta(t, 0.05, BetFraction(FixedStake{Base: 5}, cfg, 100, 0, 0), 1e-12)
	// stake mayor que el capital → todo el capital
	assert.Equal(t, 1.0, BetFraction(FixedStake{Base: 500}, cfg, 100, 0, 0))
}

func TestBetFraction_Paroli(t *testing.T) {
	cfg := testConfig()
	// 1 × 2³ = 8 → 8/100
	assert.InDelta(t, 0.08, BetFraction(NewParoli(), cfg, 100, 3, 0), 1e-12)
	assert.InDelta(t, 0.01, BetFraction(NewParoli(), cfg, 100, 0, 5), 1e-12)
}

func TestBetFraction_Martingale(t *testing.T) {
	cfg := testConfig()
	// 1 × 2⁴ = 16 → 16/100
	assert.InDelta(t, 0.16, BetFraction(NewMartingale(), cfg, 100, 0, 4), 1e-12)
	assert.Equal(t, 1.0, BetFraction(NewMartingale(), cfg, 100, 0, 10))
}

func TestBetFraction_ZeroWealth(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, 0.0, BetFraction(NewFixedStake(), cfg, 0, 0, 0))
	assert.Equal(t, 0.0, BetFraction(NewMartingale(), cfg, -5, 0, 3))
}

func TestBetFraction_UnknownVariant(t *testing.T) {
	assert.Equal(t, 0.0, BetFraction(nil, testConfig(), 100, 0, 0))
}

func TestBetFraction_AlwaysWithinBounds(t *testing.T) {
	cfg := testConfig()
	cfg.FMax = 0.3
	strategies := []Strategy{Kelly{}, NewFractionalKelly(), NewFixedFraction(), NewFixedStake(), NewParoli(), NewMartingale()}
	for _, s := range strategies {
		for _, w := range []float64{0.5, 1, 10, 1000} {
			for streak := 0; streak < 12; streak++ {
				f := BetFraction(s, cfg, w, streak, streak)
				assert.GreaterOrEqual(t, f, 0.0, s.Label())
				assert.LessOrEqual(t, f, 1.0, s.Label())
			}
		}
	}
}
