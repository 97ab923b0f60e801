package analytics

// rolling.go: series temporales de rendimiento/riesgo para un path.
//
// Convenciones:
//   - r[i] = (w[i] − w[i−1]) / w[i−1] es el retorno de la ronda i (r[0] = 0).
//   - Una ventana de tamaño W en el índice i contiene r[i−W+1..i] y solo se usa
//     cuando i ≥ W; antes la métrica vale 0 (no se extrapola con ventanas parciales).
//   - Cualquier ratio con denominador 0 o no finito vale 0, y cualquier valor que
//     desborde float64 también. Los logs usan LogFloor.

import (
	"math"
	"sort"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	volatilityWindow = 10
	tradeWindow      = 20 // win rate, avg profit/loss
	ratioWindow      = 30 // Sharpe, Sortino
	varWindow        = 50
	varLevel         = 0.05
)

// ComputeSeries calcula las 29 métricas para la historia de capital de un path.
// Todas las series tienen len(wealth) elementos.
func ComputeSeries(wealth []float64, initialWealth float64) domain.MetricSeries {
	n := len(wealth)
	ms := domain.NewMetricSeries(n)
	if n == 0 {
		return ms
	}

	returns := make([]float64, n)
	for i := 1; i < n; i++ {
		returns[i] = safeDiv(wealth[i]-wealth[i-1], wealth[i-1])
	}

	peak := wealth[0]
	var newHighs, cumProfit, cumLoss, maxProfit, maxSingleLoss float64
	var winStreak, lossStreak, maxWinStreak, maxLossStreak int

	for i, w := range wealth {
		pct := 100 * returns[i]
		if i > 0 {
			if w > peak {
				peak = w
				newHighs++
			}

			delta := w - wealth[i-1]
			switch {
			case delta > 0:
				winStreak++
				lossStreak = 0
				maxProfit = math.Max(maxProfit, delta)
			case delta < 0:
				lossStreak++
				winStreak = 0
				maxSingleLoss = math.Max(maxSingleLoss, -delta)
			default:
				winStreak, lossStreak = 0, 0
			}
			maxWinStreak = max(maxWinStreak, winStreak)
			maxLossStreak = max(maxLossStreak, lossStreak)

			if pct > 0 {
				cumProfit += pct
			} else if pct < 0 {
				cumLoss += pct
			}
		}

		cumReturn := finite(100 * safeDiv(w-initialWealth, initialWealth))
		drawdown := 0.0
		if peak > 0 {
			drawdown = finite(100 * (peak - w) / peak)
		}

		ms[domain.MetricCumulativeReturn][i] = cumReturn
		ms[domain.MetricWealthMultiple][i] = safeDiv(w, initialWealth)
		ms[domain.MetricPeakWealth][i] = finite(peak)
		ms[domain.MetricCumulativeDrawdown][i] = drawdown
		ms[domain.MetricDistanceFromPeak][i] = finite(peak - w)
		ms[domain.MetricLogReturn][i] = logRatio(w, initialWealth)
		ms[domain.MetricNewHighs][i] = newHighs
		ms[domain.MetricRelativeChange][i] = finite(pct)
		ms[domain.MetricGrowthRate][i] = finite(pct)
		ms[domain.MetricCumulativeProfit][i] = finite(cumProfit)
		ms[domain.MetricCumulativeLoss][i] = finite(cumLoss)
		ms[domain.MetricRelativeDrawdown][i] = drawdown
		ms[domain.MetricReturnDrawdownRatio][i] = safeDiv(cumReturn, drawdown)
		ms[domain.MetricCurrentWinStreak][i] = float64(winStreak)
		ms[domain.MetricCurrentLossStreak][i] = float64(lossStreak)
		ms[domain.MetricMaxWinStreak][i] = float64(maxWinStreak)
		ms[domain.MetricMaxLossStreak][i] = float64(maxLossStreak)
		ms[domain.MetricMaxSingleProfit][i] = finite(maxProfit)
		ms[domain.MetricMaxSingleLoss][i] = finite(maxSingleLoss)
		ms[domain.MetricCalmarRatio][i] = safeDiv(cumReturn/float64(i+1), drawdown)
		ms[domain.MetricRecoveryIndex][i] = 1 - drawdown/100

		if i >= volatilityWindow {
			ms[domain.MetricRollingVolatility][i] = finite(100 * stat.PopStdDev(window(returns, i, volatilityWindow), nil))
		}
		if i >= tradeWindow {
			t := tradeStats(window(returns, i, tradeWindow))
			ms[domain.MetricWinRateRolling][i] = t.winRate
			ms[domain.MetricAvgProfitRolling][i] = t.avgProfit
			ms[domain.MetricAvgLossRolling][i] = t.avgLoss
			ms[domain.MetricProfitLossRatioRolling][i] = safeDiv(t.avgProfit, t.avgLoss)
		}
		if i >= ratioWindow {
			win := window(returns, i, ratioWindow)
			ms[domain.MetricSharpeRatioRolling][i] = sharpe(win)
			ms[domain.MetricSortinoRatioRolling][i] = sortino(win)
		}
		if i >= varWindow {
			ms[domain.MetricVar5Rolling][i] = valueAtRisk(window(returns, i, varWindow), varLevel)
		}
	}

	return ms
}

// window devuelve los size retornos que terminan en i (inclusive).
func window(returns []float64, i, size int) []float64 {
	return returns[i-size+1 : i+1]
}

type trades struct {
	winRate   float64 // % de rondas con retorno > 0
	avgProfit float64 // retorno medio de las rondas ganadoras, en %
	avgLoss   float64 // magnitud media de las rondas perdedoras, en %
}

func tradeStats(win []float64) trades {
	var wins, losses int
	var sumProfit, sumLoss float64
	for _, r := range win {
		switch {
		case r > 0:
			wins++
			sumProfit += r
		case r < 0:
			losses++
			sumLoss -= r
		}
	}
	return trades{
		winRate:   100 * float64(wins) / float64(len(win)),
		avgProfit: 100 * safeDiv(sumProfit, float64(wins)),
		avgLoss:   100 * safeDiv(sumLoss, float64(losses)),
	}
}

// sharpe es media / desviación estándar poblacional de los retornos (sin tasa libre de riesgo).
func sharpe(win []float64) float64 {
	mean, std := stat.PopMeanStdDev(win, nil)
	return safeDiv(mean, std)
}

// sortino usa como denominador la desviación de los retornos negativos:
// sqrt(Σ r² / k) sobre los k retornos < 0. Sin retornos negativos vale 0.
func sortino(win []float64) float64 {
	var sumSq float64
	k := 0
	for _, r := range win {
		if r < 0 {
			sumSq += r * r
			k++
		}
	}
	if k == 0 {
		return 0
	}
	downside := math.Sqrt(sumSq / float64(k))
	return safeDiv(stat.Mean(win, nil), downside)
}

// valueAtRisk devuelve |percentil level| de los retornos de la ventana, en %.
func valueAtRisk(win []float64, level float64) float64 {
	sorted := make([]float64, len(win))
	copy(sorted, win)
	sort.Float64s(sorted)
	return finite(math.Abs(Percentile(sorted, level)) * 100)
}

// logRatio devuelve ln(a/b) con piso en LogFloor; 0 si b ≤ 0.
func logRatio(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return finite(math.Log(math.Max(a/b, domain.LogFloor)))
}

// safeDiv devuelve a/b, o 0 si b es 0 o el resultado no es finito.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finite(a / b)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
