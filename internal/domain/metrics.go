package domain

// MetricName identifica una de las series temporales derivadas de un path.
type MetricName string

const (
	MetricCumulativeReturn       MetricName = "cumulativeReturn"
	MetricWealthMultiple         MetricName = "wealthMultiple"
	MetricPeakWealth             MetricName = "peakWealth"
	MetricCumulativeDrawdown     MetricName = "cumulativeDrawdown"
	MetricDistanceFromPeak       MetricName = "distanceFromPeak"
	MetricLogReturn              MetricName = "logReturn"
	MetricNewHighs               MetricName = "newHighs"
	MetricRelativeChange         MetricName = "relativeChange"
	MetricGrowthRate             MetricName = "growthRate"
	MetricCumulativeProfit       MetricName = "cumulativeProfit"
	MetricCumulativeLoss         MetricName = "cumulativeLoss"
	MetricRelativeDrawdown       MetricName = "relativeDrawdown"
	MetricReturnDrawdownRatio    MetricName = "returnDrawdownRatio"
	MetricCurrentWinStreak       MetricName = "currentWinStreak"
	MetricCurrentLossStreak      MetricName = "currentLossStreak"
	MetricMaxWinStreak           MetricName = "maxWinStreak"
	MetricMaxLossStreak          MetricName = "maxLossStreak"
	MetricMaxSingleProfit        MetricName = "maxSingleProfit"
	MetricMaxSingleLoss          MetricName = "maxSingleLoss"
	MetricCalmarRatio            MetricName = "calmarRatio"
	MetricRecoveryIndex          MetricName = "recoveryIndex"
	MetricRollingVolatility      MetricName = "rollingVolatility"
	MetricWinRateRolling         MetricName = "winRateRolling"
	MetricAvgProfitRolling       MetricName = "avgProfitRolling"
	MetricAvgLossRolling         MetricName = "avgLossRolling"
	MetricProfitLossRatioRolling MetricName = "profitLossRatioRolling"
	MetricSharpeRatioRolling     MetricName = "sharpeRatioRolling"
	MetricSortinoRatioRolling    MetricName = "sortinoRatioRolling"
	MetricVar5Rolling            MetricName = "var5Rolling"
)

var metricNames = []MetricName{
	MetricCumulativeReturn,
	MetricWealthMultiple,
	MetricPeakWealth,
	MetricCumulativeDrawdown,
	MetricDistanceFromPeak,
	MetricLogReturn,
	MetricNewHighs,
	MetricRelativeChange,
	MetricGrowthRate,
	MetricCumulativeProfit,
	MetricCumulativeLoss,
	MetricRelativeDrawdown,
	MetricReturnDrawdownRatio,
	MetricCurrentWinStreak,
	MetricCurrentLossStreak,
	MetricMaxWinStreak,
	MetricMaxLossStreak,
	MetricMaxSingleProfit,
	MetricMaxSingleLoss,
	MetricCalmarRatio,
	MetricRecoveryIndex,
	MetricRollingVolatility,
	MetricWinRateRolling,
	MetricAvgProfitRolling,
	MetricAvgLossRolling,
	MetricProfitLossRatioRolling,
	MetricSharpeRatioRolling,
	MetricSortinoRatioRolling,
	MetricVar5Rolling,
}

// MetricNames devuelve los 29 nombres en orden estable.
func MetricNames() []MetricName {
	out := make([]MetricName, len(metricNames))
	copy(out, metricNames)
	return out
}

// MetricSeries mapea cada métrica a su serie; todas las series tienen la misma longitud.
type MetricSeries map[MetricName][]float64

// NewMetricSeries reserva las 29 series con longitud n, inicializadas a 0.
func NewMetricSeries(n int) MetricSeries {
	ms := make(MetricSeries, len(metricNames))
	for _, name := range metricNames {
		ms[name] = make([]float64, n)
	}
	return ms
}

// Len devuelve la longitud común de las series (0 si está vacío).
func (ms MetricSeries) Len() int {
	n := 0
	for _, s := range ms {
		n = max(n, len(s))
	}
	return n
}

// Last devuelve el último valor de la métrica, o 0 si la serie está vacía.
func (ms MetricSeries) Last(name MetricName) float64 {
	s := ms[name]
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
