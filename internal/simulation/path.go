package simulation

import (
	"math"

	"github.com/alejandrodnm/kellysim/internal/domain"
)

// roundState es el estado mutable de un path mientras se simula.
type roundState struct {
	wealth      float64
	winStreak   int
	lossStreak  int
	peak        float64
	maxDrawdown float64
}

// SimulatePath ejecuta una trayectoria completa de la estrategia.
//
// Cada ronda:
//  1. si wealth ≤ RuinThreshold el path termina (ruina) sin apostar
//  2. fracción = BetFraction(...) → apuesta = min(f·wealth, wealth)
//  3. fee = apuesta·FeeRate, apuesta efectiva = apuesta − fee
//  4. gana si el siguiente uniforme < WinProb
//  5. wealth += efectiva·Odds si gana, wealth −= efectiva si pierde
//  6. wealth se acota a math.MaxFloat64: un overflow a +Inf haría que la
//     siguiente pérdida diera Inf − Inf = NaN
//
// El loop termina tras cfg.Rounds rondas o en ruina. No valida inputs.
func SimulatePath(s domain.Strategy, cfg domain.BaseConfig, rng *RandomSource) domain.PathStats {
	rounds := max(cfg.Rounds, 0)
	st := roundState{
		wealth: cfg.InitialWealth,
		peak:   cfg.InitialWealth,
	}

	wealthHist := make([]float64, 1, rounds+1)
	wealthHist[0] = cfg.InitialWealth
	betHist := make([]float64, 0, rounds)
	resultHist := make([]bool, 0, rounds)
	wins, losses := 0, 0

	for range rounds {
		if st.wealth <= cfg.RuinThreshold {
			break
		}

		f := domain.BetFraction(s, cfg, st.wealth, st.winStreak, st.lossStreak)
		bet := math.Min(f*st.wealth, st.wealth)
		effective := bet - bet*cfg.FeeRate

		win := rng.Float64() < cfg.WinProb
		if win {
			st.wealth += effective * cfg.Odds
			st.winStreak++
			st.lossStreak = 0
			wins++
		} else {
			st.wealth -= effective
			st.lossStreak++
			st.winStreak = 0
			losses++
		}
		st.wealth = math.Min(st.wealth, math.MaxFloat64)

		st.peak = math.Max(st.peak, st.wealth)
		if st.peak > 0 {
			st.maxDrawdown = math.Max(st.maxDrawdown, (st.peak-st.wealth)/st.peak)
		}

		wealthHist = append(wealthHist, st.wealth)
		betHist = append(betHist, bet)
		resultHist = append(resultHist, win)
	}

	return domain.PathStats{
		FinalWealth:   st.wealth,
		LogWealth:     math.Log(math.Max(st.wealth, domain.LogFloor)),
		Wins:          wins,
		Losses:        losses,
		MaxDrawdown:   st.maxDrawdown,
		Ruin:          st.wealth <= cfg.RuinThreshold,
		WealthHistory: wealthHist,
		BetHistory:    betHist,
		ResultHistory: resultHist,
	}
}
