package domain

import "math"

// KellyOptimal calcula la fracción de Kelly para una apuesta binaria.
//
// Fórmula: f* = max(0, (b·p − q) / b)
//   - p: probabilidad de ganar
//   - q: 1 − p
//   - b: odds netas (ganancia por unidad apostada)
//
// Devuelve 0 si b ≤ 0 o si la apuesta tiene esperanza negativa.
func KellyOptimal(winProb, odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	f := (odds*winProb - (1 - winProb)) / odds
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// BetFraction devuelve la fracción del capital actual a apostar en la ronda.
//
// Las variantes basadas en fracción (Kelly, FractionalKelly, FixedFraction) se
// acotan por cfg.FMax; las basadas en stake (FixedStake, Paroli, Martingale)
// se acotan por 1 (nunca más que todo el capital).
// Es una función pura: una variante desconocida o un capital ≤ 0 devuelven 0.
func BetFraction(s Strategy, cfg BaseConfig, wealth float64, winStreak, lossStreak int) float64 {
	switch v := s.(type) {
	case Kelly:
		return clampFraction(KellyOptimal(cfg.WinProb, cfg.Odds), cfg.FMax)
	case FractionalKelly:
		return clampFraction(v.Alpha*KellyOptimal(cfg.WinProb, cfg.Odds), cfg.FMax)
	case FixedFraction:
		return clampFraction(v.F, cfg.FMax)
	case FixedStake:
		return stakeFraction(v.Base, wealth)
	case Paroli:
		return stakeFraction(v.Base*math.Pow(v.R, float64(winStreak)), wealth)
	case Martingale:
		return stakeFraction(v.Base*math.Pow(2, float64(lossStreak)), wealth)
	}
	return 0
}

// clampFraction devuelve min(f, max) sin bajar de 0.
func clampFraction(f, max float64) float64 {
	f = math.Min(f, max)
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// stakeFraction convierte una cantidad apostada en fracción del capital, acotada a [0, 1].
func stakeFraction(amount, wealth float64) float64 {
	if wealth <= 0 {
		return 0
	}
	return clampFraction(amount/wealth, 1)
}
