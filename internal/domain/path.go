package domain

import (
	"encoding/json"
	"fmt"
)

// LogFloor evita ln(0) = −∞ cuando el capital llega a 0.
const LogFloor = 1e-12

// PathStats es el resultado inmutable de una trayectoria simulada.
//
// Invariantes:
//   - len(WealthHistory) = rondas completadas + 1, WealthHistory[0] = capital inicial
//   - len(BetHistory) = len(ResultHistory) = len(WealthHistory) − 1
//   - Ruin ⇔ último elemento de WealthHistory ≤ RuinThreshold
type PathStats struct {
	FinalWealth   float64   `json:"final_wealth"`
	LogWealth     float64   `json:"log_wealth"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	MaxDrawdown   float64   `json:"max_drawdown"` // fracción en [0,1]
	Ruin          bool      `json:"ruin"`
	WealthHistory []float64 `json:"wealth_history,omitempty"`
	BetHistory    []float64 `json:"bet_history,omitempty"`    // apuesta real (antes de fee) por ronda
	ResultHistory []bool    `json:"result_history,omitempty"` // true = ganada
}

// Rounds devuelve el número de rondas jugadas.
func (p PathStats) Rounds() int {
	return len(p.BetHistory)
}

// StrategySummary agrega los PathStats de una estrategia.
// Retiene los paths para el cálculo posterior de métricas.
type StrategySummary struct {
	Strategy     Strategy
	MeanFinal    float64
	MedianFinal  float64
	P5Final      float64
	P95Final     float64
	RuinRate     float64
	MeanLogFinal float64
	MeanMDD      float64
	Paths        []PathStats
}

// strategyJSON es la forma serializada de una Strategy: {"type": "...", params}.
type strategyJSON struct {
	Type Kind `json:"type"`
	StrategyParams
}

type summaryJSON struct {
	Strategy     strategyJSON `json:"strategy"`
	Label        string       `json:"label"`
	MeanFinal    float64      `json:"mean_final"`
	MedianFinal  float64      `json:"median_final"`
	P5Final      float64      `json:"p5_final"`
	P95Final     float64      `json:"p95_final"`
	RuinRate     float64      `json:"ruin_rate"`
	MeanLogFinal float64      `json:"mean_log_final"`
	MeanMDD      float64      `json:"mean_mdd"`
	Paths        []PathStats  `json:"paths,omitempty"`
}

// MarshalJSON codifica la estrategia como {"type", params} para poder restaurarla.
func (s StrategySummary) MarshalJSON() ([]byte, error) {
	out := summaryJSON{
		MeanFinal:    s.MeanFinal,
		MedianFinal:  s.MedianFinal,
		P5Final:      s.P5Final,
		P95Final:     s.P95Final,
		RuinRate:     s.RuinRate,
		MeanLogFinal: s.MeanLogFinal,
		MeanMDD:      s.MeanMDD,
		Paths:        s.Paths,
	}
	if s.Strategy != nil {
		out.Strategy = strategyJSON{Type: s.Strategy.Kind(), StrategyParams: ParamsOf(s.Strategy)}
		out.Label = s.Strategy.Label()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restaura la estrategia con ParseStrategy.
func (s *StrategySummary) UnmarshalJSON(data []byte) error {
	var in summaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = StrategySummary{
		MeanFinal:    in.MeanFinal,
		MedianFinal:  in.MedianFinal,
		P5Final:      in.P5Final,
		P95Final:     in.P95Final,
		RuinRate:     in.RuinRate,
		MeanLogFinal: in.MeanLogFinal,
		MeanMDD:      in.MeanMDD,
		Paths:        in.Paths,
	}
	if in.Strategy.Type == "" {
		return nil
	}
	strat, err := ParseStrategy(string(in.Strategy.Type), in.Strategy.StrategyParams)
	if err != nil {
		return fmt.Errorf("domain.StrategySummary: %w", err)
	}
	s.Strategy = strat
	return nil
}

// WithoutPaths devuelve una copia del resumen sin las historias de los paths.
func (s StrategySummary) WithoutPaths() StrategySummary {
	s.Paths = nil
	return s
}
