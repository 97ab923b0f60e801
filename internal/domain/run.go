package domain

import "time"

// RunResult es el resultado completo de una ejecución Monte Carlo.
// Es lo que se persiste como "último resultado" y lo que imprime el notifier.
type RunResult struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Config    BaseConfig        `json:"config"`
	Paths     int               `json:"paths"`
	Seed      uint64            `json:"seed"`
	Summaries []StrategySummary `json:"summaries"`
}

// RunInfo es la fila ligera de un run guardado, sin los resúmenes.
type RunInfo struct {
	ID         string
	CreatedAt  time.Time
	Paths      int
	Rounds     int
	Seed       uint64
	Strategies int
	BestLabel  string  // estrategia con mayor MeanLogFinal
	BestLogG   float64 // su MeanLogFinal
}

// Best devuelve el resumen con mayor crecimiento logarítmico medio.
func (r RunResult) Best() (StrategySummary, bool) {
	if len(r.Summaries) == 0 {
		return StrategySummary{}, false
	}
	best := r.Summaries[0]
	for _, s := range r.Summaries[1:] {
		if s.MeanLogFinal > best.MeanLogFinal {
			best = s
		}
	}
	return best, true
}
