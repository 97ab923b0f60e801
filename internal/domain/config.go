package domain

import (
	"errors"
	"fmt"
)

// BaseConfig es la configuración de una simulación. El engine la trata como
// solo lectura: nunca la modifica ni la valida.
type BaseConfig struct {
	InitialWealth float64 `json:"initial_wealth"`
	Rounds        int     `json:"rounds"`
	WinProb       float64 `json:"win_prob"`
	Odds          float64 `json:"odds"`     // pago neto por unidad apostada (b)
	FeeRate       float64 `json:"fee_rate"` // fracción de la apuesta que se pierde en comisión
	FMax          float64 `json:"f_max"`    // fracción máxima para las variantes basadas en fracción
	RuinThreshold float64 `json:"ruin_threshold"`
	Seed          *uint64 `json:"seed,omitempty"`
}

// DefaultBaseConfig devuelve una configuración razonable para comparar estrategias.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		InitialWealth: 100,
		Rounds:        500,
		WinProb:       0.55,
		Odds:          1,
		FeeRate:       0,
		FMax:          1,
		RuinThreshold: 1,
	}
}

// Validate comprueba los rangos de la configuración.
// Es responsabilidad del caller: SimulatePath acepta cualquier valor y produce
// resultados definidos (aunque sin sentido) para inputs fuera de rango.
func (c BaseConfig) Validate() error {
	var errs []error
	if c.InitialWealth <= 0 {
		errs = append(errs, fmt.Errorf("initial_wealth must be > 0, got %g", c.InitialWealth))
	}
	if c.Rounds < 0 {
		errs = append(errs, fmt.Errorf("rounds must be >= 0, got %d", c.Rounds))
	}
	if c.WinProb < 0 || c.WinProb > 1 {
		errs = append(errs, fmt.Errorf("win_prob must be in [0,1], got %g", c.WinProb))
	}
	if c.Odds <= 0 {
		errs = append(errs, fmt.Errorf("odds must be > 0, got %g", c.Odds))
	}
	if c.FeeRate < 0 || c.FeeRate >= 1 {
		errs = append(errs, fmt.Errorf("fee_rate must be in [0,1), got %g", c.FeeRate))
	}
	if c.FMax < 0 || c.FMax > 1 {
		errs = append(errs, fmt.Errorf("f_max must be in [0,1], got %g", c.FMax))
	}
	if c.RuinThreshold < 0 {
		errs = append(errs, fmt.Errorf("ruin_threshold must be >= 0, got %g", c.RuinThreshold))
	}
	return errors.Join(errs...)
}
