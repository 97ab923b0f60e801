package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy se devuelve al parsear un tipo de estrategia no soportado.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind identifica la variante de una estrategia.
type Kind string

const (
	KindKelly           Kind = "kelly"
	KindFractionalKelly Kind = "fractional_kelly"
	KindFixedFraction   Kind = "fixed_fraction"
	KindFixedStake      Kind = "fixed_stake"
	KindParoli          Kind = "paroli"
	KindMartingale      Kind = "martingale"
)

// Valores por defecto de los parámetros de cada variante.
const (
	DefaultAlpha          = 0.5
	DefaultFixedFraction  = 0.1
	DefaultStake          = 1.0
	DefaultParoliMultiple = 2.0
)

// Strategy es la unión cerrada de variantes de bet sizing.
// Solo los tipos de este paquete la implementan; BetFraction hace el
// switch exhaustivo sobre ellos.
type Strategy interface {
	Kind() Kind
	// Label devuelve un nombre legible con los parámetros, p.ej. "Fractional Kelly (α=0.50)".
	Label() string
	sealed()
}

// Kelly apuesta la fracción óptima f* acotada por FMax.
type Kelly struct{}

// FractionalKelly apuesta Alpha·f*.
type FractionalKelly struct {
	Alpha float64
}

// FixedFraction apuesta siempre la misma fracción del capital.
type FixedFraction struct {
	F float64
}

// FixedStake apuesta una cantidad fija por ronda.
type FixedStake struct {
	Base float64
}

// Paroli multiplica la apuesta por R tras cada ganancia y vuelve a Base al perder.
type Paroli struct {
	Base float64
	R    float64
}

// Martingale dobla la apuesta tras cada pérdida y vuelve a Base al ganar.
type Martingale struct {
	Base float64
}

// NewFractionalKelly crea un FractionalKelly con alpha por defecto (medio Kelly).
func NewFractionalKelly() FractionalKelly { return FractionalKelly{Alpha: DefaultAlpha} }

// NewFixedFraction crea un FixedFraction del 10%.
func NewFixedFraction() FixedFraction { return FixedFraction{F: DefaultFixedFraction} }

// NewFixedStake crea un FixedStake de 1 unidad.
func NewFixedStake() FixedStake { return FixedStake{Base: DefaultStake} }

// NewParoli crea un Paroli con base 1 y multiplicador 2.
func NewParoli() Paroli { return Paroli{Base: DefaultStake, R: DefaultParoliMultiple} }

// NewMartingale crea un Martingale con base 1.
func NewMartingale() Martingale { return Martingale{Base: DefaultStake} }

func (Kelly) Kind() Kind           { return KindKelly }
func (FractionalKelly) Kind() Kind { return KindFractionalKelly }
func (FixedFraction) Kind() Kind   { return KindFixedFraction }
func (FixedStake) Kind() Kind      { return KindFixedStake }
func (Paroli) Kind() Kind          { return KindParoli }
func (Martingale) Kind() Kind      { return KindMartingale }

func (Kelly) Label() string { return "Kelly" }
func (s FractionalKelly) Label() string {
	return fmt.Sprintf("Fractional Kelly (α=%.2f)", s.Alpha)
}
func (s FixedFraction) Label() string { return fmt.Sprintf("Fixed Fraction (f=%.2f)", s.F) }
func (s FixedStake) Label() string    { return fmt.Sprintf("Fixed Stake (k=%g)", s.Base) }
func (s Paroli) Label() string        { return fmt.Sprintf("Paroli (base=%g, r=%g)", s.Base, s.R) }
func (s Martingale) Label() string    { return fmt.Sprintf("Martingale (base=%g)", s.Base) }

func (Kelly) sealed()           {}
func (FractionalKelly) sealed() {}
func (FixedFraction) sealed()   {}
func (FixedStake) sealed()      {}
func (Paroli) sealed()          {}
func (Martingale) sealed()      {}

// StrategyParams son los parámetros tal como llegan del exterior (YAML, JSON).
// Un puntero nil significa "no especificado" → se usa el default de la variante.
// Un valor explícito, incluido 0, se respeta.
type StrategyParams struct {
	Alpha *float64 `json:"alpha,omitempty" yaml:"alpha"`
	F     *float64 `json:"f,omitempty" yaml:"f"`
	K     *float64 `json:"k,omitempty" yaml:"k"` // stake de fixed_stake
	Base  *float64 `json:"base,omitempty" yaml:"base"`
	R     *float64 `json:"r,omitempty" yaml:"r"`
}

// ParseStrategy construye la variante indicada por kind aplicando los defaults
// del constructor para los parámetros ausentes.
func ParseStrategy(kind string, p StrategyParams) (Strategy, error) {
	switch Kind(kind) {
	case KindKelly:
		return Kelly{}, nil
	case KindFractionalKelly:
		s := NewFractionalKelly()
		setIf(&s.Alpha, p.Alpha)
		return s, nil
	case KindFixedFraction:
		s := NewFixedFraction()
		setIf(&s.F, p.F)
		return s, nil
	case KindFixedStake:
		s := NewFixedStake()
		setIf(&s.Base, p.K)
		return s, nil
	case KindParoli:
		s := NewParoli()
		setIf(&s.Base, p.Base)
		setIf(&s.R, p.R)
		return s, nil
	case KindMartingale:
		s := NewMartingale()
		setIf(&s.Base, p.Base)
		return s, nil
	}
	return nil, fmt.Errorf("domain.ParseStrategy: %q: %w", kind, ErrUnknownStrategy)
}

// ParamsOf devuelve los parámetros explícitos de una estrategia, inverso de ParseStrategy.
func ParamsOf(s Strategy) StrategyParams {
	switch v := s.(type) {
	case FractionalKelly:
		return StrategyParams{Alpha: &v.Alpha}
	case FixedFraction:
		return StrategyParams{F: &v.F}
	case FixedStake:
		return StrategyParams{K: &v.Base}
	case Paroli:
		return StrategyParams{Base: &v.Base, R: &v.R}
	case Martingale:
		return StrategyParams{Base: &v.Base}
	}
	return StrategyParams{}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
