package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alejandrodnm/kellysim/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrNoStrategies se devuelve cuando la config no lista ninguna estrategia.
var ErrNoStrategies = errors.New("config: no strategies configured")

// Config es la configuración completa del simulador.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Run        RunConfig        `yaml:"run"`
	Strategies []StrategyConfig `yaml:"strategies"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig son los parámetros del juego (se mapean 1:1 a domain.BaseConfig).
// Load la inicializa con domain.DefaultBaseConfig, así que un 0 explícito en el YAML se respeta.
type SimulationConfig struct {
	InitialWealth float64 `yaml:"initial_wealth"`
	Rounds        int     `yaml:"rounds"`
	WinProb       float64 `yaml:"win_prob"`
	Odds          float64 `yaml:"odds"`
	FeeRate       float64 `yaml:"fee_rate"`
	FMax          float64 `yaml:"f_max"`
	RuinThreshold float64 `yaml:"ruin_threshold"`
	Seed          *uint64 `yaml:"seed"` // nil = semilla derivada del reloj
}

// RunConfig controla el tamaño del Monte Carlo y el paralelismo.
type RunConfig struct {
	Paths     int `yaml:"paths"`
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"` // 0 = runtime.NumCPU()
}

// StrategyConfig es una entrada de la lista de estrategias: type + parámetros opcionales.
type StrategyConfig struct {
	Type                  string `yaml:"type"`
	domain.StrategyParams `yaml:",inline"`
}

// StorageConfig controla dónde se persisten los runs.
type StorageConfig struct {
	DSN       string `yaml:"dsn"`        // ruta al archivo SQLite, o ":memory:"
	KeepPaths bool   `yaml:"keep_paths"` // guardar también las historias de cada path
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg := Config{Simulation: fromBase(domain.DefaultBaseConfig())}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// BaseConfig convierte la sección simulation al tipo del dominio.
func (c *Config) BaseConfig() domain.BaseConfig {
	s := c.Simulation
	return domain.BaseConfig{
		InitialWealth: s.InitialWealth,
		Rounds:        s.Rounds,
		WinProb:       s.WinProb,
		Odds:          s.Odds,
		FeeRate:       s.FeeRate,
		FMax:          s.FMax,
		RuinThreshold: s.RuinThreshold,
		Seed:          s.Seed,
	}
}

// StrategyList construye las estrategias en el orden del YAML.
func (c *Config) StrategyList() ([]domain.Strategy, error) {
	if len(c.Strategies) == 0 {
		return nil, ErrNoStrategies
	}
	out := make([]domain.Strategy, 0, len(c.Strategies))
	for i, sc := range c.Strategies {
		s, err := domain.ParseStrategy(sc.Type, sc.StrategyParams)
		if err != nil {
			return nil, fmt.Errorf("strategies[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Validate comprueba la sección simulation y que todas las estrategias existan.
func (c *Config) Validate() error {
	var errs []error
	if err := c.BaseConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("simulation: %w", err))
	}
	if _, err := c.StrategyList(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log: format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("KELLYSIM_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("KELLYSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("KELLYSIM_SEED %q: %w", v, err)
		}
		cfg.Simulation.Seed = &seed
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Run.Paths <= 0 {
		cfg.Run.Paths = 1000
	}
	if cfg.Run.BatchSize <= 0 {
		cfg.Run.BatchSize = 100
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "kellysim.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func fromBase(b domain.BaseConfig) SimulationConfig {
	return SimulationConfig{
		InitialWealth: b.InitialWealth,
		Rounds:        b.Rounds,
		WinProb:       b.WinProb,
		Odds:          b.Odds,
		FeeRate:       b.FeeRate,
		FMax:          b.FMax,
		RuinThreshold: b.RuinThreshold,
		Seed:          b.Seed,
	}
}
