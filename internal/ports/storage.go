package ports

import (
	"context"
	"errors"

	"github.com/alejandrodnm/kellysim/internal/domain"
)

// ErrNoRuns indica que el store todavía no tiene ningún run guardado.
var ErrNoRuns = errors.New("no stored runs")

// RunStore persiste los resultados de cada ejecución Monte Carlo.
type RunStore interface {
	// SaveRun guarda el run completo; sus resúmenes se restauran tal cual con LastRun.
	SaveRun(ctx context.Context, run domain.RunResult) error

	// LastRun devuelve el run guardado más reciente, o ErrNoRuns.
	LastRun(ctx context.Context) (domain.RunResult, error)

	// ListRuns devuelve los últimos `limit` runs, el más reciente primero.
	ListRuns(ctx context.Context, limit int) ([]domain.RunInfo, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
