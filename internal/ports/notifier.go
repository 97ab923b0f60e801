package ports

import (
	"context"

	"github.com/alejandrodnm/kellysim/internal/domain"
)

// Notifier presenta el resultado de un run al usuario.
type Notifier interface {
	// Notify muestra los resúmenes por estrategia.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, run domain.RunResult) error
}
