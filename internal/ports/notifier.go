package ports

import (
	"context"

	"github.com/alejandrodnm/bingobot/internal/domain"
)

// Notifier presenta el resultado de cada ciclo de refresco.
type Notifier interface {
	// Notify muestra las valoraciones ordenadas con el orden por defecto.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, report domain.Report) error
}
