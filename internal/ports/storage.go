package ports

import (
	"context"

	"github.com/alejandrodnm/bingobot/internal/domain"
)

// Storage guarda el último snapshot conocido para arrancar en caliente.
// No guarda histórico: cada SaveSnapshot reemplaza al anterior.
type Storage interface {
	// SaveSnapshot reemplaza el snapshot guardado.
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error

	// LoadSnapshot devuelve el último snapshot guardado; ok=false si no hay ninguno.
	LoadSnapshot(ctx context.Context) (snapshot domain.Snapshot, ok bool, err error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
