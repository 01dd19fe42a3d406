package ports

import (
	"context"

	"github.com/alejandrodnm/bingobot/internal/domain"
)

// PriceProvider obtiene los precios de mercado de los items seguidos.
type PriceProvider interface {
	// FetchPrices devuelve un snapshot con un PriceRecord por item.
	// Un fallo en un item no aborta el lote: ese item queda sin datos.
	// Solo devuelve error si ningún item obtuvo datos.
	FetchPrices(ctx context.Context, items []domain.TrackedItem) (domain.Snapshot, error)
}
