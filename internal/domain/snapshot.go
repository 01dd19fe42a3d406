package domain

import "time"

// Snapshot es el mapa item_id → PriceRecord de un ciclo de fetch.
// Se construye de nuevo en cada ciclo; no hay actualizaciones incrementales.
type Snapshot struct {
	Records   map[string]PriceRecord
	FetchedAt time.Time
}

// NewSnapshot crea un snapshot vacío con la hora dada.
func NewSnapshot(fetchedAt time.Time) Snapshot {
	return Snapshot{Records: make(map[string]PriceRecord), FetchedAt: fetchedAt}
}

// Record devuelve el récord del item, o un récord vacío si no existe.
func (s Snapshot) Record(itemID string) PriceRecord {
	return s.Records[itemID]
}

// LowestActive devuelve el BIN activo más barato del item, 0 si no hay.
func (s Snapshot) LowestActive(itemID string) float64 {
	return s.Records[itemID].LowestActive.OrZero()
}

// Priced cuenta los items con algún dato de mercado.
func (s Snapshot) Priced() int {
	n := 0
	for _, r := range s.Records {
		if r.HasData() {
			n++
		}
	}
	return n
}

// IsZero devuelve true si el snapshot nunca se rellenó.
func (s Snapshot) IsZero() bool {
	return s.FetchedAt.IsZero() && len(s.Records) == 0
}
