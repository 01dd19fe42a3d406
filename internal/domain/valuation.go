package domain

// valuation.go: motor de valoración.
//
// El coste de prerequisitos es superficial: cada prerequisito se valora a su BIN
// activo directo, sin expandir sus propios prerequisitos. La tabla memo vive solo
// durante una llamada a Evaluate, así que evaluaciones concurrentes no comparten estado.

// Valuation es el resultado de valorar un item del catálogo contra un snapshot.
// Se calcula de cero en cada evaluación y no se modifica después.
type Valuation struct {
	ItemID           string
	MarketPrice      float64 // BIN activo más barato (0 si no hay)
	PrerequisiteCost float64
	NetProfit        float64 // MarketPrice - PrerequisiteCost
	PointsSpent      int
	CoinsPerPoint    float64 // NetProfit / PointsSpent si ambos > 0, si no 0
	Prices           PriceRecord
}

// ValuationStatus resume cómo debe presentarse una valoración.
type ValuationStatus int

const (
	StatusNoData ValuationStatus = iota
	StatusNoActiveListing
	StatusNotProfitable
	StatusProfitable
)

// String devuelve el nombre de la categoría.
func (s ValuationStatus) String() string {
	switch s {
	case StatusProfitable:
		return "profitable"
	case StatusNotProfitable:
		return "not_profitable"
	case StatusNoActiveListing:
		return "no_active_listing"
	default:
		return "no_data"
	}
}

// Status clasifica la valoración para la capa de presentación.
func (v Valuation) Status() ValuationStatus {
	if !v.Prices.LowestActive.Positive() {
		if v.Prices.HasData() {
			return StatusNoActiveListing
		}
		return StatusNoData
	}
	if v.NetProfit > 0 {
		return StatusProfitable
	}
	return StatusNotProfitable
}

// costEntry es lo que guarda la tabla memo por item.
type costEntry struct {
	cost   float64
	points int
}

// resolver resuelve costes de prerequisitos con memoización.
type resolver struct {
	catalog  *Catalog
	snapshot Snapshot
	memo     map[string]costEntry
}

// resolve devuelve (coste de prerequisitos, puntos) del item.
// Un id fuera del catálogo es una hoja de mercado: vale su BIN activo y no aporta puntos.
func (r *resolver) resolve(itemID string) (float64, int) {
	if e, ok := r.memo[itemID]; ok {
		return e.cost, e.points
	}

	item, ok := r.catalog.Lookup(itemID)
	if !ok {
		return r.snapshot.LowestActive(itemID), 0
	}
	if !item.HasPrerequisites() {
		r.memo[itemID] = costEntry{points: item.Points}
		return 0, item.Points
	}

	var total float64
	for _, p := range item.Prerequisites {
		total += float64(p.Amount) * r.snapshot.LowestActive(p.ItemID)
	}

	r.memo[itemID] = costEntry{cost: total, points: item.Points}
	return total, item.Points
}

// Evaluate valora cada item del catálogo contra el snapshot, en orden de catálogo.
// Nunca falla: los precios ausentes se tratan como 0.
func Evaluate(catalog *Catalog, snapshot Snapshot) []Valuation {
	r := &resolver{
		catalog:  catalog,
		snapshot: snapshot,
		memo:     make(map[string]costEntry, catalog.Len()),
	}

	out := make([]Valuation, 0, catalog.Len())
	for _, item := range catalog.items {
		market := snapshot.LowestActive(item.ID)
		cost, points := r.resolve(item.ID)
		net := market - cost

		out = append(out, Valuation{
			ItemID:           item.ID,
			MarketPrice:      market,
			PrerequisiteCost: cost,
			NetProfit:        net,
			PointsSpent:      points,
			CoinsPerPoint:    CoinsPerPoint(net, points),
			Prices:           snapshot.Record(item.ID),
		})
	}
	return out
}

// CoinsPerPoint devuelve netProfit/points, o 0 si points <= 0 o netProfit <= 0.
// Un item sin coste en puntos queda en 0 aunque sea rentable.
func CoinsPerPoint(netProfit float64, points int) float64 {
	if points <= 0 || netProfit <= 0 {
		return 0
	}
	return netProfit / float64(points)
}
