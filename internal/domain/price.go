package domain

// Price es un precio en coins que puede ser desconocido.
// Un precio conocido de 0 no es lo mismo que "sin datos".
type Price struct {
	Coins float64
	Known bool
}

// Unknown es el precio ausente.
var Unknown = Price{}

// PriceOf devuelve un precio conocido.
func PriceOf(coins float64) Price {
	return Price{Coins: coins, Known: true}
}

// OrZero devuelve el valor del precio, o 0 si es desconocido.
func (p Price) OrZero() float64 {
	if !p.Known {
		return 0
	}
	return p.Coins
}

// Positive devuelve true si el precio es conocido y mayor que cero.
func (p Price) Positive() bool {
	return p.Known && p.Coins > 0
}

// PriceSource indica de qué ventana de mercado salió un PriceRecord.
type PriceSource int

const (
	SourceNone PriceSource = iota
	SourceActive
	SourceLastWeek
	SourceLastMonth
)

// String devuelve el nombre legible de la fuente.
func (s PriceSource) String() string {
	switch s {
	case SourceActive:
		return "active"
	case SourceLastWeek:
		return "last_week"
	case SourceLastMonth:
		return "last_month"
	default:
		return "none"
	}
}

// PriceRecord es la información de mercado de un item en un ciclo.
// Solo se rellena la ventana donde la cadena de fallback encontró datos.
type PriceRecord struct {
	LowestActive     Price // BIN activo más barato
	LastWeekLowest   Price
	LastWeekAverage  Price
	LastMonthLowest  Price
	LastMonthAverage Price
}

// Source devuelve la ventana de la que proviene el récord.
func (r PriceRecord) Source() PriceSource {
	switch {
	case r.LowestActive.Known:
		return SourceActive
	case r.LastWeekLowest.Known:
		return SourceLastWeek
	case r.LastMonthLowest.Known:
		return SourceLastMonth
	default:
		return SourceNone
	}
}

// HasData devuelve true si alguna ventana tiene datos.
func (r PriceRecord) HasData() bool {
	return r.Source() != SourceNone
}
