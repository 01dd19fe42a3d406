package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidSort se devuelve cuando el campo o la dirección de orden no existen.
var ErrInvalidSort = errors.New("invalid sort")

// SortField es la métrica por la que se ordenan las valoraciones.
type SortField string

const (
	SortCoinsPerPoint SortField = "coins_per_point"
	SortNetProfit     SortField = "net_profit"
)

// Direction es el sentido del orden.
type Direction string

const (
	Descending Direction = "desc"
	Ascending  Direction = "asc"
)

// SortSpec es el par (campo, dirección) que elige el usuario.
type SortSpec struct {
	Field     SortField
	Direction Direction
}

// DefaultSort ordena por coins/point de mayor a menor.
func DefaultSort() SortSpec {
	return SortSpec{Field: SortCoinsPerPoint, Direction: Descending}
}

// String devuelve "campo dirección", p.ej. "coins_per_point desc".
func (s SortSpec) String() string {
	return string(s.Field) + " " + string(s.Direction)
}

// Label devuelve un nombre legible para el usuario.
func (s SortSpec) Label() string {
	name := "Coins per point"
	if s.Field == SortNetProfit {
		name = "Net profit"
	}
	if s.Direction == Ascending {
		return name + " (lowest first)"
	}
	return name + " (highest first)"
}

// ParseSort valida la entrada del usuario. Vacío = valor por defecto.
// Acepta alias cortos: cpp, coins, profit, net, ascending, descending.
func ParseSort(field, direction string) (SortSpec, error) {
	spec := DefaultSort()

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "", "coins_per_point", "cpp", "coins":
		spec.Field = SortCoinsPerPoint
	case "net_profit", "profit", "net":
		spec.Field = SortNetProfit
	default:
		return SortSpec{}, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, field)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "desc", "descending":
		spec.Direction = Descending
	case "asc", "ascending":
		spec.Direction = Ascending
	default:
		return SortSpec{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, direction)
	}

	return spec, nil
}

// key devuelve la métrica de ordenación de una valoración.
func (s SortSpec) key(v Valuation) float64 {
	if s.Field == SortNetProfit {
		return v.NetProfit
	}
	return v.CoinsPerPoint
}

// Rank devuelve una copia ordenada de vals. El orden es estable: los empates
// conservan el orden de catálogo. No modifica vals ni vuelve a evaluar.
func Rank(vals []Valuation, spec SortSpec) []Valuation {
	out := make([]Valuation, len(vals))
	copy(out, vals)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := spec.key(out[i]), spec.key(out[j])
		if spec.Direction == Ascending {
			return a < b
		}
		return a > b
	})
	return out
}
