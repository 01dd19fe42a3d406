package domain

import (
	"fmt"
	"time"
)

// Report es el resultado cacheado de un ciclo: el snapshot y sus valoraciones
// en orden de catálogo. Los consumidores solo leen.
type Report struct {
	Snapshot    Snapshot
	Valuations  []Valuation
	EvaluatedAt time.Time
	// Stale indica que el último refresco falló y estos datos son los anteriores.
	Stale bool
}

// IsZero devuelve true si todavía no hay ningún ciclo evaluado.
func (r Report) IsZero() bool {
	return r.EvaluatedAt.IsZero()
}

// Ranked devuelve las valoraciones ordenadas según spec.
func (r Report) Ranked(spec SortSpec) []Valuation {
	return Rank(r.Valuations, spec)
}

// SummaryLines devuelve las líneas de detalle de una valoración para presentarla.
// Es el mismo bloque para consola y chat.
func SummaryLines(v Valuation) []string {
	switch v.Status() {
	case StatusProfitable:
		cpp := FormatCoins(v.CoinsPerPoint)
		if v.PointsSpent <= 0 {
			cpp = "N/A (0 points)"
		}
		return []string{
			fmt.Sprintf("Market Price: %s coins", FormatCoins(v.MarketPrice)),
			fmt.Sprintf("Cost of Prerequisites: %s coins", FormatCoins(v.PrerequisiteCost)),
			fmt.Sprintf("Net Profit: %s coins", FormatCoins(v.NetProfit)),
			fmt.Sprintf("Points Spent: %d points", v.PointsSpent),
			fmt.Sprintf("Coins per point: %s", cpp),
		}
	case StatusNotProfitable:
		return []string{fmt.Sprintf("Not Profitable (Net Profit: %s)", FormatCoins(v.NetProfit))}
	case StatusNoActiveListing:
		lines := []string{"No Active BIN Auctions Found."}
		p := v.Prices
		if p.LastWeekLowest.Known {
			lines = append(lines,
				fmt.Sprintf("Last week's lowest BIN was: %s coins", FormatPrice(p.LastWeekLowest)),
				fmt.Sprintf("Last week's average BIN price was: %s coins", FormatPrice(p.LastWeekAverage)),
			)
		} else if p.LastMonthLowest.Known {
			lines = append(lines,
				fmt.Sprintf("Last month's lowest BIN was: %s coins", FormatPrice(p.LastMonthLowest)),
				fmt.Sprintf("Last month's average BIN price was: %s coins", FormatPrice(p.LastMonthAverage)),
			)
		}
		return lines
	default:
		return []string{"No data: no active listings and no BIN sales in the last month."}
	}
}
