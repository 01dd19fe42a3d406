package coflnet

import "github.com/alejandrodnm/bingobot/internal/domain"

// lowestStartingBid devuelve el BIN activo más barato.
func lowestStartingBid(raw []activeAuction) (domain.Price, bool) {
	if len(raw) == 0 {
		return domain.Unknown, false
	}
	lowest := raw[0].StartingBid
	for _, a := range raw[1:] {
		if a.StartingBid < lowest {
			lowest = a.StartingBid
		}
	}
	return domain.PriceOf(float64(lowest)), true
}

// binSaleStats devuelve el mínimo y la media de las ventas BIN.
// Las subastas de puja se descartan.
func binSaleStats(raw []soldAuction) (domain.Price, domain.Price, bool) {
	var (
		lowest int64
		sum    float64
		count  int
	)
	for _, s := range raw {
		if !s.Bin {
			continue
		}
		if count == 0 || s.HighestBidAmount < lowest {
			lowest = s.HighestBidAmount
		}
		sum += float64(s.HighestBidAmount)
		count++
	}
	if count == 0 {
		return domain.Unknown, domain.Unknown, false
	}
	return domain.PriceOf(float64(lowest)), domain.PriceOf(sum / float64(count)), true
}
