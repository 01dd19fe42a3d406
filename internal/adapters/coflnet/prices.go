package coflnet

// prices.go: cadena de fallback por item.
//
// FetchPrices lanza un goroutine por item seguido. Cada goroutine construye su
// propio PriceRecord y lo envía por resultCh; el mapa del snapshot se rellena
// después del join, así que no hace falta ningún lock.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
)

// ErrNoPrices indica que ningún item obtuvo datos de mercado en el ciclo.
var ErrNoPrices = errors.New("no market data for any tracked item")

// FetchPrices implementa ports.PriceProvider.
func (c *Client) FetchPrices(ctx context.Context, items []domain.TrackedItem) (domain.Snapshot, error) {
	snapshot := domain.NewSnapshot(time.Now().UTC())
	if len(items) == 0 {
		return snapshot, nil
	}

	type itemResult struct {
		id     string
		record domain.PriceRecord
	}

	resultCh := make(chan itemResult, len(items))
	var wg sync.WaitGroup

	for _, item := range items {
		item := item
		wg.Add(1)
		go func() {
			defer wg.Done()
			resultCh <- itemResult{id: item.ID, record: c.fetchRecord(ctx, item)}
		}()
	}

	// Cerrar el canal cuando todos los goroutines terminen
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		snapshot.Records[r.id] = r.record
	}

	priced := snapshot.Priced()
	slog.Info("market prices fetched", "tracked", len(items), "priced", priced)

	if priced == 0 {
		return snapshot, ErrNoPrices
	}
	return snapshot, nil
}

// fetchRecord recorre la cadena BIN activo → ventas de la semana → ventas del mes.
// Se para en el primer paso con datos. Un error termina la cadena y deja el
// récord como esté.
func (c *Client) fetchRecord(ctx context.Context, item domain.TrackedItem) domain.PriceRecord {
	var record domain.PriceRecord
	log := slog.With("item", item.ID, "tag", item.Tag)

	active, err := c.FetchActiveBIN(ctx, item.Tag)
	if err != nil {
		log.Warn("active BIN fetch failed", "err", err)
		return record
	}
	if lowest, ok := lowestStartingBid(active); ok {
		record.LowestActive = lowest
		log.Debug("found active BIN", "price", domain.FormatPrice(lowest))
		return record
	}

	log.Debug("no active BIN, checking last week's sales")
	week, err := c.FetchRecentSales(ctx, item.Tag)
	if err != nil {
		log.Warn("recent sales fetch failed", "err", err)
		return record
	}
	if lowest, avg, ok := binSaleStats(week); ok {
		record.LastWeekLowest, record.LastWeekAverage = lowest, avg
		log.Debug("found last week's sales", "lowest", domain.FormatPrice(lowest), "average", domain.FormatPrice(avg))
		return record
	}

	log.Debug("no BIN sales last week, checking last month's sales")
	month, err := c.FetchHistoricalSales(ctx, item.Tag)
	if err != nil {
		log.Warn("historical sales fetch failed", "err", err)
		return record
	}
	if lowest, avg, ok := binSaleStats(month); ok {
		record.LastMonthLowest, record.LastMonthAverage = lowest, avg
		log.Debug("found last month's sales", "lowest", domain.FormatPrice(lowest), "average", domain.FormatPrice(avg))
		return record
	}

	log.Debug("no BIN sales found in the last month")
	return record
}
