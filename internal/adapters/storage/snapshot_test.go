package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/bingobot/internal/adapters/storage"
	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(at time.Time) domain.Snapshot {
	s := domain.NewSnapshot(at)
	s.Records["BINGO_TALISMAN"] = domain.PriceRecord{LowestActive: domain.PriceOf(2_500_000)}
	s.Records["DITTO_SKIN"] = domain.PriceRecord{
		LastWeekLowest:  domain.PriceOf(0),
		LastWeekAverage: domain.PriceOf(1_000_000),
	}
	s.Records["BINGO_RELIC"] = domain.PriceRecord{}
	return s
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveSnapshot(context.Background(), makeSnapshot(at)))

	got, ok, err := db.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, got.FetchedAt.Equal(at))
	assert.Len(t, got.Records, 3)
	assert.Equal(t, domain.PriceOf(2_500_000), got.Record("BINGO_TALISMAN").LowestActive)

	// Un 0 conocido sobrevive como 0, no como desconocido
	skin := got.Record("DITTO_SKIN")
	assert.Equal(t, domain.PriceOf(0), skin.LastWeekLowest)
	assert.False(t, skin.LowestActive.Known)

	assert.False(t, got.Record("BINGO_RELIC").HasData())
}

func TestSQLiteStorage_LoadEmpty(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, ok, err := db.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStorage_SaveReplacesPrevious(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.SaveSnapshot(ctx, makeSnapshot(time.Now())))

	second := domain.NewSnapshot(time.Now())
	second.Records["BONZO_STATUE"] = domain.PriceRecord{LowestActive: domain.PriceOf(7_000_000)}
	require.NoError(t, db.SaveSnapshot(ctx, second))

	got, ok, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Records, 1, "no se guarda histórico")
	assert.Equal(t, domain.PriceOf(7_000_000), got.Record("BONZO_STATUE").LowestActive)
}
