package storage

// snapshot.go: último snapshot conocido, sin histórico.
//
// Estrategia:
//   - `prices`: UNA fila por item. SaveSnapshot reemplaza la tabla entera en una
//     transacción, así que nunca quedan mezclados dos ciclos.
//   - NULL = precio desconocido; 0 = precio conocido de 0 coins.
//   - Solo sirve para arrancar en caliente tras un reinicio: el bot puede responder
//     antes de que termine el primer fetch.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS prices (
    item_id            TEXT PRIMARY KEY,
    lowest_active      REAL,
    last_week_lowest   REAL,
    last_week_average  REAL,
    last_month_lowest  REAL,
    last_month_average REAL,
    fetched_at_ms      INTEGER NOT NULL
);
`

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveSnapshot reemplaza el snapshot guardado por el dado.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prices`); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO prices
			(item_id, lowest_active, last_week_lowest, last_week_average,
			 last_month_lowest, last_month_average, fetched_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSnapshot: prepare: %w", err)
	}
	defer stmt.Close()

	fetchedAt := snapshot.FetchedAt.UTC().UnixMilli()
	for id, r := range snapshot.Records {
		if _, err := stmt.ExecContext(ctx,
			id,
			nullPrice(r.LowestActive),
			nullPrice(r.LastWeekLowest),
			nullPrice(r.LastWeekAverage),
			nullPrice(r.LastMonthLowest),
			nullPrice(r.LastMonthAverage),
			fetchedAt,
		); err != nil {
			return fmt.Errorf("storage.SaveSnapshot: insert %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSnapshot: commit: %w", err)
	}
	return nil
}

// LoadSnapshot devuelve el snapshot guardado. ok=false si la tabla está vacía.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context) (domain.Snapshot, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, lowest_active, last_week_lowest, last_week_average,
		       last_month_lowest, last_month_average, fetched_at_ms
		FROM prices
	`)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("storage.LoadSnapshot: query: %w", err)
	}
	defer rows.Close()

	snap := domain.Snapshot{Records: make(map[string]domain.PriceRecord)}
	for rows.Next() {
		var (
			id                             string
			active, wLow, wAvg, mLow, mAvg sql.NullFloat64
			fetchedMs                      int64
		)
		if err := rows.Scan(&id, &active, &wLow, &wAvg, &mLow, &mAvg, &fetchedMs); err != nil {
			return domain.Snapshot{}, false, fmt.Errorf("storage.LoadSnapshot: scan row: %w", err)
		}
		snap.Records[id] = domain.PriceRecord{
			LowestActive:     fromNull(active),
			LastWeekLowest:   fromNull(wLow),
			LastWeekAverage:  fromNull(wAvg),
			LastMonthLowest:  fromNull(mLow),
			LastMonthAverage: fromNull(mAvg),
		}
		snap.FetchedAt = time.UnixMilli(fetchedMs).UTC()
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("storage.LoadSnapshot: %w", err)
	}

	if len(snap.Records) == 0 {
		return domain.Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func nullPrice(p domain.Price) sql.NullFloat64 {
	return sql.NullFloat64{Float64: p.Coins, Valid: p.Known}
}

func fromNull(n sql.NullFloat64) domain.Price {
	if !n.Valid {
		return domain.Unknown
	}
	return domain.PriceOf(n.Float64)
}
