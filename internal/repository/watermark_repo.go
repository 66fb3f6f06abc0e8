package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type WatermarkSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewWatermarkSQLite(db *sql.DB) *WatermarkSQLite {
	return &WatermarkSQLite{db: db, now: time.Now}
}

const (
	watermarkRowID = 1

	upsertWatermarkSQL = `
		INSERT INTO flow_watermark (id, observed_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			observed_at=excluded.observed_at,
			updated_at=excluded.updated_at
		WHERE excluded.observed_at > flow_watermark.observed_at
	`

	selectWatermarkSQL = `SELECT observed_at FROM flow_watermark WHERE id=?`
)

// Save stores observedAt as UTC. The row only ever moves forward: an older
// value than the stored one is ignored by the upsert.
func (r *WatermarkSQLite) Save(ctx context.Context, observedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, upsertWatermarkSQL,
		watermarkRowID,
		observedAt.UTC(),
		r.now().UTC(),
	)
	return err
}

// Load returns the stored watermark, or the zero time if none was saved yet.
func (r *WatermarkSQLite) Load(ctx context.Context) (time.Time, error) {
	var observedAt time.Time
	err := r.db.QueryRowContext(ctx, selectWatermarkSQL, watermarkRowID).Scan(&observedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return observedAt.UTC(), nil
}
