package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	senml "github.com/SINTEF/sindit-senml"
)

// Batch identifies one ingested pack.
type Batch struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	IngestedAt time.Time `json:"ingested_at"`
}

// WriteBatch inserts a batch row and one measurement row per resolved
// record, atomically. A failure on any record rolls back the whole
// batch, mirroring the codec's whole-pack error semantics.
func (s *Store) WriteBatch(ctx context.Context, batch Batch, records []senml.ResolvedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (id, source, record_count, ingested_at)
		VALUES (?, ?, ?, ?)
	`,
		batch.ID,
		batch.Source,
		len(records),
		batch.IngestedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write batch %s: %w", batch.ID, err)
	}

	for i := range records {
		if err := writeMeasurement(ctx, tx, batch.ID, &records[i]); err != nil {
			return fmt.Errorf("write batch %s record %d: %w", batch.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write batch %s: %w", batch.ID, err)
	}
	return nil
}

func writeMeasurement(ctx context.Context, tx *sql.Tx, batchID string, rec *senml.ResolvedRecord) error {
	kind, f, str, b, data, err := valueColumns(rec.Value)
	if err != nil {
		return err
	}

	extra, err := marshalExtra(rec.Extra)
	if err != nil {
		return err
	}

	var unit any
	if rec.Unit != "" {
		unit = rec.Unit
	}
	var version any
	if rec.Version != 0 {
		version = rec.Version
	}
	var extraCol any
	if extra != "" {
		extraCol = extra
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO measurements
		(batch_id, name, unit, kind, float_value, string_value, bool_value, data_value, sum, time_unix_ns, update_time, version, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		batchID,
		rec.Name,
		unit,
		kind,
		f,
		str,
		b,
		data,
		rec.Sum,
		rec.Time.UnixNano(),
		rec.UpdateTime,
		version,
		extraCol,
	)
	return err
}
