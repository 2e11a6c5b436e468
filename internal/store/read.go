package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Measurement is one stored resolved record.
type Measurement struct {
	BatchID    string     `json:"batch_id"`
	Name       string     `json:"name"`
	Unit       string     `json:"unit,omitempty"`
	Kind       string     `json:"kind"`
	Float      *float64   `json:"float,omitempty"`
	String     *string    `json:"string,omitempty"`
	Bool       *bool      `json:"bool,omitempty"`
	Data       []byte     `json:"data,omitempty"`
	Sum        *float64   `json:"sum,omitempty"`
	Time       time.Time  `json:"time"`
	UpdateTime *float64   `json:"update_time,omitempty"`
	Version    uint64     `json:"version,omitempty"`
	Extra      string     `json:"extra,omitempty"` // JSON text of the open bag
}

// Query filters stored measurements. Zero values mean "no filter";
// Limit <= 0 means no limit.
type Query struct {
	NamePrefix string
	Since      time.Time // inclusive lower bound
	Until      time.Time // exclusive upper bound
	Limit      int
}

// Measurements returns stored rows matching the query, ordered
// deterministically by time then insertion order.
func (s *Store) Measurements(ctx context.Context, q Query) ([]Measurement, error) {
	var (
		where []string
		args  []any
	)
	if q.NamePrefix != "" {
		// Valid names are ASCII, so the prefix range trick is safe.
		where = append(where, "name >= ? AND name < ?")
		args = append(args, q.NamePrefix, q.NamePrefix+"\uffff")
	}
	if !q.Since.IsZero() {
		where = append(where, "time_unix_ns >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if !q.Until.IsZero() {
		where = append(where, "time_unix_ns < ?")
		args = append(args, q.Until.UnixNano())
	}

	query := `
		SELECT batch_id, name, unit, kind, float_value, string_value, bool_value, data_value, sum, time_unix_ns, update_time, version, extra
		FROM measurements
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY time_unix_ns ASC, id ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	measurements := []Measurement{}
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}

	return measurements, nil
}

func scanMeasurement(rows *sql.Rows) (Measurement, error) {
	var (
		m          Measurement
		unit       sql.NullString
		floatVal   sql.NullFloat64
		stringVal  sql.NullString
		boolVal    sql.NullBool
		sum        sql.NullFloat64
		timeNanos  int64
		updateTime sql.NullFloat64
		version    sql.NullInt64
		extra      sql.NullString
	)

	err := rows.Scan(
		&m.BatchID,
		&m.Name,
		&unit,
		&m.Kind,
		&floatVal,
		&stringVal,
		&boolVal,
		&m.Data,
		&sum,
		&timeNanos,
		&updateTime,
		&version,
		&extra,
	)
	if err != nil {
		return Measurement{}, fmt.Errorf("scan measurement: %w", err)
	}

	if unit.Valid {
		m.Unit = unit.String
	}
	if floatVal.Valid {
		m.Float = &floatVal.Float64
	}
	if stringVal.Valid {
		m.String = &stringVal.String
	}
	if boolVal.Valid {
		m.Bool = &boolVal.Bool
	}
	if sum.Valid {
		m.Sum = &sum.Float64
	}
	m.Time = time.Unix(0, timeNanos).UTC()
	if updateTime.Valid {
		m.UpdateTime = &updateTime.Float64
	}
	if version.Valid {
		m.Version = uint64(version.Int64)
	}
	if extra.Valid {
		m.Extra = extra.String
	}

	return m, nil
}
