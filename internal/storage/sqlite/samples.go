package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Sample is one logged tap-to-sample reading. A NaN Value is stored as
// NULL and read back as NaN.
type Sample struct {
	SampleID    string  `json:"sample_id"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Value       float32 `json:"value"`
	PixelFormat string  `json:"pixel_format"`
	CreatedAt   int64   `json:"created_at"`
}

// InsertSample persists smp, filling in SampleID and CreatedAt when unset.
func (s *Store) InsertSample(smp *Sample) error {
	if smp.SampleID == "" {
		smp.SampleID = uuid.New().String()
	}
	if smp.CreatedAt == 0 {
		smp.CreatedAt = s.clock.Now().UnixNano()
	}
	value := sql.NullFloat64{Float64: float64(smp.Value), Valid: !math.IsNaN(float64(smp.Value))}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO samples (sample_id, coord_x, coord_y, value, pixel_format, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			smp.SampleID, float64(smp.X), float64(smp.Y), value, smp.PixelFormat, smp.CreatedAt,
		)
		return err
	})
}

// ListSamples returns the most recent samples, newest first. A
// non-positive limit returns all of them.
func (s *Store) ListSamples(limit int) ([]*Sample, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT sample_id, coord_x, coord_y, value, pixel_format, created_at
		FROM samples
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []*Sample
	for rows.Next() {
		var smp Sample
		var x, y float64
		var v sql.NullFloat64
		if err := rows.Scan(&smp.SampleID, &x, &y, &v, &smp.PixelFormat, &smp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		smp.X, smp.Y = float32(x), float32(y)
		smp.Value = float32(math.NaN())
		if v.Valid {
			smp.Value = float32(v.Float64)
		}
		out = append(out, &smp)
	}
	return out, rows.Err()
}

// MarshalJSON writes a non-finite Value as null.
func (smp Sample) MarshalJSON() ([]byte, error) {
	type plain Sample
	out := struct {
		plain
		Value *float32 `json:"value"`
	}{plain: plain(smp)}
	if f := float64(smp.Value); !math.IsNaN(f) && !math.IsInf(f, 0) {
		out.Value = &smp.Value
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null or missing value as NaN.
func (smp *Sample) UnmarshalJSON(data []byte) error {
	type plain Sample
	aux := struct {
		*plain
		Value *float32 `json:"value"`
	}{plain: (*plain)(smp)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	smp.Value = float32(math.NaN())
	if aux.Value != nil {
		smp.Value = *aux.Value
	}
	return nil
}
