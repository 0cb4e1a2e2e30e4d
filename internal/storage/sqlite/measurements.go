package sqlite

import (
	"fmt"

	"github.com/google/uuid"
)

// Measurement is one logged height scan.
type Measurement struct {
	MeasurementID   string  `json:"measurement_id"`
	Label           string  `json:"label,omitempty"`
	Height          float64 `json:"height"`
	ClosestX        float64 `json:"closest_x"`
	ClosestY        float64 `json:"closest_y"`
	ClosestZ        float64 `json:"closest_z"`
	ClosestDistance float64 `json:"closest_distance"`
	Probes          int     `json:"probes"`
	Accepted        int     `json:"accepted"`
	Truncated       bool    `json:"truncated"`
	CreatedAt       int64   `json:"created_at"`
}

// InsertMeasurement persists m. If MeasurementID is empty a UUID is
// generated; if CreatedAt is zero it is stamped from the store's clock.
func (s *Store) InsertMeasurement(m *Measurement) error {
	if m.MeasurementID == "" {
		m.MeasurementID = uuid.New().String()
	}
	if m.CreatedAt == 0 {
		m.CreatedAt = s.clock.Now().UnixNano()
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO measurements (
				measurement_id, label, height,
				closest_x, closest_y, closest_z, closest_distance,
				probes, accepted, truncated, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.MeasurementID, m.Label, m.Height,
			m.ClosestX, m.ClosestY, m.ClosestZ, m.ClosestDistance,
			m.Probes, m.Accepted, m.Truncated, m.CreatedAt,
		)
		return err
	})
}

// ListMeasurements returns the most recent measurements, newest first.
// A non-positive limit returns all of them.
func (s *Store) ListMeasurements(limit int) ([]*Measurement, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT measurement_id, label, height,
		       closest_x, closest_y, closest_z, closest_distance,
		       probes, accepted, truncated, created_at
		FROM measurements
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var out []*Measurement
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.MeasurementID, &m.Label, &m.Height,
			&m.ClosestX, &m.ClosestY, &m.ClosestZ, &m.ClosestDistance,
			&m.Probes, &m.Accepted, &m.Truncated, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
