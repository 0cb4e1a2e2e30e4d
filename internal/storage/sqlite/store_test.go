package sqlite

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/depthkit/internal/timeutil"
)

func openTestStore(t *testing.T) (*Store, *timeutil.MockClock) {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "depthkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := timeutil.NewMockClock(time.Unix(1700000000, 0))
	clock.SetAutoAdvance(time.Second)
	s.SetClock(clock)
	return s, clock
}

func TestOpen_MigratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depthkit.db")

	s, err := Open(path)
	require.NoError(t, err)
	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)
	require.NoError(t, s.InsertMeasurement(&Measurement{Height: 1}))
	require.NoError(t, s.Close())

	// Reopening finds nothing to migrate and keeps the data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.ListMeasurements(0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "depthkit.db"))
	assert.Error(t, err)
}

func TestMeasurements_RoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	first := &Measurement{
		Label:           "box",
		Height:          1.03,
		ClosestX:        0.1,
		ClosestY:        -0.2,
		ClosestZ:        -1.5,
		ClosestDistance: 1.5,
		Probes:          340,
		Accepted:        170,
	}
	require.NoError(t, s.InsertMeasurement(first))
	assert.NotEmpty(t, first.MeasurementID)
	assert.Equal(t, time.Unix(1700000000, 0).UnixNano(), first.CreatedAt)

	second := &Measurement{MeasurementID: "fixed-id", Height: 0.5, Truncated: true}
	require.NoError(t, s.InsertMeasurement(second))
	assert.Equal(t, "fixed-id", second.MeasurementID)

	got, err := s.ListMeasurements(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second, got[0], "newest first")
	assert.Equal(t, first, got[1])

	got, err = s.ListMeasurements(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fixed-id", got[0].MeasurementID)
}

func TestMeasurements_DuplicateID(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.InsertMeasurement(&Measurement{MeasurementID: "a"}))
	assert.Error(t, s.InsertMeasurement(&Measurement{MeasurementID: "a"}))
}

func TestSamples_RoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	for i, v := range []float32{1.25, 2.5, 0} {
		require.NoError(t, s.InsertSample(&Sample{
			X:           float32(i) * 0.25,
			Y:           0.5,
			Value:       v,
			PixelFormat: "depth32",
		}))
	}

	got, err := s.ListSamples(0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, float32(0), got[0].Value)
	assert.Equal(t, float32(0.5), got[0].X)
	assert.Equal(t, float32(1.25), got[2].Value)
	assert.Equal(t, "depth32", got[2].PixelFormat)
	assert.Greater(t, got[0].CreatedAt, got[2].CreatedAt)
	for _, smp := range got {
		assert.Len(t, smp.SampleID, 36)
	}
}

func TestSamples_NaNValue(t *testing.T) {
	s, _ := openTestStore(t)

	require.NoError(t, s.InsertSample(&Sample{X: 0.5, Y: 0.5, Value: float32(math.NaN()), PixelFormat: "depth32"}))
	require.NoError(t, s.InsertSample(&Sample{X: 0.5, Y: 0.5, Value: 2, PixelFormat: "depth32"}))

	got, err := s.ListSamples(0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, float32(2), got[0].Value)
	assert.True(t, math.IsNaN(float64(got[1].Value)), "NULL reads back as NaN")

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":null`)
	assert.Contains(t, string(data), `"value":2`)

	var back []*Sample
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.Equal(t, float32(2), back[0].Value)
	assert.True(t, math.IsNaN(float64(back[1].Value)))
	assert.Equal(t, got[1].SampleID, back[1].SampleID)
}

func TestIsSQLiteBusy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"database is locked", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"SQLITE_BUSY", errors.New("SQLITE_BUSY"), true},
		{"other error", errors.New("some other error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSQLiteBusy(tt.err))
		})
	}
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("success after retry", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-busy error fails immediately", func(t *testing.T) {
		calls := 0
		want := errors.New("some other error")
		err := retryOnBusy(func() error {
			calls++
			return want
		})
		assert.Same(t, want, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		assert.Error(t, err)
		assert.Equal(t, maxBusyRetries, calls)
	})
}
