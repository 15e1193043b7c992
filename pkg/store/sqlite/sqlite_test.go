package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/sensorwatch/pkg/sensor"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testReading(sensorID string, value float64, ts time.Time) sensor.Reading {
	return sensor.Reading{
		ID:         uuid.NewString(),
		SensorID:   sensorID,
		SensorType: "temperature",
		Value:      value,
		Unit:       "celsius",
		Location:   "Room A",
		Timestamp:  ts,
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInsertAndFetch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert deliberately out of timestamp order.
	input := []sensor.Reading{
		testReading("sensor_002", 64.0, base.Add(2*time.Hour)),
		testReading("sensor_001", 21.5, base),
		testReading("sensor_001", 22.3, base.Add(1*time.Hour)),
		testReading("sensor_001", 44.8, base.Add(72*time.Hour)),
	}
	require.NoError(t, s.Insert(ctx, input))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Window excludes the reading three days out.
	got, err := s.Fetch(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.Before(got[i-1].Timestamp),
			"fetch must order by timestamp ascending")
	}

	assert.Equal(t, "sensor_001", got[0].SensorID)
	assert.Equal(t, 21.5, got[0].Value)
	assert.Equal(t, "celsius", got[0].Unit)
	assert.Equal(t, "Room A", got[0].Location)
	assert.True(t, got[0].Timestamp.Equal(base))
}

func TestFetchWindowBoundsInclusive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, []sensor.Reading{
		testReading("s1", 1, base.Add(-time.Nanosecond)),
		testReading("s1", 2, base),
		testReading("s1", 3, base.Add(time.Hour)),
		testReading("s1", 4, base.Add(time.Hour+time.Nanosecond)),
	}))

	got, err := s.Fetch(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Value)
	assert.Equal(t, 3.0, got[1].Value)
}

func TestInsertRejectsInvalidReading(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Insert(ctx, []sensor.Reading{
		{ID: uuid.NewString(), Value: 1.0, Timestamp: time.Now()}, // no sensor id
	})
	require.Error(t, err)

	// The transaction rolled back; nothing was stored.
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, []sensor.Reading{
		testReading("s1", 1, time.Now().UTC()),
		testReading("s1", 2, time.Now().UTC()),
	}))
	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), []sensor.Reading{
		testReading("s1", 1, time.Now().UTC()),
	}))
	require.NoError(t, s.Close())

	// Reopening runs migrate again and must keep existing data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
