package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlab/sensorwatch/pkg/detectors"
	"github.com/driftlab/sensorwatch/pkg/sensor"
)

func anomaly(value, deviation float64, ts time.Time) detectors.Anomaly {
	return detectors.Anomaly{
		Reading:   sensor.Reading{SensorID: "sensor_001", Value: value, Timestamp: ts},
		Deviation: deviation,
	}
}

func sampleResults(anomalyCount int) map[string]detectors.GroupResult {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	anomalies := make([]detectors.Anomaly, 0, anomalyCount)
	for i := 0; i < anomalyCount; i++ {
		anomalies = append(anomalies, anomaly(50+float64(anomalyCount-i), 4-float64(i)*0.1, base.Add(time.Duration(i)*time.Hour)))
	}

	return map[string]detectors.GroupResult{
		"sensor_002": {
			SensorID: "sensor_002", Count: 40, Mean: 65.1, StdDev: 3.2, Threshold: 74.7,
		},
		"sensor_001": {
			SensorID: "sensor_001", Count: 102, Mean: 22.1, StdDev: 5.0, Threshold: 37.1,
			Anomalies: anomalies,
		},
	}
}

func TestWriteEmptyResults(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)

	err := r.Write(Header{Start: "2025-06-08", End: "2025-06-15", SigmaThreshold: 3}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Time Range: 2025-06-08 to 2025-06-15")
	assert.Contains(t, out, "Sigma Threshold: 3")
	assert.Contains(t, out, "no sensors, no anomalies")
	assert.NotContains(t, out, "Summary:")
}

func TestWriteSensorsSortedByID(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)

	require.NoError(t, r.Write(Header{Start: "a", End: "b", SigmaThreshold: 3}, sampleResults(2)))

	out := buf.String()
	first := strings.Index(out, "Sensor: sensor_001")
	second := strings.Index(out, "Sensor: sensor_002")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)

	assert.Contains(t, out, "Found 2 anomalies:")
	assert.Contains(t, out, "No anomalies detected")
	assert.Contains(t, out, "Summary: 2 total anomalies detected across 2 sensors")
	assert.NotContains(t, out, "more")
}

func TestWriteTruncatesToTopN(t *testing.T) {
	var buf strings.Builder
	r := New(&buf)

	require.NoError(t, r.Write(Header{Start: "a", End: "b", SigmaThreshold: 3}, sampleResults(8)))

	out := buf.String()
	assert.Contains(t, out, "Found 8 anomalies:")
	assert.Contains(t, out, "... and 3 more")
	assert.Equal(t, DefaultTopAnomalies, strings.Count(out, "Deviation:"))
	assert.Contains(t, out, "Summary: 8 total anomalies detected across 2 sensors")
}

func TestWriteShowAllAnomalies(t *testing.T) {
	var buf strings.Builder
	r := New(&buf, WithTopAnomalies(0))

	require.NoError(t, r.Write(Header{Start: "a", End: "b", SigmaThreshold: 3}, sampleResults(8)))

	out := buf.String()
	assert.Equal(t, 8, strings.Count(out, "Deviation:"))
	assert.NotContains(t, out, "more")
}
