// Package detectors provides statistical anomaly detection over sensor readings.
package detectors

import "github.com/driftlab/sensorwatch/pkg/sensor"

// GroupDetector is the common interface for detectors that partition a window
// of readings by sensor and flag outliers per group.
type GroupDetector interface {
	// Detect computes per-sensor statistics over the given readings and
	// returns one GroupResult per sensor id present in the input.
	// It never mutates the input; calling it twice on the same readings
	// yields identical results.
	Detect(readings []sensor.Reading) (map[string]GroupResult, error)
}

// Anomaly is a reading whose value exceeded its group's threshold, paired
// with its deviation from the group mean in standard deviations.
type Anomaly struct {
	Reading sensor.Reading
	// Deviation is (value - mean) / stddev, or 0 when stddev is 0.
	Deviation float64
}

// GroupResult holds the descriptive statistics and flagged anomalies for one
// sensor's readings within the queried window.
type GroupResult struct {
	SensorID  string
	Count     int
	Mean      float64
	Variance  float64
	StdDev    float64
	Threshold float64
	// Anomalies is the full list of flagged readings, sorted by deviation
	// descending (ties broken by most recent timestamp first). Capping the
	// list for display is the reporter's concern.
	Anomalies []Anomaly
}
