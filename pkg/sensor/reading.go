// Package sensor defines the reading data model shared by the generator,
// the stores and the detectors.
package sensor

import (
	"errors"
	"math"
	"time"
)

// Reading is a single timestamped measurement from one sensor.
// Readings are immutable once produced.
type Reading struct {
	ID         string    `json:"id"`
	SensorID   string    `json:"sensor_id"`
	SensorType string    `json:"sensor_type,omitempty"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Location   string    `json:"location,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Validate checks that the reading is well formed.
func (r *Reading) Validate() error {
	if r.SensorID == "" {
		return errors.New("sensor_id is required")
	}
	if r.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return errors.New("value must be finite")
	}
	return nil
}
