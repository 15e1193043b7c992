// Package sigma implements per-sensor threshold anomaly detection using the
// N-sigma rule: a reading is anomalous when its value strictly exceeds
// mean + N*stddev of its sensor's readings within the queried window.
package sigma

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/driftlab/sensorwatch/pkg/detectors"
	"github.com/driftlab/sensorwatch/pkg/sensor"
)

// DefaultSigmaThreshold is the classic 3-sigma rule.
const DefaultSigmaThreshold = 3.0

var (
	// ErrInvalidThreshold is returned when the sigma threshold is negative
	// or not finite. A threshold of exactly 0 is legal: it flags every
	// reading strictly above its group mean.
	ErrInvalidThreshold = errors.New("sigma threshold must be finite and non-negative")

	// ErrNonFiniteValue is returned when any input reading carries a NaN or
	// infinite value. The whole computation fails before any statistics are
	// produced.
	ErrNonFiniteValue = errors.New("reading value must be finite")

	// ErrMissingSensorID is returned when an input reading has no sensor id
	// to group by.
	ErrMissingSensorID = errors.New("reading has no sensor id")
)

// Detector groups readings by sensor id and flags values beyond the group's
// statistical threshold. It holds no state across calls and is safe for
// concurrent use.
type Detector struct {
	sigmaThreshold float64
}

// Option configures a Detector.
type Option func(*Detector)

// WithSigmaThreshold sets the multiplier N in mean + N*stddev.
func WithSigmaThreshold(n float64) Option {
	return func(d *Detector) {
		d.sigmaThreshold = n
	}
}

// New creates a Detector. Without options it applies the 3-sigma rule.
func New(opts ...Option) *Detector {
	d := &Detector{
		sigmaThreshold: DefaultSigmaThreshold,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SigmaThreshold returns the configured multiplier.
func (d *Detector) SigmaThreshold() float64 {
	return d.sigmaThreshold
}

// Detect computes count, mean, population variance, standard deviation and
// threshold for each sensor present in readings, and partitions each group's
// readings into normal and anomalous.
//
// The input is expected to be pre-filtered to the desired time window and is
// never mutated. Readings should arrive ordered by timestamp ascending so
// that listings are deterministic; the statistics themselves are order
// independent. An empty input yields an empty map and no error.
func (d *Detector) Detect(readings []sensor.Reading) (map[string]detectors.GroupResult, error) {
	if math.IsNaN(d.sigmaThreshold) || math.IsInf(d.sigmaThreshold, 0) || d.sigmaThreshold < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, d.sigmaThreshold)
	}

	// Validate everything up front: a malformed request must fail whole,
	// never produce partial results.
	for i := range readings {
		r := &readings[i]
		if r.SensorID == "" {
			return nil, fmt.Errorf("%w: reading %d", ErrMissingSensorID, i)
		}
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: sensor %s, reading %d, value %v",
				ErrNonFiniteValue, r.SensorID, i, r.Value)
		}
	}

	groups := make(map[string][]sensor.Reading)
	for _, r := range readings {
		groups[r.SensorID] = append(groups[r.SensorID], r)
	}

	results := make(map[string]detectors.GroupResult, len(groups))
	for id, grp := range groups {
		results[id] = d.analyzeGroup(id, grp)
	}

	return results, nil
}

// analyzeGroup computes the statistics for one sensor's readings.
// grp is never empty: groups only exist for sensors that had readings.
func (d *Detector) analyzeGroup(id string, grp []sensor.Reading) detectors.GroupResult {
	n := float64(len(grp))

	var sum float64
	for _, r := range grp {
		sum += r.Value
	}
	mean := sum / n

	// Population variance: divisor is count, not count-1. This matches the
	// aggregation the detector replaces; switching to sample variance would
	// shift thresholds for small groups.
	var variance float64
	for _, r := range grp {
		diff := r.Value - mean
		variance += diff * diff
	}
	variance /= n

	stddev := math.Sqrt(variance)
	threshold := mean + d.sigmaThreshold*stddev

	var anomalies []detectors.Anomaly
	for _, r := range grp {
		if r.Value <= threshold {
			continue
		}
		deviation := 0.0
		if stddev > 0 {
			deviation = (r.Value - mean) / stddev
		}
		anomalies = append(anomalies, detectors.Anomaly{Reading: r, Deviation: deviation})
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		if anomalies[i].Deviation != anomalies[j].Deviation {
			return anomalies[i].Deviation > anomalies[j].Deviation
		}
		return anomalies[i].Reading.Timestamp.After(anomalies[j].Reading.Timestamp)
	})

	return detectors.GroupResult{
		SensorID:  id,
		Count:     len(grp),
		Mean:      mean,
		Variance:  variance,
		StdDev:    stddev,
		Threshold: threshold,
		Anomalies: anomalies,
	}
}
