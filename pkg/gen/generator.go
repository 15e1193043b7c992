// Package gen produces synthetic sensor readings with injected outliers for
// exercising the anomaly detector.
package gen

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/driftlab/sensorwatch/pkg/sensor"
)

// Profile describes one synthetic sensor: readings cluster around Base with
// roughly 10% variation, and injected outliers land 50-100% above Base so
// they are guaranteed to clear a 3-sigma threshold.
type Profile struct {
	ID       string
	Type     string
	Base     float64
	Unit     string
	Location string
}

// DefaultProfiles returns the standard set of synthetic sensors.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: "sensor_001", Type: "temperature", Base: 22, Unit: "celsius", Location: "Room A"},
		{ID: "sensor_002", Type: "humidity", Base: 65, Unit: "percentage", Location: "Room A"},
		{ID: "sensor_003", Type: "pressure", Base: 1013, Unit: "hPa", Location: "Room B"},
		{ID: "sensor_004", Type: "co2", Base: 450, Unit: "ppm", Location: "Room B"},
		{ID: "sensor_005", Type: "light", Base: 350, Unit: "lux", Location: "Room C"},
	}
}

// Generator creates randomized readings across a set of sensor profiles.
type Generator struct {
	count       int
	anomalyRate float64
	spread      time.Duration
	profiles    []Profile
	rng         *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithCount sets how many readings to generate.
func WithCount(n int) Option {
	return func(g *Generator) {
		g.count = n
	}
}

// WithAnomalyRate sets the fraction of readings that are injected outliers,
// in [0, 1].
func WithAnomalyRate(rate float64) Option {
	return func(g *Generator) {
		g.anomalyRate = rate
	}
}

// WithSpread sets the period before "now" that timestamps are drawn from.
func WithSpread(d time.Duration) Option {
	return func(g *Generator) {
		g.spread = d
	}
}

// WithProfiles replaces the default sensor profiles.
func WithProfiles(profiles []Profile) Option {
	return func(g *Generator) {
		g.profiles = profiles
	}
}

// WithSeed sets the random seed for reproducibility.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a Generator. Defaults: 500 readings, 5% anomaly rate,
// timestamps spread over the 10 days before "now", the default profiles.
func New(opts ...Option) *Generator {
	g := &Generator{
		count:       500,
		anomalyRate: 0.05,
		spread:      10 * 24 * time.Hour,
		profiles:    DefaultProfiles(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate produces readings with timestamps uniformly distributed in
// [now-spread, now], sorted by timestamp ascending.
func (g *Generator) Generate(now time.Time) []sensor.Reading {
	out := make([]sensor.Reading, 0, g.count)

	for i := 0; i < g.count; i++ {
		p := g.profiles[g.rng.Intn(len(g.profiles))]

		ts := now.Add(-time.Duration(g.rng.Float64() * float64(g.spread)))

		value := p.Base + (g.rng.Float64()*2-1)*p.Base*0.1
		if g.rng.Float64() < g.anomalyRate {
			// 50-100% above base: guaranteed to stand out from the
			// +-10% background noise.
			value = p.Base + p.Base*(0.5+g.rng.Float64()*0.5)
		}

		out = append(out, sensor.Reading{
			ID:         uuid.NewString(),
			SensorID:   p.ID,
			SensorType: p.Type,
			Value:      value,
			Unit:       p.Unit,
			Location:   p.Location,
			Timestamp:  ts,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out
}

// Summary holds per-sensor descriptive numbers for generated data.
type Summary struct {
	Profile Profile
	Count   int
	Min     float64
	Max     float64
	Mean    float64
}

// Summarize computes a per-profile summary of the given readings, in profile
// order. Profiles with no readings are skipped.
func Summarize(profiles []Profile, readings []sensor.Reading) []Summary {
	out := make([]Summary, 0, len(profiles))

	for _, p := range profiles {
		s := Summary{Profile: p}
		var sum float64
		for _, r := range readings {
			if r.SensorID != p.ID {
				continue
			}
			if s.Count == 0 || r.Value < s.Min {
				s.Min = r.Value
			}
			if s.Count == 0 || r.Value > s.Max {
				s.Max = r.Value
			}
			sum += r.Value
			s.Count++
		}
		if s.Count == 0 {
			continue
		}
		s.Mean = sum / float64(s.Count)
		out = append(out, s)
	}

	return out
}
