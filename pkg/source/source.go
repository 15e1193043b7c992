// Package source defines the interfaces for fetching sensor readings from
// external collaborators (databases, files, ...).
package source

import (
	"context"
	"time"

	"github.com/driftlab/sensorwatch/pkg/sensor"
)

// Source is the interface for reading sources. Implementations deliver
// readings whose timestamps fall within [start, end], ordered by timestamp
// ascending so downstream listings are deterministic.
type Source interface {
	// Fetch returns all readings in the window.
	Fetch(ctx context.Context, start, end time.Time) ([]sensor.Reading, error)

	// Close releases resources.
	Close() error
}

// Streamer is implemented by sources that can deliver readings incrementally,
// for datasets too large to hold in memory at once.
type Streamer interface {
	// Stream returns a channel of readings in the window. The channel is
	// closed when the source is exhausted or the context is cancelled.
	Stream(ctx context.Context, start, end time.Time) (<-chan sensor.Reading, error)
}

// Sink is the interface for destinations that accept generated readings.
type Sink interface {
	// Insert stores the given readings.
	Insert(ctx context.Context, readings []sensor.Reading) error

	// Clear removes all stored readings.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
