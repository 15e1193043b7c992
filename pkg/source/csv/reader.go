// Package csv provides a CSV-file reading source.
//
// Expected columns: sensor_id, sensor_type, value, unit, location, timestamp
// (RFC 3339). A header row is assumed by default.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/driftlab/sensorwatch/pkg/sensor"
)

// Reader reads sensor readings from CSV files.
type Reader struct {
	file      *os.File
	reader    *csv.Reader
	hasHeader bool
	headers   []string
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithHeader indicates whether the CSV has a header row.
func WithHeader(has bool) Option {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// NewReader creates a new CSV reading source.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		file:      file,
		reader:    csv.NewReader(file),
		hasHeader: true,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.hasHeader {
		headers, err := r.reader.Read()
		if err != nil {
			file.Close()
			return nil, err
		}
		r.headers = headers
	}

	return r, nil
}

// Headers returns the column headers, if any.
func (r *Reader) Headers() []string {
	return r.headers
}

// Fetch returns all readings whose timestamp falls within [start, end],
// ordered by timestamp ascending. Malformed rows are skipped.
func (r *Reader) Fetch(ctx context.Context, start, end time.Time) ([]sensor.Reading, error) {
	var out []sensor.Reading

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		reading, err := parseRow(record)
		if err != nil {
			continue // Skip malformed rows
		}
		if reading.Timestamp.Before(start) || reading.Timestamp.After(end) {
			continue
		}
		out = append(out, reading)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	return out, nil
}

// Stream returns a channel of in-window readings for incremental processing.
// Rows arrive in file order, not timestamp order.
func (r *Reader) Stream(ctx context.Context, start, end time.Time) (<-chan sensor.Reading, error) {
	out := make(chan sensor.Reading, 100)

	go func() {
		defer close(out)
		for {
			record, err := r.reader.Read()
			if err != nil {
				return
			}

			reading, err := parseRow(record)
			if err != nil {
				continue
			}
			if reading.Timestamp.Before(start) || reading.Timestamp.After(end) {
				continue
			}

			select {
			case out <- reading:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRow converts a CSV record to a reading.
func parseRow(record []string) (sensor.Reading, error) {
	if len(record) < 6 {
		return sensor.Reading{}, errors.New("row has fewer than 6 columns")
	}

	value, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("parse value: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, record[5])
	if err != nil {
		return sensor.Reading{}, fmt.Errorf("parse timestamp: %w", err)
	}

	reading := sensor.Reading{
		SensorID:   record[0],
		SensorType: record[1],
		Value:      value,
		Unit:       record[3],
		Location:   record[4],
		Timestamp:  ts,
	}
	if err := reading.Validate(); err != nil {
		return sensor.Reading{}, err
	}
	return reading, nil
}
