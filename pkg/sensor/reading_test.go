package sensor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadingValidate(t *testing.T) {
	valid := Reading{
		SensorID:  "sensor_001",
		Value:     21.4,
		Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(r *Reading)
		wantErr bool
	}{
		{
			name:   "valid reading",
			mutate: func(r *Reading) {},
		},
		{
			name:   "negative value is fine",
			mutate: func(r *Reading) { r.Value = -40 },
		},
		{
			name:    "missing sensor id",
			mutate:  func(r *Reading) { r.SensorID = "" },
			wantErr: true,
		},
		{
			name:    "zero timestamp",
			mutate:  func(r *Reading) { r.Timestamp = time.Time{} },
			wantErr: true,
		},
		{
			name:    "NaN value",
			mutate:  func(r *Reading) { r.Value = math.NaN() },
			wantErr: true,
		},
		{
			name:    "infinite value",
			mutate:  func(r *Reading) { r.Value = math.Inf(-1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
