// Package report renders detection results as human-readable text. All
// truncation (showing only the top-N anomalies per sensor) happens here; the
// detector always returns full lists.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/driftlab/sensorwatch/pkg/detectors"
)

// DefaultTopAnomalies is how many anomalies are printed per sensor.
const DefaultTopAnomalies = 5

const rule = "======================================================================"

// Reporter writes plain-text detection reports.
type Reporter struct {
	w    io.Writer
	topN int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTopAnomalies sets how many anomalies to print per sensor. Zero or
// negative means print all of them.
func WithTopAnomalies(n int) Option {
	return func(r *Reporter) {
		r.topN = n
	}
}

// New creates a Reporter writing to w.
func New(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		w:    w,
		topN: DefaultTopAnomalies,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Header describes the detection run being reported.
type Header struct {
	Start          string
	End            string
	SigmaThreshold float64
}

// Write renders the full report: a header, one block per sensor in ascending
// sensor-id order, and a closing summary. An empty result set reports "no
// sensors, no anomalies" rather than erroring.
func (r *Reporter) Write(hdr Header, results map[string]detectors.GroupResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\nSensor Anomaly Detection Results\n%s\n", rule)
	fmt.Fprintf(&b, "Time Range: %s to %s\n", hdr.Start, hdr.End)
	fmt.Fprintf(&b, "Sigma Threshold: %g\n\n", hdr.SigmaThreshold)

	if len(results) == 0 {
		fmt.Fprintf(&b, "No readings in the selected window: no sensors, no anomalies.\n")
		_, err := io.WriteString(r.w, b.String())
		return err
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var totalAnomalies int
	for _, id := range ids {
		res := results[id]
		totalAnomalies += len(res.Anomalies)
		r.writeSensor(&b, res)
	}

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "Summary: %d total anomalies detected across %d sensors\n", totalAnomalies, len(ids))

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Reporter) writeSensor(b *strings.Builder, res detectors.GroupResult) {
	fmt.Fprintf(b, "Sensor: %s\n", res.SensorID)
	fmt.Fprintf(b, "  Readings: %d\n", res.Count)
	fmt.Fprintf(b, "  Mean: %.2f | Std Dev: %.2f | Threshold: %.2f\n",
		res.Mean, res.StdDev, res.Threshold)

	if len(res.Anomalies) == 0 {
		fmt.Fprintf(b, "  No anomalies detected\n\n")
		return
	}

	fmt.Fprintf(b, "  Found %d anomalies:\n", len(res.Anomalies))

	shown := res.Anomalies
	if r.topN > 0 && len(shown) > r.topN {
		shown = shown[:r.topN]
	}
	for _, a := range shown {
		fmt.Fprintf(b, "    %s | Value: %.2f | Deviation: %.2f sigma\n",
			a.Reading.Timestamp.Format("2006-01-02 15:04:05"), a.Reading.Value, a.Deviation)
	}
	if hidden := len(res.Anomalies) - len(shown); hidden > 0 {
		fmt.Fprintf(b, "    ... and %d more\n", hidden)
	}
	fmt.Fprintf(b, "\n")
}
