package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/driftlab/sensorwatch/internal/config"
	"github.com/driftlab/sensorwatch/pkg/detectors/sigma"
	"github.com/driftlab/sensorwatch/pkg/report"
	"github.com/driftlab/sensorwatch/pkg/source"
	csvsource "github.com/driftlab/sensorwatch/pkg/source/csv"
	"github.com/driftlab/sensorwatch/pkg/store/sqlite"
)

func newDetectCommand() *cobra.Command {
	var (
		daysBack   int
		sigmaN     float64
		top        int
		dbPath     string
		csvPath    string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect anomalous readings in the recent time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Flags override config only when set explicitly.
			if !cmd.Flags().Changed("days-back") {
				daysBack = cfg.DaysBack
			}
			if !cmd.Flags().Changed("sigma") {
				sigmaN = cfg.SigmaThreshold
			}
			if !cmd.Flags().Changed("top") {
				top = cfg.TopAnomalies
			}
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.DatabasePath
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var src source.Source
			if csvPath != "" {
				src, err = csvsource.NewReader(csvPath)
				if err != nil {
					return fmt.Errorf("open csv source: %w", err)
				}
			} else {
				src, err = sqlite.Open(dbPath)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
			}
			defer src.Close()

			end := time.Now().UTC()
			start := end.AddDate(0, 0, -daysBack)

			readings, err := src.Fetch(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("fetch readings: %w", err)
			}
			logger.Info("fetched readings",
				zap.Int("count", len(readings)),
				zap.Time("start", start),
				zap.Time("end", end))

			detector := sigma.New(sigma.WithSigmaThreshold(sigmaN))
			results, err := detector.Detect(readings)
			if err != nil {
				return err
			}

			var total int
			for _, res := range results {
				total += len(res.Anomalies)
			}
			logger.Info("detection complete",
				zap.Int("sensors", len(results)),
				zap.Int("anomalies", total))

			reporter := report.New(cmd.OutOrStdout(), report.WithTopAnomalies(top))
			return reporter.Write(report.Header{
				Start:          start.Format("2006-01-02"),
				End:            end.Format("2006-01-02"),
				SigmaThreshold: sigmaN,
			}, results)
		},
	}

	cmd.Flags().IntVar(&daysBack, "days-back", 7, "length of the detection window in days")
	cmd.Flags().Float64Var(&sigmaN, "sigma", sigma.DefaultSigmaThreshold, "threshold multiplier N in mean + N*stddev")
	cmd.Flags().IntVar(&top, "top", report.DefaultTopAnomalies, "anomalies shown per sensor (0 = all)")
	cmd.Flags().StringVar(&dbPath, "db", "./sensorwatch.db", "path to the readings database")
	cmd.Flags().StringVar(&csvPath, "csv", "", "read from a CSV file instead of the database")

	return cmd
}
