package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/driftlab/sensorwatch/internal/config"
	"github.com/driftlab/sensorwatch/pkg/gen"
	"github.com/driftlab/sensorwatch/pkg/store/sqlite"
)

func newGenerateCommand() *cobra.Command {
	var (
		count       int
		anomalyRate float64
		seed        int64
		dbPath      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Replace the stored readings with synthetic data",
		Long:  "Clears the readings database and fills it with randomized sensor readings, a configurable fraction of which are injected outliers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				dbPath = cfg.DatabasePath
			}
			if anomalyRate < 0 || anomalyRate > 1 {
				return fmt.Errorf("anomaly rate must be in [0, 1], got %v", anomalyRate)
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := sqlite.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			ctx := cmd.Context()
			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("clear store: %w", err)
			}

			opts := []gen.Option{
				gen.WithCount(count),
				gen.WithAnomalyRate(anomalyRate),
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, gen.WithSeed(seed))
			}

			readings := gen.New(opts...).Generate(time.Now().UTC())
			if err := store.Insert(ctx, readings); err != nil {
				return fmt.Errorf("insert readings: %w", err)
			}
			logger.Info("generated readings",
				zap.Int("count", len(readings)),
				zap.Float64("anomaly_rate", anomalyRate),
				zap.String("db", dbPath))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Inserted %d readings into %s\n\n", len(readings), dbPath)
			fmt.Fprintf(out, "Sensor Summary:\n")
			for _, s := range gen.Summarize(gen.DefaultProfiles(), readings) {
				fmt.Fprintf(out, "  %s (%s) at %s\n", s.Profile.ID, s.Profile.Type, s.Profile.Location)
				fmt.Fprintf(out, "    Readings: %d | Range: %.2f - %.2f %s | Mean: %.2f %s\n",
					s.Count, s.Min, s.Max, s.Profile.Unit, s.Mean, s.Profile.Unit)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 500, "number of readings to generate")
	cmd.Flags().Float64Var(&anomalyRate, "anomaly-rate", 0.05, "fraction of readings that are injected outliers")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible data")
	cmd.Flags().StringVar(&dbPath, "db", "./sensorwatch.db", "path to the readings database")

	return cmd
}
