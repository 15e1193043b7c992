// Package cli implements the sensorwatch command-line interface.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRootCommand builds the sensorwatch root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sensorwatch",
		Short:         "Statistical anomaly detection for sensor readings",
		Long:          "sensorwatch flags sensor readings beyond mean + N*stddev of their sensor's recent history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDetectCommand())
	root.AddCommand(newGenerateCommand())

	return root
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
