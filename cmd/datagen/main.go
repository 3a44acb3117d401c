/*
Datagen writes a synthetic dataset of business descriptions used to
fine-tune the domain-name model.

Usage:

	datagen [--count 200] [--output data/synthetic_dataset_v1.json] [--seed N]
*/
package main

import (
	"fmt"
	"os"

	"github.com/domaingen/api/internal/dataset"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultCount  = 200
	defaultOutput = "data/synthetic_dataset_v1.json"
)

type options struct {
	count  int
	output string
	seed   uint64
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "datagen",
		Short:         "Generate a synthetic business description dataset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", opts.count)
			}

			gen := dataset.NewGenerator(nil)
			if cmd.Flags().Changed("seed") {
				gen = dataset.NewSeededGenerator(opts.seed)
			}

			records := gen.Generate(opts.count)
			if err := dataset.Save(records, opts.output); err != nil {
				return err
			}

			logger.Info("dataset saved",
				zap.String("path", opts.output),
				zap.Int("records", len(records)),
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", defaultCount, "number of records to generate")
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutput, "destination JSON file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for reproducible output (random when unset)")

	return cmd
}

func main() {
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("dataset generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
