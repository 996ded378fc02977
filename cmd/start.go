package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/imishinist/training-cli/internal/models"
	"github.com/imishinist/training-cli/internal/parser"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a training run",
	Long: `Start a training run by copying the most recent succeeded experiment.
The copy is tagged with the given name and the current sync time.`,
	Example: `  # Start a run named after the dataset
  training-cli start --name "retrain 2019-12-20"

  # Pass extra parameters to the copied experiment
  training-cli start --name nightly --param epochs=20 --from-file params.yaml`,
	RunE: startTraining,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().String("name", "", "Name of the new run (required)")
	startCmd.Flags().StringArray("param", []string{}, "Extra parameters in key=value format")
	startCmd.Flags().String("from-file", "", "Load extra parameters from file (JSON/YAML/TOML)")
	startCmd.MarkFlagRequired("name")
}

func startTraining(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	pairs, _ := cmd.Flags().GetStringArray("param")
	fromFile, _ := cmd.Flags().GetString("from-file")

	params, err := buildParams(pairs, fromFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tr, cfg, err := newTraining(ctx)
	if err != nil {
		return err
	}

	resp := tr.Start(ctx, name, params)
	if err := writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output, resp, func(w io.Writer, started bool) {
		if started {
			fmt.Fprintf(w, "Training started: %s\n", name)
		} else {
			fmt.Fprintf(w, "Training not started: %s\n", name)
		}
	}); err != nil {
		return err
	}
	return finish(resp.Failed())
}

// buildParams merges file parameters with command line pairs; pairs win.
func buildParams(pairs []string, fromFile string) (models.CopyParams, error) {
	params := models.CopyParams{}

	if fromFile != "" {
		file, err := os.Open(fromFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", fromFile, err)
		}
		defer file.Close()

		fileParams, err := parser.ParseParamsFile(fromFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parameters file: %w", err)
		}
		for key, value := range fileParams {
			params[key] = value
		}
	}

	flagParams, err := parser.ParseKeyValues(pairs)
	if err != nil {
		return nil, err
	}
	for key, value := range flagParams {
		params[key] = value
	}

	return params, nil
}
