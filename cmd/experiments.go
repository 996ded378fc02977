package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imishinist/training-cli/internal/config"
	"github.com/imishinist/training-cli/internal/training"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent experiments",
	Long:  "List the most recent experiments and mark the one currently running",
	RunE:  listExperiments,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show an experiment",
	Long:  "Fetch the current status of a single experiment",
	RunE:  checkExperiment,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop an experiment",
	Long:  "Request termination of an experiment and show its refreshed status",
	RunE:  stopExperiment,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(stopCmd)

	checkCmd.Flags().Int64("id", 0, "Experiment ID (required)")
	checkCmd.MarkFlagRequired("id")

	stopCmd.Flags().Int64("id", 0, "Experiment ID to stop (required)")
	stopCmd.MarkFlagRequired("id")
}

func newTraining(ctx context.Context) (*training.Training, *config.Config, error) {
	cfg := config.New()
	tr, err := training.New(ctx, cfg, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create training client: %w", err)
	}
	return tr, cfg, nil
}

func listExperiments(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	tr, cfg, err := newTraining(ctx)
	if err != nil {
		return err
	}

	resp := tr.List(ctx)
	if err := writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output, resp, printList); err != nil {
		return err
	}
	return finish(resp.Failed())
}

func checkExperiment(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("id")

	ctx := context.Background()
	tr, cfg, err := newTraining(ctx)
	if err != nil {
		return err
	}

	resp := tr.Check(ctx, id)
	if err := writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output, resp, printExperiment); err != nil {
		return err
	}
	return finish(resp.Failed())
}

func stopExperiment(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("id")

	ctx := context.Background()
	tr, cfg, err := newTraining(ctx)
	if err != nil {
		return err
	}

	resp := tr.Stop(ctx, id)
	if err := writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output, resp, printExperiment); err != nil {
		return err
	}
	return finish(resp.Failed())
}
