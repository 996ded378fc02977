package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/imishinist/training-cli/internal/models"
	timeutils "github.com/imishinist/training-cli/internal/time"
	"github.com/imishinist/training-cli/internal/training"
)

// writeResponse prints resp in the requested format. Text output goes
// through printText, with error messages on stderr.
func writeResponse[T any](stdout, stderr io.Writer, format string, resp training.Response[T], printText func(io.Writer, T)) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	case "text":
		printText(stdout, resp.Data)
		for _, message := range resp.ErrorMessage {
			fmt.Fprintf(stderr, "Error: %s\n", message)
		}
	default:
		return fmt.Errorf("unsupported output format: %s (supported: json, yaml, text)", format)
	}
	return nil
}

// finish turns reported error messages into a failure when --strict is set.
func finish(failed bool) error {
	if failed && viper.GetBool("strict") {
		return errReported
	}
	return nil
}

func printList(w io.Writer, list models.ExperimentList) {
	experiments := make([]models.Experiment, 0, len(list.Data))
	for _, experiment := range list.Data {
		experiments = append(experiments, experiment)
	}
	sort.Slice(experiments, func(i, j int) bool {
		return experiments[i].ID > experiments[j].ID
	})

	if len(experiments) == 0 {
		fmt.Fprintln(w, "No experiments")
		return
	}
	for _, experiment := range experiments {
		marker := " "
		if list.Running != nil && *list.Running == experiment.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-6d %-30s %-30s %3d%%  %s\n",
			marker,
			experiment.ID,
			experiment.Name,
			experiment.StatusText,
			experiment.Percent,
			formatTime(experiment.StartTime),
		)
	}
}

func printExperiment(w io.Writer, experiment models.Experiment) {
	if experiment.IsZero() {
		fmt.Fprintln(w, "Experiment not found")
		return
	}

	fmt.Fprintf(w, "Experiment ID: %d\n", experiment.ID)
	fmt.Fprintf(w, "UUID: %s\n", experiment.UUID)
	fmt.Fprintf(w, "Name: %s\n", experiment.Name)
	fmt.Fprintf(w, "Status: %s (%s)\n", experiment.StatusText, experiment.Status)
	fmt.Fprintf(w, "Progress: %d%%\n", experiment.Percent)
	if experiment.Step != nil {
		fmt.Fprintf(w, "Step: %d\n", *experiment.Step)
	}
	if experiment.StartTime != nil {
		fmt.Fprintf(w, "Started: %s\n", timeutils.FormatDateTime(*experiment.StartTime))
	}
	if experiment.EndTime != nil {
		fmt.Fprintf(w, "Finished: %s\n", timeutils.FormatDateTime(*experiment.EndTime))
	}
	if experiment.ErrorMessage != nil && *experiment.ErrorMessage != "" {
		fmt.Fprintf(w, "Message: %s\n", *experiment.ErrorMessage)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeutils.FormatDateTime(*t)
}
