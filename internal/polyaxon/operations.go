package polyaxon

import (
	"context"
	"strconv"
	"strings"

	"github.com/imishinist/training-cli/internal/models"
	timeutils "github.com/imishinist/training-cli/internal/time"
)

// List returns the latest experiments keyed by UUID.
func (c *Client) List(ctx context.Context) (models.ExperimentList, []models.Diagnostic) {
	var diags []models.Diagnostic
	list := models.NewExperimentList()

	experiments, body, err := c.getExperiments(ctx, c.opts.ListLimit, c.opts.Sort)
	if err != nil {
		c.record(&diags, err)
		return list, diags
	}
	if len(experiments) == 0 {
		c.record(&diags, models.Diagnosticf(models.KindMalformed, "no experiments received: %s", rawBody(body)))
		return list, diags
	}

	for _, payload := range experiments {
		list.Add(c.normalize(ctx, payload, &diags))
	}

	return list, diags
}

// Start copies the most recent succeeded experiment under the given name.
// No copy is requested when there is no succeeded experiment.
func (c *Client) Start(ctx context.Context, name string, params models.CopyParams) (bool, []models.Diagnostic) {
	var diags []models.Diagnostic

	id, err := c.lastSucceeded(ctx)
	if err != nil {
		c.record(&diags, err)
		return false, diags
	}

	if err := c.copyExperiment(ctx, id, name, params); err != nil {
		c.record(&diags, err)
		return false, diags
	}

	c.log.Infof("copied experiment %d as %q", id, name)
	return true, diags
}

// Stop requests termination and returns the experiment's refreshed record.
func (c *Client) Stop(ctx context.Context, id int64) (models.Experiment, []models.Diagnostic) {
	var diags []models.Diagnostic

	if err := c.stopExperiment(ctx, id); err != nil {
		c.record(&diags, err)
	}

	experiment, checkDiags := c.Check(ctx, id)
	return experiment, append(diags, checkDiags...)
}

// Check returns the normalized record of one experiment, or an empty record
// when the backend does not return it.
func (c *Client) Check(ctx context.Context, id int64) (models.Experiment, []models.Diagnostic) {
	var diags []models.Diagnostic

	payload, err := c.getExperiment(ctx, id)
	if err != nil {
		c.record(&diags, err)
		return models.Experiment{}, diags
	}

	return c.normalize(ctx, *payload, &diags), diags
}

// normalize maps a backend payload to a record, looking up the latest status
// message for ambiguous statuses. A failed lookup leaves the message unset.
func (c *Client) normalize(ctx context.Context, p experimentPayload, diags *[]models.Diagnostic) models.Experiment {
	status := models.Status(p.LastStatus)

	experiment := models.Experiment{
		ID:         p.ID,
		UUID:       p.UUID,
		Status:     status,
		StatusText: status.Text(),
		Name:       p.Description,
		Project:    strings.TrimPrefix(p.Project, c.opts.ProjectPrefix),
		Percent:    int(metricInt(p.LastMetric, "train_net_percentage")),
	}

	if start, err := timeutils.ParseTimestamp(p.CreatedAt); err == nil {
		experiment.StartTime = &start
	} else if p.CreatedAt != "" {
		c.log.Debugf("experiment %d: %v", p.ID, err)
	}
	if p.FinishedAt != nil {
		if end, err := timeutils.ParseTimestamp(*p.FinishedAt); err == nil {
			experiment.EndTime = &end
		}
	}
	if v, ok := p.LastMetric["step"]; ok && v != nil {
		step := metricInt(p.LastMetric, "step")
		experiment.Step = &step
	}

	if status.IsAmbiguous() {
		message, err := c.latestStatusMessage(ctx, p.ID)
		if err != nil {
			c.record(diags, err)
		} else {
			experiment.ErrorMessage = &message
		}
	}

	return experiment
}

// metricInt truncates a numeric or numeric-string metric; anything else is 0.
func metricInt(metrics map[string]any, key string) int64 {
	switch v := metrics[key].(type) {
	case float64:
		return int64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return int64(f)
	}
	return 0
}
