package polyaxon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/imishinist/training-cli/internal/models"
	timeutils "github.com/imishinist/training-cli/internal/time"
)

type experimentPayload struct {
	ID          int64          `json:"id"`
	UUID        string         `json:"uuid"`
	Description string         `json:"description"`
	Project     string         `json:"project"`
	LastStatus  string         `json:"last_status"`
	CreatedAt   string         `json:"created_at"`
	FinishedAt  *string        `json:"finished_at"`
	LastMetric  map[string]any `json:"last_metric"`
}

type statusPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) experimentsEndpoint() string {
	return c.settings.Project + "/experiments"
}

func (c *Client) experimentEndpoint(id int64) string {
	return c.experimentsEndpoint() + "/" + strconv.FormatInt(id, 10)
}

// getExperiments returns the results page and the raw body. A response
// without a results key is malformed; an empty page is not.
func (c *Client) getExperiments(ctx context.Context, limit int, sort string) ([]experimentPayload, []byte, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", sort)

	body, err := c.request(ctx, http.MethodGet, c.experimentsEndpoint()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, body, err
	}

	var response struct {
		Results *[]experimentPayload `json:"results"`
	}
	if !c.decode(body, &response) || response.Results == nil {
		return nil, body, models.Diagnosticf(models.KindMalformed, "failed to get experiments: %s", rawBody(body))
	}
	return *response.Results, body, nil
}

// getExperiment returns a nil payload when the response carries no id.
func (c *Client) getExperiment(ctx context.Context, id int64) (*experimentPayload, error) {
	body, err := c.request(ctx, http.MethodGet, c.experimentEndpoint(id), nil)
	if err != nil {
		return nil, err
	}

	var experiment experimentPayload
	if !c.decode(body, &experiment) || experiment.ID == 0 {
		return nil, models.Diagnosticf(models.KindMalformed, "failed to get experiment %d: %s", id, rawBody(body))
	}
	return &experiment, nil
}

// lastSucceeded scans the most recent experiments for the first succeeded one.
// The scan uses the backend's default order, newest first, whatever the
// configured list sort.
func (c *Client) lastSucceeded(ctx context.Context) (int64, error) {
	experiments, _, err := c.getExperiments(ctx, successScanLimit, "")
	if err != nil {
		return 0, err
	}

	for _, experiment := range experiments {
		if models.Status(experiment.LastStatus) == models.StatusSucceeded && experiment.ID != 0 {
			return experiment.ID, nil
		}
	}

	return 0, models.Diagnosticf(models.KindBusinessRule,
		"no succeeded experiment found among the latest %d", successScanLimit)
}

func (c *Client) copyRequest(name string, params models.CopyParams) map[string]any {
	merged := make(map[string]any, len(params)+2)
	for key, value := range params {
		merged[key] = value
	}

	sampleSize := 0
	if c.opts.Debug {
		sampleSize = 1
	}
	merged["sync_time"] = timeutils.SyncTime(c.opts.Now(), c.opts.Location)
	merged["sample_size"] = sampleSize

	return map[string]any{
		"content": map[string]any{
			"params": merged,
		},
		"description": name,
	}
}

// copyExperiment clones the experiment under a new description. The backend
// acknowledges a copy with a non-null results key.
func (c *Client) copyExperiment(ctx context.Context, id int64, name string, params models.CopyParams) error {
	body, err := c.request(ctx, http.MethodPost, c.experimentEndpoint(id)+"/copy", c.copyRequest(name, params))
	if err != nil {
		return err
	}

	var response map[string]json.RawMessage
	if !c.decode(body, &response) {
		return models.Diagnosticf(models.KindMalformed, "failed to copy experiment %d: %s", id, rawBody(body))
	}
	if results, ok := response["results"]; !ok || string(results) == "null" {
		return models.Diagnosticf(models.KindMalformed, "failed to copy experiment %d: %s", id, rawBody(body))
	}
	return nil
}

func (c *Client) stopExperiment(ctx context.Context, id int64) error {
	_, err := c.request(ctx, http.MethodPost, c.experimentEndpoint(id)+"/stop", nil)
	return err
}

// latestStatusMessage returns the message of the newest status entry.
func (c *Client) latestStatusMessage(ctx context.Context, id int64) (string, error) {
	body, err := c.request(ctx, http.MethodGet, c.experimentEndpoint(id)+"/statuses", nil)
	if err != nil {
		return "", err
	}

	var response struct {
		Results []statusPayload `json:"results"`
	}
	if !c.decode(body, &response) || len(response.Results) == 0 {
		return "", models.Diagnosticf(models.KindMalformed, "failed to get statuses of experiment %d: %s", id, rawBody(body))
	}
	return response.Results[len(response.Results)-1].Message, nil
}
