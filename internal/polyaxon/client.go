package polyaxon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/imishinist/training-cli/internal/models"
	timeutils "github.com/imishinist/training-cli/internal/time"
	"github.com/imishinist/training-cli/internal/transport"
)

// Name is the backend name; connection settings are looked up under it.
const Name = "polyaxon"

const (
	apiVersion       = "v1"
	tokenType        = "token"
	tokenEndpoint    = "users/token"
	defaultListLimit = 20
	successScanLimit = 100
)

// SettingsProvider supplies connection settings by name.
type SettingsProvider interface {
	Lookup(name string) (models.BackendSettings, bool)
}

type Options struct {
	// Transport defaults to an HTTPTransport with the default timeout.
	Transport transport.Transport
	// Debug makes copied experiments run on a sample of the dataset.
	Debug bool
	// Location is the timezone of the sync_time copy parameter.
	Location      *time.Location
	ListLimit     int
	Sort          string
	ProjectPrefix string
	Now           func() time.Time
	Logger        logger.FieldLogger
}

// Client is the Polyaxon training backend. A Client whose authentication
// failed stays usable: its requests go out without a token and fail on the
// server side.
type Client struct {
	settings  models.BackendSettings
	token     string
	transport transport.Transport
	opts      Options
	log       logger.FieldLogger
	setup     []models.Diagnostic
}

// New loads the settings stored under Name and exchanges the credentials for
// a token. Failures are kept as setup diagnostics, see Setup.
func New(ctx context.Context, provider SettingsProvider, opts Options) *Client {
	if opts.Transport == nil {
		opts.Transport = transport.NewHTTPTransport(transport.DefaultTimeout)
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = defaultListLimit
	}
	if opts.Location == nil {
		opts.Location, _ = timeutils.LoadLocation(timeutils.DefaultSyncTimezone)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.WithField("backend", Name)
	}

	c := &Client{
		transport: opts.Transport,
		opts:      opts,
		log:       opts.Logger,
	}

	if provider != nil {
		if settings, ok := provider.Lookup(Name); ok {
			c.settings = settings
		} else {
			c.log.Warnf("no settings found under %q", Name)
		}
	}

	if err := c.auth(ctx); err != nil {
		d := models.AsDiagnostic(err)
		c.log.Warnf("authentication failed: %s", d.Message)
		c.setup = append(c.setup, d)
	}

	return c
}

// Setup returns the diagnostics recorded while constructing the client.
func (c *Client) Setup() []models.Diagnostic {
	return append([]models.Diagnostic(nil), c.setup...)
}

// Authenticated reports whether a token was obtained.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

func (c *Client) auth(ctx context.Context) error {
	credentials := map[string]string{
		"username": c.settings.Username,
		"password": c.settings.Password,
	}

	body, err := c.request(ctx, http.MethodPost, tokenEndpoint, credentials)
	if err != nil {
		var d models.Diagnostic
		if errors.As(err, &d) && d.Kind == models.KindConfiguration {
			return d
		}
		return models.Diagnosticf(models.KindAuthentication, "failed to authenticate: %v", err)
	}

	var response struct {
		Token string `json:"token"`
	}
	if !c.decode(body, &response) || response.Token == "" {
		return models.Diagnosticf(models.KindAuthentication, "failed to obtain token: %s", rawBody(body))
	}

	c.token = response.Token
	c.log.Infof("authenticated as %s", c.settings.Username)
	return nil
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.token != "" {
		headers["Authorization"] = tokenType + " " + c.token
		headers["Accept-Encoding"] = "gzip,deflate"
	}
	return headers
}

// request calls {host}/api/v1/{endpoint} and returns the decoded body. A nil
// body with a nil error means the server replied with no content.
func (c *Client) request(ctx context.Context, method, endpoint string, data any) ([]byte, error) {
	if c.settings.Host == "" {
		return nil, models.Diagnosticf(models.KindConfiguration, "check the host setting of %q", Name)
	}

	url := c.settings.Host + "/api/" + apiVersion + "/" + endpoint
	c.log.Debugf("%s %s", method, url)

	resp, err := c.transport.Do(ctx, transport.Request{
		Method:  method,
		URL:     url,
		Headers: c.headers(),
		Body:    data,
	})
	if err != nil {
		return nil, models.Diagnostic{Kind: models.KindTransport, Message: strings.TrimSpace(err.Error())}
	}
	if len(resp.Body) == 0 {
		return nil, nil
	}

	body, err := transport.Decode(resp.Body, resp.ContentEncoding)
	if err != nil {
		return nil, models.Diagnostic{Kind: models.KindMalformed, Message: err.Error()}
	}
	return body, nil
}

// decode reports whether body held JSON matching out. Callers check the
// expected keys and report the raw body when they are missing.
func (c *Client) decode(body []byte, out any) bool {
	if len(body) == 0 {
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.log.Debugf("failed to decode response: %v", err)
		return false
	}
	return true
}

// record appends d to diags and logs it.
func (c *Client) record(diags *[]models.Diagnostic, err error) {
	d := models.AsDiagnostic(err)
	c.log.WithField("kind", d.Kind).Warn(d.Message)
	*diags = append(*diags, d)
}

func rawBody(body []byte) string {
	if len(body) == 0 {
		return "[]"
	}
	return string(body)
}
