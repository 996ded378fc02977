package training

import (
	"context"
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/imishinist/training-cli/internal/models"
	"github.com/imishinist/training-cli/internal/polyaxon"
	"github.com/imishinist/training-cli/internal/transport"
)

// Backend is the contract every training backend satisfies.
type Backend interface {
	// Setup returns diagnostics recorded while connecting to the backend.
	Setup() []models.Diagnostic
	List(ctx context.Context) (models.ExperimentList, []models.Diagnostic)
	Start(ctx context.Context, name string, params models.CopyParams) (bool, []models.Diagnostic)
	Stop(ctx context.Context, id int64) (models.Experiment, []models.Diagnostic)
	Check(ctx context.Context, id int64) (models.Experiment, []models.Diagnostic)
}

// Ensure every backend kind implements Backend at compile time.
var _ Backend = (*polyaxon.Client)(nil)

// Kind names a supported backend.
type Kind string

const KindPolyaxon Kind = polyaxon.Name

var kinds = map[Kind]bool{
	KindPolyaxon: true,
}

// ParseKind matches a configured backend name case-insensitively.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !kinds[kind] {
		return "", fmt.Errorf("unsupported training backend: %q (valid: %s)", name, KindPolyaxon)
	}
	return kind, nil
}

// SettingsProvider supplies the configured backend name and its connection settings.
type SettingsProvider interface {
	BackendName() string
	Lookup(name string) (models.BackendSettings, bool)
}

// BackendOptions are the knobs shared by backend kinds.
type BackendOptions struct {
	Transport     transport.Transport
	Debug         bool
	Location      *time.Location
	ListLimit     int
	Sort          string
	ProjectPrefix string
	Logger        logger.FieldLogger
}

// NewBackend connects to the backend of the given kind.
func NewBackend(ctx context.Context, kind Kind, settings SettingsProvider, opts BackendOptions) (Backend, error) {
	switch kind {
	case KindPolyaxon:
		return polyaxon.New(ctx, settings, polyaxon.Options{
			Transport:     opts.Transport,
			Debug:         opts.Debug,
			Location:      opts.Location,
			ListLimit:     opts.ListLimit,
			Sort:          opts.Sort,
			ProjectPrefix: opts.ProjectPrefix,
			Logger:        opts.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported training backend: %q", kind)
	}
}
