package training

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/imishinist/training-cli/internal/config"
	"github.com/imishinist/training-cli/internal/models"
	"github.com/imishinist/training-cli/internal/transport"
)

// ErrorMode controls which diagnostics a Response carries.
type ErrorMode string

const (
	// ErrorModeCall reports the backend's setup diagnostics followed by the
	// diagnostics of the call itself.
	ErrorModeCall ErrorMode = "call"
	// ErrorModeHistory reports every diagnostic recorded since the Training
	// was built, oldest first.
	ErrorModeHistory ErrorMode = "history"
)

// Response pairs an operation's data with its error messages.
type Response[T any] struct {
	Data         T        `json:"data" yaml:"data"`
	ErrorMessage []string `json:"error_message" yaml:"error_message"`
}

// Failed reports whether any error message is present.
func (r Response[T]) Failed() bool {
	return len(r.ErrorMessage) > 0
}

// Training delegates the training operations to a single backend.
type Training struct {
	backend Backend
	mode    ErrorMode
	setup   []models.Diagnostic
	history []models.Diagnostic
}

func NewWithBackend(backend Backend, mode ErrorMode) *Training {
	if mode == "" {
		mode = ErrorModeCall
	}
	setup := backend.Setup()
	return &Training{
		backend: backend,
		mode:    mode,
		setup:   setup,
		history: append([]models.Diagnostic(nil), setup...),
	}
}

// New builds the backend named by the configuration.
func New(ctx context.Context, cfg *config.Config, tr transport.Transport) (*Training, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	kind, err := ParseKind(cfg.BackendName())
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if tr == nil {
		tr = transport.NewHTTPTransport(cfg.Timeout)
	}

	log := logger.WithFields(logger.Fields{
		"backend":    string(kind),
		"error_mode": cfg.ErrorMode,
	})
	backend, err := NewBackend(ctx, kind, cfg, BackendOptions{
		Transport:     tr,
		Debug:         cfg.Debug,
		Location:      loc,
		ListLimit:     cfg.ListLimit,
		Sort:          cfg.Sort,
		ProjectPrefix: cfg.ProjectPrefix,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	return NewWithBackend(backend, ErrorMode(cfg.ErrorMode)), nil
}

func (t *Training) List(ctx context.Context) Response[models.ExperimentList] {
	data, diags := t.backend.List(ctx)
	return Response[models.ExperimentList]{Data: data, ErrorMessage: t.messages(diags)}
}

func (t *Training) Start(ctx context.Context, name string, params models.CopyParams) Response[bool] {
	data, diags := t.backend.Start(ctx, name, params)
	return Response[bool]{Data: data, ErrorMessage: t.messages(diags)}
}

func (t *Training) Stop(ctx context.Context, id int64) Response[models.Experiment] {
	data, diags := t.backend.Stop(ctx, id)
	return Response[models.Experiment]{Data: data, ErrorMessage: t.messages(diags)}
}

func (t *Training) Check(ctx context.Context, id int64) Response[models.Experiment] {
	data, diags := t.backend.Check(ctx, id)
	return Response[models.Experiment]{Data: data, ErrorMessage: t.messages(diags)}
}

// History returns every diagnostic recorded so far, oldest first.
func (t *Training) History() []models.Diagnostic {
	return append([]models.Diagnostic(nil), t.history...)
}

func (t *Training) messages(diags []models.Diagnostic) []string {
	t.history = append(t.history, diags...)

	if t.mode == ErrorModeHistory {
		return models.Messages(t.history)
	}

	call := make([]models.Diagnostic, 0, len(t.setup)+len(diags))
	call = append(call, t.setup...)
	call = append(call, diags...)
	return models.Messages(call)
}
