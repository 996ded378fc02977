package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestNew_Defaults(t *testing.T) {
	resetViper(t)

	cfg := New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultBackend, cfg.BackendName())
	assert.False(t, cfg.Debug)
	assert.Equal(t, DefaultListLimit, cfg.ListLimit)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "call", cfg.ErrorMode)
	assert.Equal(t, "json", cfg.Output)

	loc, err := cfg.Location()
	require.NoError(t, err)
	_, offset := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).In(loc).Zone()
	assert.Equal(t, 3*60*60, offset)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"empty backend", "training", " ", "training backend is required"},
		{"zero limit", "list_limit", 0, "invalid list limit"},
		{"zero timeout", "timeout", "0s", "invalid timeout"},
		{"error mode", "error_mode", "sometimes", "invalid error mode"},
		{"output", "output", "xml", "invalid output format"},
		{"log level", "log_level", "loud", "invalid log level"},
		{"timezone", "sync_timezone", "Mars/Olympus", "unsupported timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.val)

			err := New().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLookup(t *testing.T) {
	resetViper(t)
	viper.Set("polyaxon.host", " https://polyaxon.example.com/ ")
	viper.Set("polyaxon.username", "robot")
	viper.Set("polyaxon.password", "secret")
	viper.Set("polyaxon.project", "/team.vision/")

	settings, ok := New().Lookup("Polyaxon")
	require.True(t, ok)
	assert.Equal(t, "https://polyaxon.example.com", settings.Host)
	assert.Equal(t, "robot", settings.Username)
	assert.Equal(t, "secret", settings.Password)
	assert.Equal(t, "team.vision", settings.Project)

	_, ok = New().Lookup("other")
	assert.False(t, ok)
}

func TestLookup_FromEnvironment(t *testing.T) {
	resetViper(t)
	t.Setenv("TRAINING_POLYAXON_HOST", "http://10.0.0.5:8000")
	BindEnv()

	settings, ok := New().Lookup("polyaxon")
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.5:8000", settings.Host)
}
