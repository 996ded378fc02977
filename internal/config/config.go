package config

import (
	"fmt"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/imishinist/training-cli/internal/models"
	timeutils "github.com/imishinist/training-cli/internal/time"
)

const (
	DefaultBackend   = "polyaxon"
	DefaultListLimit = 20
	DefaultTimeout   = 60 * time.Second
	DefaultErrorMode = "call"
	DefaultOutput    = "json"
	DefaultLogLevel  = "warn"
)

// Valid configuration values
var (
	validErrorModes = map[string]bool{
		"call": true, "history": true,
	}
	validOutputs = map[string]bool{
		"json": true, "yaml": true, "text": true,
	}
)

type Config struct {
	Backend       string
	Debug         bool
	SyncTimezone  string
	ListLimit     int
	Sort          string
	Timeout       time.Duration
	ErrorMode     string
	ProjectPrefix string
	Output        string
	LogLevel      string
}

// SetDefaults registers the default value of every key on the global viper instance.
func SetDefaults() {
	viper.SetDefault("training", DefaultBackend)
	viper.SetDefault("debug", false)
	viper.SetDefault("sync_timezone", timeutils.DefaultSyncTimezone)
	viper.SetDefault("list_limit", DefaultListLimit)
	viper.SetDefault("sort", "")
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("error_mode", DefaultErrorMode)
	viper.SetDefault("project_prefix", "")
	viper.SetDefault("output", DefaultOutput)
	viper.SetDefault("log_level", DefaultLogLevel)
}

func New() *Config {
	return &Config{
		Backend:       strings.TrimSpace(viper.GetString("training")),
		Debug:         viper.GetBool("debug"),
		SyncTimezone:  viper.GetString("sync_timezone"),
		ListLimit:     viper.GetInt("list_limit"),
		Sort:          viper.GetString("sort"),
		Timeout:       viper.GetDuration("timeout"),
		ErrorMode:     strings.ToLower(viper.GetString("error_mode")),
		ProjectPrefix: viper.GetString("project_prefix"),
		Output:        strings.ToLower(viper.GetString("output")),
		LogLevel:      viper.GetString("log_level"),
	}
}

func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("training backend is required")
	}

	if c.ListLimit <= 0 {
		return fmt.Errorf("invalid list limit: %d (must be positive)", c.ListLimit)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s (must be positive)", c.Timeout)
	}

	if !validErrorModes[c.ErrorMode] {
		return fmt.Errorf("invalid error mode: %s (valid: call, history)", c.ErrorMode)
	}

	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output format: %s (valid: json, yaml, text)", c.Output)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolves the timezone used for copy sync_time parameters.
func (c *Config) Location() (*time.Location, error) {
	return timeutils.LoadLocation(c.SyncTimezone)
}

// BackendName returns the configured training backend, e.g. "polyaxon".
func (c *Config) BackendName() string {
	return c.Backend
}

// Lookup returns the connection settings stored under name. The second
// result is false when none of the settings are present.
func (c *Config) Lookup(name string) (models.BackendSettings, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	settings := models.BackendSettings{
		Host:     strings.TrimRight(strings.TrimSpace(viper.GetString(key+".host")), "/"),
		Username: viper.GetString(key + ".username"),
		Password: viper.GetString(key + ".password"),
		Project:  strings.Trim(strings.TrimSpace(viper.GetString(key+".project")), "/"),
	}
	found := settings.Host != "" || settings.Username != "" || settings.Password != "" || settings.Project != ""
	return settings, found
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// BindEnv makes every key readable from TRAINING_* environment variables,
// with dots in nested keys mapped to underscores.
func BindEnv() {
	viper.SetEnvPrefix("TRAINING")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
}
