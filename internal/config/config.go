// ABOUTME: Nourish configuration management with backend selection.
// ABOUTME: Loads settings through viper and opens the configured storage backend.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/nourish/internal/progress"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultBackend        = "sqlite"
	DefaultProgressSource = "local"
	DefaultRemoteTimeout  = 10 * time.Second
	EnvPrefix             = "NOURISH"
)

// Config stores nourish configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "kv".
	Backend string `mapstructure:"backend" yaml:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts nourish.db here. The KV backend uses a kv/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/nourish.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// User is the ID prefix or name of the active user.
	User string `mapstructure:"user" yaml:"user,omitempty"`

	// ProgressSource selects where progress comes from: "local" or "remote".
	ProgressSource string `mapstructure:"progress_source" yaml:"progress_source,omitempty"`

	Remote       Remote `mapstructure:"remote" yaml:"remote,omitempty"`
	FeedbackDays int    `mapstructure:"feedback_days" yaml:"feedback_days,omitempty"`
	Log          Log    `mapstructure:"log" yaml:"log,omitempty"`
}

// Remote configures the REST progress backend.
type Remote struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Log configures diagnostics.
type Log struct {
	Debug bool   `mapstructure:"debug" yaml:"debug,omitempty"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetProgressSource returns "local" or "remote", defaulting to "local".
func (c *Config) GetProgressSource() string {
	if c.ProgressSource == "" {
		return DefaultProgressSource
	}
	return c.ProgressSource
}

// GetFeedbackDays returns the feedback window, defaulting to 7.
func (c *Config) GetFeedbackDays() int {
	if c.FeedbackDays == 0 {
		return progress.DefaultFeedbackDays
	}
	return c.FeedbackDays
}

// GetLogFile returns the log file path, defaulting to nourish.log in the data directory.
func (c *Config) GetLogFile() string {
	if c.Log.File == "" {
		return filepath.Join(c.GetDataDir(), "nourish.log")
	}
	return ExpandPath(c.Log.File)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case "sqlite", "kv":
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}

	switch c.GetProgressSource() {
	case "local":
	case "remote":
		if c.Remote.BaseURL == "" {
			return errors.New("progress_source is remote but remote.base_url is empty")
		}
	default:
		return fmt.Errorf("unknown progress_source: %q", c.ProgressSource)
	}

	days := c.GetFeedbackDays()
	if days < progress.MinFeedbackDays || days > progress.MaxFeedbackDays {
		return fmt.Errorf("feedback_days %d must be between %d and %d", days, progress.MinFeedbackDays, progress.MaxFeedbackDays)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative")
	}
	return nil
}

// DefaultDataDir returns $XDG_DATA_HOME/nourish, or ~/.local/share/nourish.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "nourish")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// BackendPath returns where the named backend keeps its data under the data directory.
func (c *Config) BackendPath(backend string) (string, error) {
	switch backend {
	case "sqlite":
		return filepath.Join(c.GetDataDir(), "nourish.db"), nil
	case "kv":
		return filepath.Join(c.GetDataDir(), "kv"), nil
	default:
		return "", fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenBackend opens the named backend regardless of the configured one.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	path, err := c.BackendPath(backend)
	if err != nil {
		return nil, err
	}
	if backend == "kv" {
		return storage.OpenKV(path)
	}
	return storage.Open(path)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nourish", "config.yaml")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("progress_source", DefaultProgressSource)
	v.SetDefault("remote.timeout", DefaultRemoteTimeout)
	v.SetDefault("feedback_days", progress.DefaultFeedbackDays)
	v.SetDefault("log.debug", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	for _, key := range []string{"data_dir", "user", "remote.base_url", "log.file"} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads config from disk and the environment. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads config from path and the environment.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config to path as YAML.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	v := viper.New()
	v.Set("backend", c.Backend)
	v.Set("data_dir", c.DataDir)
	v.Set("user", c.User)
	v.Set("progress_source", c.ProgressSource)
	v.Set("remote.base_url", c.Remote.BaseURL)
	v.Set("remote.timeout", c.Remote.Timeout.String())
	v.Set("feedback_days", c.FeedbackDays)
	v.Set("log.debug", c.Log.Debug)
	v.Set("log.file", c.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}
