// ABOUTME: Configuration management with local backend selection and Notion credentials
// ABOUTME: Loads YAML with struct-tag defaults, applies env overrides, and builds the stores

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/notion"
	"github.com/harper/readlog/internal/persist"
	"github.com/harper/readlog/internal/storage"
)

// Environment variables that override the config file.
const (
	EnvNotionToken = "NOTION_TOKEN"
	EnvNotionDB    = "NOTION_DB_ID"
)

var validate = validator.New()

// Config stores readlog configuration.
type Config struct {
	// DataDir is the root directory for the local store and sidecar.
	// Supports ~ expansion. Defaults to $XDG_DATA_HOME/readlog.
	DataDir string `yaml:"data_dir,omitempty"`

	// LocalBackend selects the local store: "csv" (default) or "sqlite".
	LocalBackend string `yaml:"local_backend" default:"csv" validate:"oneof=csv sqlite"`

	// RequireProgress rejects entries with zero pages and zero minutes.
	RequireProgress *bool `yaml:"require_progress" default:"true"`

	LogLevel string `yaml:"log_level" default:"warn" validate:"oneof=debug info warn error"`

	// Moods extends the built-in mood choices.
	Moods []string `yaml:"moods,omitempty"`

	Notion NotionConfig `yaml:"notion"`

	path string

	// Credentials as read from the file and from the environment. An env
	// value is only kept out of the file while it is still the live value.
	fileToken string
	fileDBID  string
	envToken  string
	envDBID   string
}

// NotionConfig holds remote store settings.
type NotionConfig struct {
	Token      string        `yaml:"token"`
	DatabaseID string        `yaml:"database_id"`
	BaseURL    string        `yaml:"base_url,omitempty"`
	Timeout    int           `yaml:"timeout" default:"20" validate:"gte=1"`
	QueryLimit int           `yaml:"query_limit" default:"200" validate:"gte=1"`
	Properties notion.Schema `yaml:"properties"`
}

// New returns a config with every default applied.
func New() *Config {
	c := &Config{}
	_ = defaults.Set(c)
	c.path = GetConfigPath()
	return c
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, appDirName, configFileName)
}

// Load reads config from path, or the default path when empty. A missing
// file yields defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	c.path = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, errors.Wrap(err, "parse config file failed")
		}
		// Fill fields present in the file but left empty.
		if err := defaults.Set(c); err != nil {
			return nil, errors.Wrap(err, "re-set default config failed")
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrap(err, "read config file failed")
	}

	c.applyEnv()

	if err := validate.Struct(c); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.fileToken, c.fileDBID = c.Notion.Token, c.Notion.DatabaseID
	if v := strings.TrimSpace(os.Getenv(EnvNotionToken)); v != "" {
		c.Notion.Token = v
		c.envToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNotionDB)); v != "" {
		c.Notion.DatabaseID = v
		c.envDBID = v
	}
}

// Path returns the file this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes config to disk. Credentials that came from the environment are
// not written back; a credential changed since Load is.
func (c *Config) Save() error {
	out := *c
	if c.envToken != "" && c.Notion.Token == c.envToken {
		out.Notion.Token = c.fileToken
	}
	if c.envDBID != "" && c.Notion.DatabaseID == c.envDBID {
		out.Notion.DatabaseID = c.fileDBID
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := storage.AtomicWrite(c.path, data); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
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

// defaultDataDir returns the standard XDG data directory for readlog.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appDirName)
}

// GetLocalBackend returns the configured backend, defaulting to csv.
func (c *Config) GetLocalBackend() string {
	if c.LocalBackend == "" {
		return BackendCSV
	}
	return c.LocalBackend
}

// LocalPath returns the file used by the given local backend.
func (c *Config) LocalPath(backend string) string {
	if backend == BackendSQLite {
		return filepath.Join(c.GetDataDir(), storage.DefaultSQLiteFile)
	}
	return filepath.Join(c.GetDataDir(), storage.DefaultCSVFile)
}

// LastBookPath returns the sidecar file path.
func (c *Config) LastBookPath() string {
	return filepath.Join(c.GetDataDir(), storage.DefaultLastBookFile)
}

// OpenLocal creates the LocalStore for the configured backend.
func (c *Config) OpenLocal(logger *zap.Logger) (storage.LocalStore, error) {
	return c.OpenLocalBackend(c.GetLocalBackend(), logger)
}

// OpenLocalBackend creates a LocalStore for an explicit backend.
func (c *Config) OpenLocalBackend(backend string, logger *zap.Logger) (storage.LocalStore, error) {
	path := c.LocalPath(backend)
	switch backend {
	case BackendCSV:
		return storage.NewCSVStore(path, logger), nil
	case BackendSQLite:
		return storage.NewSQLiteStore(path, logger)
	default:
		return nil, errors.Errorf("unknown local backend: %q", backend)
	}
}

// NotionConfigured reports whether both Notion credentials are present.
func (c *Config) NotionConfigured() bool {
	return c.Notion.Token != "" && c.Notion.DatabaseID != ""
}

// OpenNotion creates the remote store. It may be unconfigured.
func (c *Config) OpenNotion(ctx context.Context, logger *zap.Logger) *storage.NotionStore {
	return storage.NewNotionStore(ctx, storage.NotionOptions{
		Client: notion.Config{
			Token:      c.Notion.Token,
			DatabaseID: c.Notion.DatabaseID,
			BaseURL:    c.Notion.BaseURL,
			Timeout:    time.Duration(c.Notion.Timeout) * time.Second,
		},
		Schema:     c.Notion.Properties,
		QueryLimit: c.Notion.QueryLimit,
	}, logger)
}

// OpenCoordinator wires Notion first and the local store as fallback.
func (c *Config) OpenCoordinator(ctx context.Context, logger *zap.Logger) (*persist.Coordinator, error) {
	local, err := c.OpenLocal(logger)
	if err != nil {
		return nil, err
	}
	lastBook := storage.NewLastBook(c.LastBookPath())
	return persist.New(local, lastBook, logger, c.OpenNotion(ctx, logger)), nil
}

// ValidateOptions returns the write-time policy for entries.
func (c *Config) ValidateOptions() models.ValidateOptions {
	require := true
	if c.RequireProgress != nil {
		require = *c.RequireProgress
	}
	return models.ValidateOptions{RequireProgress: require, ExtraMoods: c.Moods}
}
