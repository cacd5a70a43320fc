package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"ghforecast/internal/domain"
	"ghforecast/internal/eventbus"
)

// FileName is the config file name looked up in the working and home directories
const FileName = ".ghforecast.toml"

// EnvPrefix prefixes environment overrides, e.g. GHFORECAST_BACKEND_BASE_URL
const EnvPrefix = "GHFORECAST"

// Default sentinel labels of the aggregate entries
const (
	DefaultStarsLabel = "Star count of all repos"
	DefaultForksLabel = "Fork count of all repos"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version           int               `mapstructure:"version" toml:"version"`
	LogFile           string            `mapstructure:"log_file" toml:"log_file"`
	DefaultRepository string            `mapstructure:"default_repository" toml:"default_repository"`
	Backend           BackendSettings   `mapstructure:"backend" toml:"backend"`
	Aggregates        AggregateSettings `mapstructure:"aggregates" toml:"aggregates"`
	UISettings        UISettings        `mapstructure:"ui" toml:"ui"`
	History           HistorySettings   `mapstructure:"history" toml:"history"`
	Repositories      []RepositoryEntry `mapstructure:"repositories" toml:"repositories"`
}

// BackendSettings locates the analytics service
type BackendSettings struct {
	BaseURL string        `mapstructure:"base_url" toml:"base_url"`
	Path    string        `mapstructure:"path" toml:"path"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout"` // 0 disables the timeout
}

// AggregateSettings names the two aggregate pseudo-entries
type AggregateSettings struct {
	StarsLabel string `mapstructure:"stars_label" toml:"stars_label"`
	ForksLabel string `mapstructure:"forks_label" toml:"forks_label"`
}

// ModeFor classifies a label by case-insensitive comparison against the
// sentinel labels
func (a AggregateSettings) ModeFor(label string) domain.Mode {
	switch {
	case strings.EqualFold(label, a.StarsLabel):
		return domain.ModeStars
	case strings.EqualFold(label, a.ForksLabel):
		return domain.ModeForks
	default:
		return domain.ModeDefault
	}
}

// UISettings represents UI-related configuration
type UISettings struct {
	LockWhileLoading bool `mapstructure:"lock_while_loading" toml:"lock_while_loading"`
	ChartHeight      int  `mapstructure:"chart_height" toml:"chart_height"`
}

// HistorySettings selects where fetch history is recorded
type HistorySettings struct {
	Backend string `mapstructure:"backend" toml:"backend"` // sqlite, postgres, mysql or none
	DSN     string `mapstructure:"dsn" toml:"dsn"`
}

// RepositoryEntry is one configured catalog entry. Kind is empty or
// "repository" for a single repository, "stars" or "forks" for an aggregate.
type RepositoryEntry struct {
	Key   string `mapstructure:"key" toml:"key"`
	Label string `mapstructure:"label" toml:"label"`
	Kind  string `mapstructure:"kind" toml:"kind,omitempty"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	v   *viper.Viper
	bus eventbus.EventBus
}

// NewConfigService creates a config service on top of v. Flags bound to v
// take precedence over the environment, which takes precedence over the file.
func NewConfigService(v *viper.Viper) ConfigService {
	if v == nil {
		v = viper.New()
	}
	applyDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &configService{v: v}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(v *viper.Viper, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(v).(*configService)
	cs.bus = bus
	return cs
}

func applyDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("default_repository", d.DefaultRepository)
	v.SetDefault("backend.base_url", d.Backend.BaseURL)
	v.SetDefault("backend.path", d.Backend.Path)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("aggregates.stars_label", d.Aggregates.StarsLabel)
	v.SetDefault("aggregates.forks_label", d.Aggregates.ForksLabel)
	v.SetDefault("ui.lock_while_loading", d.UISettings.LockWhileLoading)
	v.SetDefault("ui.chart_height", d.UISettings.ChartHeight)
	v.SetDefault("history.backend", d.History.Backend)
	v.SetDefault("history.dsn", d.History.DSN)
}

// Load reads the config file named by the viper instance, or searches the
// working and home directories. A missing file is not an error.
func (cs *configService) Load() (*Config, error) {
	if cs.v.ConfigFileUsed() == "" {
		cs.v.SetConfigName(strings.TrimSuffix(FileName, ".toml"))
		cs.v.SetConfigType("toml")
		cs.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			cs.v.AddConfigPath(home)
		}
	}

	if err := cs.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := cs.decode()
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:         cs.v.ConfigFileUsed(),
			Repositories: len(cfg.Repositories),
		})
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cs.v.SetConfigFile(path)
	cs.v.SetConfigType("toml")
	if err := cs.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return cs.decode()
}

func (cs *configService) decode() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Repositories = nil
	if err := cs.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Repositories) == 0 {
		cfg.Repositories = DefaultRepositories()
	} else if cfg.DefaultRepository == DefaultConfig().DefaultRepository && !hasKey(cfg.Repositories, cfg.DefaultRepository) {
		// a custom list without the built-in default starts on its first entry
		cfg.DefaultRepository = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func hasKey(repos []RepositoryEntry, key string) bool {
	for _, r := range repos {
		if r.Key == key {
			return true
		}
	}
	return false
}

// Save saves the configuration to the file in use, or to the home directory
func (cs *configService) Save(config *Config) error {
	path := cs.Path()
	if err := cs.SaveToPath(config, path); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}

	return nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Path returns the config file in use, falling back to the home directory
func (cs *configService) Path() string {
	if used := cs.v.ConfigFileUsed(); used != "" {
		return used
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, FileName)
}

// Validate checks the invariants the catalog and backend client rely on
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return fmt.Errorf("%w: no repositories configured", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Repositories))
	for i, r := range c.Repositories {
		if strings.TrimSpace(r.Key) == "" {
			return fmt.Errorf("%w: repository %d has an empty key", ErrInvalidConfig, i)
		}
		mode, ok := domain.ParseMode(r.Kind)
		if !ok {
			return fmt.Errorf("%w: repository %q has unknown kind %q", ErrInvalidConfig, r.Key, r.Kind)
		}
		if r.Kind == "" {
			label := r.Label
			if label == "" {
				label = r.Key
			}
			mode = c.Aggregates.ModeFor(label)
		}
		if mode == domain.ModeDefault && strings.ContainsAny(r.Key, domain.StarsDelimiter+domain.ForksDelimiter) {
			return fmt.Errorf("%w: repository key %q contains a reserved delimiter", ErrInvalidConfig, r.Key)
		}
		if seen[r.Key] {
			return fmt.Errorf("%w: duplicate repository key %q", ErrInvalidConfig, r.Key)
		}
		seen[r.Key] = true
	}

	stars := strings.TrimSpace(c.Aggregates.StarsLabel)
	forks := strings.TrimSpace(c.Aggregates.ForksLabel)
	if stars == "" || forks == "" {
		return fmt.Errorf("%w: aggregate labels must not be empty", ErrInvalidConfig)
	}
	if strings.EqualFold(stars, forks) {
		return fmt.Errorf("%w: stars and forks labels must differ", ErrInvalidConfig)
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("%w: backend.timeout must not be negative", ErrInvalidConfig)
	}

	switch c.History.Backend {
	case "sqlite", "postgres", "mysql", "none":
	default:
		return fmt.Errorf("%w: history.backend %q must be sqlite, postgres, mysql or none", ErrInvalidConfig, c.History.Backend)
	}

	return nil
}

// DefaultRepositories returns the repositories tracked when none are configured
func DefaultRepositories() []RepositoryEntry {
	return []RepositoryEntry{
		{Key: "openai/openai-cookbook", Label: "OpenAI cookbook"},
		{Key: "elastic/elasticsearch", Label: "Elastic search"},
		{Key: "openai/openai-python", Label: "OpenAI python"},
		{Key: "milvus-io/pymilvus", Label: "pymilvus"},
		{Key: "sebholstein/angular-google-maps", Label: "sebastianM"},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:           1,
		LogFile:           "ghforecast.log",
		DefaultRepository: "openai/openai-cookbook",
		Backend: BackendSettings{
			BaseURL: "http://localhost:5000",
			Path:    "/api/github",
		},
		Aggregates: AggregateSettings{
			StarsLabel: DefaultStarsLabel,
			ForksLabel: DefaultForksLabel,
		},
		UISettings: UISettings{
			LockWhileLoading: true,
			ChartHeight:      12,
		},
		History: HistorySettings{
			Backend: "sqlite",
		},
		Repositories: DefaultRepositories(),
	}
}
