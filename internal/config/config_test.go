package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghforecast/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromPathReadsTOML(t *testing.T) {
	path := writeFile(t, `
default_repository = "acme/api"

[backend]
base_url = "https://forecast.example.com"
timeout = "15s"

[ui]
lock_while_loading = false

[[repositories]]
key = "acme/api"
label = "Acme API"

[[repositories]]
key = "acme/web"
label = "Acme Web"
`)

	cfg, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "acme/api", cfg.DefaultRepository)
	assert.Equal(t, "https://forecast.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "/api/github", cfg.Backend.Path, "unset keys keep their defaults")
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.UISettings.LockWhileLoading)
	require.Len(t, cfg.Repositories, 2, "configured repositories replace the defaults")
	assert.Equal(t, "acme/web", cfg.Repositories[1].Key)
	assert.Equal(t, DefaultStarsLabel, cfg.Aggregates.StarsLabel)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewConfigService(viper.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, `
[backend]
base_url = "https://file.example.com"
`)
	t.Setenv("GHFORECAST_BACKEND_BASE_URL", "https://env.example.com")
	t.Setenv("GHFORECAST_HISTORY_BACKEND", "none")

	cfg, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "none", cfg.History.Backend)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeFile(t, `
[[repositories]]
key = "acme/api acme/web"
label = "Both"
`)

	_, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "reserved delimiter")
}

func TestLoadFromMissingPath(t *testing.T) {
	_, err := NewConfigService(viper.New()).LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestSaveToPathCanBeLoadedBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "https://saved.example.com"
	cfg.Repositories = append(cfg.Repositories, RepositoryEntry{Key: "acme/api", Label: "Acme"})

	path := filepath.Join(t.TempDir(), "nested", FileName)
	require.NoError(t, NewConfigService(viper.New()).SaveToPath(cfg, path))

	loaded, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty repositories", func(c *Config) { c.Repositories = nil }, "no repositories"},
		{"empty key", func(c *Config) { c.Repositories[0].Key = " " }, "empty key"},
		{"fork delimiter", func(c *Config) { c.Repositories[0].Key = "a$b" }, "reserved delimiter"},
		{"unknown kind", func(c *Config) { c.Repositories[0].Kind = "watchers" }, "unknown kind"},
		{"duplicate key", func(c *Config) { c.Repositories[1].Key = c.Repositories[0].Key }, "duplicate"},
		{"same aggregate labels", func(c *Config) { c.Aggregates.ForksLabel = "star COUNT of all repos" }, "must differ"},
		{"relative url", func(c *Config) { c.Backend.BaseURL = "/api" }, "absolute URL"},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = -time.Second }, "negative"},
		{"history backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
	}

	require.NoError(t, DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAggregateKindMayUseDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repositories = append(cfg.Repositories, RepositoryEntry{
		Key:   "openai/openai-python$openai/openai-cookbook",
		Label: "OpenAI forks",
		Kind:  "forks",
	})
	assert.NoError(t, cfg.Validate())
}

func TestCustomRepositoriesDropBuiltInDefault(t *testing.T) {
	path := writeFile(t, `
[[repositories]]
key = "golang/go"
label = "Go"
`)

	cfg, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultRepository)
	require.Len(t, cfg.Repositories, 1)
}

func TestLoadClassifiesAggregateByLabel(t *testing.T) {
	path := writeFile(t, `
[[repositories]]
key = "a/b"
label = "A"

[[repositories]]
key = "a/b c/d"
label = "star count of all repos"
`)

	cfg, err := NewConfigService(viper.New()).LoadFromPath(path)
	require.NoError(t, err)
	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, domain.ModeStars, cfg.Aggregates.ModeFor(cfg.Repositories[1].Label))

	cfg.Repositories[1].Label = "Anything else"
	err = cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "reserved delimiter")
}
