package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues runs without YAML files and only sees defaults().
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quotecards", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DefaultClientRetryMaxAttempts, cfg.Client.Retry.MaxAttempts)
	assert.Equal(t, "story-api", cfg.Services.Story.Name)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_STORAGE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoad_EnvVarOverridesUnderscoredKeys(t *testing.T) {
	t.Setenv("APP_ROTATION_HISTORY_SIZE", "25")
	t.Setenv("APP_CARD_MAX_PARALLEL", "2")
	t.Setenv("APP_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("APP_SERVICES_STORY_BASE_URL", "https://story.example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Rotation.HistorySize)
	assert.Equal(t, 2, cfg.Card.MaxParallel)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://story.example.com", cfg.Services.Story.BaseURL)
}

func TestEnvKeyMapper(t *testing.T) {
	mapper := envKeyMapper([]string{"card.font_path", "server.port"})

	assert.Equal(t, "card.font_path", mapper("APP_CARD_FONT_PATH"))
	assert.Equal(t, "server.port", mapper("APP_SERVER_PORT"))
	assert.Equal(t, "unknown.key", mapper("APP_UNKNOWN_KEY"))
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
	assert.Equal(t, time.Second, cfg.Storage.Timeout)
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quotecards", cfg.App.Name)
}

func TestLoad_ProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"),
		[]byte("card:\n  brand: 基础\n  dpr: 2\nstorage:\n  bucket: base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "test.yaml"),
		[]byte("storage:\n  bucket: profile\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "基础", cfg.Card.Brand)
	assert.InDelta(t, 2.0, cfg.Card.DPR, 0)
	assert.Equal(t, "profile", cfg.Storage.Bucket)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"),
		[]byte("card: [unclosed"), 0o600))
	t.Chdir(dir)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_TELEMETRY_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_StorageAndRotationDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "./data/quotecards.db", cfg.Storage.Path)
	assert.Equal(t, "quotecards", cfg.Storage.Bucket)
	assert.Empty(t, cfg.Corpus.Path)
	assert.Equal(t, DefaultHistorySize, cfg.Rotation.HistorySize)
	assert.Zero(t, cfg.Rotation.Seed)
}

func TestLoad_CardDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 540, cfg.Card.Width)
	assert.Equal(t, 960, cfg.Card.Height)
	assert.Equal(t, 60, cfg.Card.Padding)
	assert.Equal(t, "金句卡片", cfg.Card.Label)
	assert.Equal(t, "上节好课", cfg.Card.Brand)
	assert.Equal(t, DefaultCardMaxParallel, cfg.Card.MaxParallel)
}

func TestCardConfig_Style(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Card.DPR = 2
	cfg.Card.Brand = "品牌"
	style := cfg.Card.Style()

	assert.Equal(t, 540, style.Width)
	assert.Equal(t, 960, style.Height)
	assert.InDelta(t, 2.0, style.DPR, 0)
	assert.Equal(t, "品牌", style.Brand)
	assert.Equal(t, 20, style.DecorationCount, "palette and decorations keep their defaults")
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/app.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.True(t, cfg.Log.File.Compress)
}

func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "quotecards", d["app.name"])
	assert.Equal(t, "quotecards", d["telemetry.service_name"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "bolt", d["storage.driver"])
	assert.Equal(t, DefaultHistorySize, d["rotation.history_size"])
}
