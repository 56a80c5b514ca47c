package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quotecards",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{
			Story: ServiceEndpointConfig{
				BaseURL: "http://localhost:3000",
				Name:    "story-api",
			},
		},
		Storage: StorageConfig{
			Driver:  "bolt",
			Path:    "/tmp/quotecards.db",
			Bucket:  "quotecards",
			Timeout: time.Second,
		},
		Rotation: RotationConfig{HistorySize: 10},
		Card: CardConfig{
			Width:          540,
			Height:         960,
			Padding:        60,
			DPR:            1,
			LineHeight:     60,
			TopBarHeight:   8,
			QuoteFontSize:  36,
			AuthorFontSize: 24,
			BrandFontSize:  18,
			Brand:          "上节好课",
			Label:          "金句卡片",
			MaxParallel:    4,
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.name is required")
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "staging"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment must be one of")
	})
}

func TestConfig_Validate_ServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"minimum valid port", 1, false},
		{"maximum valid port", 65535, false},
		{"zero port", 0, true},
		{"port too high", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "server.port")
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("read timeout uses koanf key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.ReadTimeout = 500 * time.Millisecond

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.read_timeout must be at least 1s")
	})
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Log.Level = level

			assert.NoError(t, cfg.Validate())
		})
	}

	t.Run("invalid format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})

	t.Run("file enabled without path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.path is required when")
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.ServiceName = "quotecards"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.endpoint")

	cfg.Telemetry.Endpoint = "http://otel-collector:4317"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_StorageConfig(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = "redis"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver must be one of: bolt memory")
	})

	t.Run("bolt requires path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Path = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.path")
	})

	t.Run("memory does not need a path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Driver = "memory"
		cfg.Storage.Path = ""

		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_Validate_CardConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CardConfig)
		field  string
	}{
		{"zero width", func(c *CardConfig) { c.Width = 0 }, "card.width"},
		{"huge height", func(c *CardConfig) { c.Height = 5000 }, "card.height must be at most 4096"},
		{"zero dpr", func(c *CardConfig) { c.DPR = 0 }, "card.dpr"},
		{"negative dpr", func(c *CardConfig) { c.DPR = -1 }, "card.dpr must be greater than 0"},
		{"missing label", func(c *CardConfig) { c.Label = "" }, "card.label is required"},
		{"no parallelism", func(c *CardConfig) { c.MaxParallel = 0 }, "card.max_parallel"},
		{"padding fills width", func(c *CardConfig) { c.Padding = 270 }, "card.padding must be less than half of card.width"},
		{"padding exceeds width", func(c *CardConfig) { c.Padding = 400 }, "card.padding"},
		{"bad share url", func(c *CardConfig) { c.ShareURL = "quotes page" }, "card.share_url must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Card)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfig_Validate_CardPaddingBelowHalfWidth(t *testing.T) {
	cfg := validConfig()
	cfg.Card.Padding = 269

	assert.NoError(t, cfg.Validate())
}

//nolint:dupl // Test functions with similar structure are acceptable
func TestConfig_Validate_RetryConfig(t *testing.T) {
	tests := []struct {
		attempts int
		wantErr  bool
	}{
		{1, false},
		{10, false},
		{0, true},
		{11, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempts_%d", tt.attempts), func(t *testing.T) {
			cfg := validConfig()
			cfg.Client.Retry.MaxAttempts = tt.attempts

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "client.retry.max_attempts")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "invalid"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "app.name")
	assert.Contains(t, errStr, "app.version")
	assert.Contains(t, errStr, "app.environment")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.server.port", "server.port"},
		{"Config.client.retry.max_attempts", "client.retry.max_attempts"},
		{"Config.card.DPR", "card.dpr"},
		{"standalone", "standalone"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
