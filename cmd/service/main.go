// Package main is the entry point for the service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/quotecards/internal/adapters/card"
	"github.com/jsamuelsen/quotecards/internal/adapters/clients"
	"github.com/jsamuelsen/quotecards/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotecards/internal/adapters/corpus"
	"github.com/jsamuelsen/quotecards/internal/adapters/http"
	"github.com/jsamuelsen/quotecards/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotecards/internal/adapters/storage"
	"github.com/jsamuelsen/quotecards/internal/app"
	"github.com/jsamuelsen/quotecards/internal/platform/config"
	"github.com/jsamuelsen/quotecards/internal/platform/logging"
	"github.com/jsamuelsen/quotecards/internal/platform/metrics"
	"github.com/jsamuelsen/quotecards/internal/platform/telemetry"
	"github.com/jsamuelsen/quotecards/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	m := metrics.New()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Open the state store
	store, closeStore, err := openStore(cfg.Storage, healthRegistry)
	if err != nil {
		return err
	}
	defer closeStore()

	// 7. Load the corpus and restore the rotation
	quotes, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		logger.Warn("corpus unavailable, using built-in quotes",
			slog.String("path", cfg.Corpus.Path),
			slog.Any("error", err),
		)

		quotes = corpus.Fallback()
	}

	rotation := app.NewQuoteRotationStore(app.RotationStoreConfig{
		Store:       store,
		Random:      newRandom(cfg.Rotation.Seed),
		Logger:      logger,
		Metrics:     m,
		HistorySize: cfg.Rotation.HistorySize,
	})

	fallback := corpus.Fallback()[0]
	if _, err := rotation.Initialize(ctx, quotes, &fallback); err != nil {
		return fmt.Errorf("initializing rotation: %w", err)
	}

	catalog := app.NewQuoteCatalog(rotation.Corpus())

	// 8. Create the card renderer
	font, err := card.LoadFont(cfg.Card.FontPath)
	if err != nil {
		return fmt.Errorf("loading card font: %w", err)
	}

	renderer, err := card.New(card.Config{Font: font, Logger: logger, Metrics: m})
	if err != nil {
		return fmt.Errorf("creating card renderer: %w", err)
	}

	cardService := app.NewCardService(app.CardServiceConfig{
		Rotation:    rotation,
		Catalog:     catalog,
		Renderer:    renderer,
		Style:       cfg.Card.Style(),
		Label:       cfg.Card.Label,
		MaxParallel: cfg.Card.MaxParallel,
		Logger:      logger,
	})

	// 9. Create the story proxy client (ACL pattern)
	storyHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Story.BaseURL,
		ServiceName: cfg.Services.Story.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating story client: %w", err)
	}

	if err := healthRegistry.RegisterOptional(storyHTTP); err != nil {
		return fmt.Errorf("registering story client health check: %w", err)
	}

	storyService := app.NewStoryService(acl.NewStoryClient(storyHTTP, logger), logger)

	// 10. Create HTTP server and routes
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.Telemetry.ServiceName,
		Timeout:     http.DefaultRequestTimeout,
		Health:      handlers.NewHealthHandler(healthRegistry, buildInfo, m.Handler()),
		Quotes:      handlers.NewQuoteHandler(rotation, catalog, cfg.Card.Brand, cfg.Card.ShareURL),
		Cards:       handlers.NewCardHandler(cardService),
		Stories:     handlers.NewStoryHandler(storyService),
	})

	// 11. Serve until a shutdown signal arrives
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

// openStore opens the configured state store. The bolt store is registered as
// a readiness check.
func openStore(cfg config.StorageConfig, registry ports.HealthRegistry) (ports.KeyValueStore, func(), error) {
	switch cfg.Driver {
	case "memory":
		return storage.NewMemory(), func() {}, nil
	case "bolt":
		db, err := storage.OpenBolt(storage.BoltConfig{
			Path:    cfg.Path,
			Bucket:  cfg.Bucket,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening state store: %w", err)
		}

		if err := registry.Register(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("registering state store health check: %w", err)
		}

		return db, func() {
			if err := db.Close(); err != nil {
				slog.Error("closing state store", slog.Any("error", err))
			}
		}, nil
	default:
		return nil, nil, errors.New("unknown storage driver " + cfg.Driver)
	}
}

// newRandom returns a PCG source for seed, or nil to let the rotation seed
// from the clock.
func newRandom(seed uint64) ports.RandomSource {
	if seed == 0 {
		return nil
	}

	return rand.New(rand.NewPCG(seed, seed>>1))
}
