package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecards/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotecards/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotecards/internal/platform/telemetry"
)

// APIPrefix is the base path of the business endpoints.
const APIPrefix = "/api/v1"

// DefaultRequestTimeout bounds API requests other than the favorites archive.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers and settings used by SetupRouter.
// Nil handlers are skipped.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string
	Timeout     time.Duration

	Health  *handlers.HealthHandler
	Quotes  *handlers.QuoteHandler
	Cards   *handlers.CardHandler
	Stories *handlers.StoryHandler
}

// SetupRouter installs middleware and routes on engine. Middleware order:
//  1. Recovery
//  2. context logger, request ID, correlation ID
//  3. OpenTelemetry tracing and request metrics, X-Trace-ID
//  4. request logging (skips /-/)
//  5. per-request deadline on /api/v1
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.ServiceName),
		telemetry.TraceIDHeader(),
		middleware.Logging(),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterHealthRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	api := engine.Group(APIPrefix)
	api.Use(middleware.Timeout(timeout, APIPrefix+"/favorites/cards"))

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterQuoteRoutes(api)
	}

	if cfg.Cards != nil {
		cfg.Cards.RegisterCardRoutes(api)
	}

	if cfg.Stories != nil {
		cfg.Stories.RegisterStoryRoutes(api)
	}
}
