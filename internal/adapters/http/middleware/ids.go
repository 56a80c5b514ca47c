package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotecards/internal/platform/logging"
)

// Header names and gin context keys for request-scoped ids.
const (
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID tracks a whole user interaction across services,
	// while HeaderRequestID identifies a single hop.
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

type idConfig struct {
	header     string
	key        string
	withID     func(ctx context.Context, id string) context.Context
	withLogger func(ctx context.Context, id string) context.Context
}

// RequestID reads X-Request-ID or generates a UUID, echoes it on the response
// and stores it in the gin context, the request context and the context logger.
func RequestID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header:     HeaderRequestID,
		key:        ContextKeyRequestID,
		withID:     ContextWithRequestID,
		withLogger: logging.WithRequestID,
	})
}

// CorrelationID is RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return idMiddleware(idConfig{
		header:     HeaderCorrelationID,
		key:        ContextKeyCorrelationID,
		withID:     ContextWithCorrelationID,
		withLogger: logging.WithCorrelationID,
	})
}

func idMiddleware(cfg idConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cfg.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(cfg.key, id)
		c.Header(cfg.header, id)

		ctx := cfg.withID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(cfg.withLogger(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}
