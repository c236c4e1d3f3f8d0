// Package middleware provides the gin middleware chain of the API server
package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/alchemorsel/mealplan/internal/infrastructure/monitoring"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Middleware provides all middleware functions
type Middleware struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates a new middleware instance
func New(cfg *config.Config, metrics *monitoring.Metrics, logger *zap.Logger) *Middleware {
	return &Middleware{
		config:  cfg,
		logger:  logger.Named("http"),
		metrics: metrics,
	}
}

// RequestID adds a unique request ID to the context and the X-Request-ID header
func (m *Middleware) RequestID() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(uuid.NewString))
}

// Logger provides structured logging for requests. Query strings are not
// logged because websocket handshakes may carry a token there.
func (m *Middleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestid.Get(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.String("ip", c.ClientIP()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		if userID, ok := c.Get(userIDKey); ok {
			fields = append(fields, zap.Uint("user_id", userID.(uint)))
		}

		switch {
		case status >= http.StatusInternalServerError:
			m.logger.Error("Server error", fields...)
		case status >= http.StatusBadRequest:
			m.logger.Warn("Client error", fields...)
		default:
			m.logger.Info("Request completed", fields...)
		}
	}
}

// Recovery recovers from panics and returns a 500 error
func (m *Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				m.logger.Error("Panic recovered",
					zap.String("request_id", requestid.Get(c)),
					zap.Any("error", rec),
					zap.ByteString("stack", debug.Stack()),
				)

				appErr := errors.NewInternalError("An unexpected error occurred")
				c.AbortWithStatusJSON(appErr.StatusCode(), errors.ToErrorResponse(appErr, requestid.Get(c)))
			}
		}()

		c.Next()
	}
}

// CORS handles Cross-Origin Resource Sharing. An empty origin list or "*"
// allows every origin without credentials.
func (m *Middleware) CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: m.config.CORS.AllowCredentials,
		MaxAge:           m.config.CORS.MaxAge,
	}

	if m.config.Auth.HeaderName != "" {
		cfg.AllowHeaders = append(cfg.AllowHeaders, m.config.Auth.HeaderName)
	}

	origins := m.config.CORS.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Metrics records request counts, latency and in-flight requests by route
func (m *Middleware) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		inFlight := m.metrics.InFlight()
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Security adds security headers
func (m *Middleware) Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// Timeout bounds the request context. Handlers observe the deadline through
// their store calls; ErrorHandler reports it as 504.
func (m *Middleware) Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 || websocket.IsWebSocketUpgrade(c.Request) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ErrorHandler renders the last error pushed with c.Error. Server error
// causes are logged and never serialised.
func (m *Middleware) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := toAppError(err)
		requestID := requestid.Get(c)

		if appErr.IsServerError() {
			m.logger.Error("Request failed",
				zap.String("request_id", requestID),
				zap.String("code", string(appErr.Code)),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		} else {
			m.logger.Debug("Request rejected",
				zap.String("request_id", requestID),
				zap.String("code", string(appErr.Code)),
				zap.String("details", appErr.Details),
			)
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
	}
}

func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
		if appErr.IsServerError() && stderrors.Is(err, context.DeadlineExceeded) {
			return errors.NewTimeoutError().WithCause(err)
		}
		return appErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError().WithCause(err)
	default:
		return errors.NewInternalError("An unexpected error occurred").WithCause(err)
	}
}
