// Package middleware provides HTTP middleware for the facility platform.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "facilityos-backend",
		Enabled:     true,
	}
}

// Tracing returns tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns tracing middleware with custom configuration.
// Each request gets a server span named "METHOD route_pattern". Error
// responses (4xx/5xx) are marked with codes.Error status, and spans carry
// request_id, tenant_id, and user_id attributes when authentication has
// resolved them.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	tracer := otel.Tracer(cfg.ServiceName)

	return func(c *gin.Context) {
		spanName := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			spanName = c.Request.Method
		}

		ctx, span := tracer.Start(c.Request.Context(), spanName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.target", c.Request.URL.Path),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !span.IsRecording() {
			return
		}

		enrichSpanWithAttributes(c, span)

		statusCode := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		if statusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(statusCode))
		} else if statusCode >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(statusCode))
		}
	}
}

// enrichSpanWithAttributes adds identity attributes from the gin context
// once authentication middleware has resolved them.
func enrichSpanWithAttributes(c *gin.Context, span trace.Span) {
	if requestID := c.GetString("request_id"); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}

	if tenantID := c.GetString(TenantIDKey); tenantID != "" {
		span.SetAttributes(attribute.String("tenant_id", tenantID))
	}

	if user, ok := CurrentUser(c); ok {
		span.SetAttributes(attribute.String("user_id", user.ID.String()))
	}
}
