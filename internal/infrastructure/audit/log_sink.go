// Package audit provides audit sink implementations.
package audit

import (
	"context"

	"github.com/facilityos/backend/internal/domain/facility"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogSink writes audit records as structured log entries. Entries carry
// the tenant, user, and request correlation already present in the context.
type LogSink struct {
	logger *zap.Logger
}

// Ensure LogSink implements facility.AuditSink
var _ facility.AuditSink = (*LogSink)(nil)

// NewLogSink creates a new LogSink
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{logger: log}
}

// Record emits one audit entry
func (s *LogSink) Record(ctx context.Context, event string, fields map[string]any) error {
	zapFields := make([]zap.Field, 0, len(fields)+4)
	zapFields = append(zapFields, zap.String("event", event))
	if tenantID := logger.GetTenantID(ctx); tenantID != "" {
		zapFields = append(zapFields, zap.String("tenant_id", tenantID))
	}
	if userID := logger.GetUserID(ctx); userID != "" {
		zapFields = append(zapFields, zap.String("user_id", userID))
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		zapFields = append(zapFields, zap.String("request_id", requestID))
	}
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	s.logger.Info("audit", zapFields...)
	return nil
}
