package facility

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// External collaborators. The platform consumes these interfaces; concrete
// transports (object stores, mail gateways, audit pipelines) live outside
// this repository.

// DocumentStorage stores and retrieves document payloads by storage key.
type DocumentStorage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// Notifier delivers user-facing notifications (login elsewhere, shares).
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error
}

// AuditSink receives access-decision provenance and mutation records.
type AuditSink interface {
	Record(ctx context.Context, event string, fields map[string]any) error
}
