package ports

import (
	"context"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence.
// Implementations must not block the caller beyond queueing.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditService persists audit entries; it runs behind the dispatcher.
type AuditService interface {
	Process(ctx context.Context, entry domain.AuditEntry) error
}

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
