package repositories

import (
	"context"

	"github.com/caselab/lab_case_app/internal/core/domain"
)

// AuditLogAppender defines the only write operation the audit store has.
// There is deliberately no update or delete: an audit log that can be edited
// is not an audit log.
type AuditLogAppender interface {
	// AppendEntries inserts the given entries as one atomic batch.
	AppendEntries(ctx context.Context, entries []domain.AuditLogEntry) error
}

// AuditLogReader defines read operations over a case's audit trail.
type AuditLogReader interface {
	// ListEntriesByCase retrieves a case's history oldest-first, paginated with
	// token cursors. Ties on changedAt are broken by insertion order.
	ListEntriesByCase(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)
}

// AuditLogRepositoryFacade combines the audit repository interfaces.
type AuditLogRepositoryFacade interface {
	AuditLogAppender
	AuditLogReader
}
