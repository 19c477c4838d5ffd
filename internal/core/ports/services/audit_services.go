package services

import (
	"context"
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
)

// AuditSvcFacade is the caller-facing surface of the audit log writer/reader.
type AuditSvcFacade interface {
	// RecordChanges appends one entry per change. It independently guards
	// against an empty change set and writes nothing in that case.
	RecordChanges(ctx context.Context, caseID string, actor domain.Actor, changes []domain.Change) error

	// RecordLifecycleEvent appends exactly one creation/deletion sentinel entry.
	RecordLifecycleEvent(ctx context.Context, caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string) error

	// ListHistory returns the case's audit trail oldest-first with cursor
	// pagination.
	ListHistory(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error)

	// EntriesForChanges builds (without persisting) the entries RecordChanges
	// would write. The case service uses it to hand entries to the repository
	// so record update and audit append share one transaction.
	EntriesForChanges(caseID string, actor domain.Actor, changes []domain.Change, at time.Time) []domain.AuditLogEntry

	// LifecycleEntry builds (without persisting) a single sentinel entry.
	LifecycleEntry(caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string, at time.Time) domain.AuditLogEntry
}
