package repositories

import (
	"context"

	"github.com/caselab/lab_case_app/internal/core/domain"
)

// CaseReader defines read operations for case records.
type CaseReader interface {
	// FindCaseByID retrieves a specific case by its unique identifier.
	FindCaseByID(ctx context.Context, caseID string) (*domain.CaseRecord, error)

	// ListCases retrieves a paginated list of cases using token-based pagination,
	// newest first. It returns the cases, a token for the next page, and an error.
	ListCases(ctx context.Context, limit int, nextToken *string) ([]domain.CaseRecord, *string, error)
}

// CaseWriter defines write operations for case records. Every write carries the
// audit entries that must land in the same database transaction as the record
// mutation; partial persistence of a change set is not an observable state.
type CaseWriter interface {
	// SaveCase inserts a new case together with its creation sentinel entry.
	SaveCase(ctx context.Context, record domain.CaseRecord, created domain.AuditLogEntry) error

	// UpdateCaseWithAudit persists an edited case and appends one audit entry per
	// change, all within one transaction. The row is version-guarded: when the
	// stored version differs from expectedVersion the update fails with
	// apperrors.ErrConflict and nothing is written.
	UpdateCaseWithAudit(ctx context.Context, record domain.CaseRecord, expectedVersion int64, entries []domain.AuditLogEntry) error

	// DeleteCase removes a case row and appends its deletion sentinel. Audit
	// history for the case is retained.
	DeleteCase(ctx context.Context, caseID string, deleted domain.AuditLogEntry) error
}

// CaseRepositoryFacade combines all case repository interfaces.
type CaseRepositoryFacade interface {
	CaseReader
	CaseWriter
}
