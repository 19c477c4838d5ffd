package services

import (
	"context"

	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/dto"
	"github.com/caselab/lab_case_app/internal/utils/reconciliation"
)

// CaseReaderSvc defines read operations for cases.
type CaseReaderSvc interface {
	// GetCase retrieves a case with its freshly derived reconciliation state.
	GetCase(ctx context.Context, caseID string) (*domain.CaseRecord, reconciliation.Result, error)

	// ListCases retrieves a paginated list of cases, newest first.
	ListCases(ctx context.Context, limit int, nextToken *string) ([]domain.CaseRecord, *string, error)
}

// CaseWriterSvc defines write operations for cases.
type CaseWriterSvc interface {
	// CreateCase validates and persists a new case, writing its creation
	// sentinel to the audit trail in the same transaction.
	CreateCase(ctx context.Context, req dto.CreateCaseRequest, actor domain.Actor) (*domain.CaseRecord, error)

	// UpdateCase applies a partial edit: it diffs the proposal against the
	// stored state, persists the update together with one audit entry per real
	// change, and returns the updated case, the change set, and the derived
	// reconciliation. A stale req.Version fails with apperrors.ErrConflict.
	// An empty change set persists nothing and returns the case unchanged.
	UpdateCase(ctx context.Context, caseID string, req dto.UpdateCaseRequest, actor domain.Actor) (*domain.CaseRecord, []domain.Change, reconciliation.Result, error)

	// DeleteCase removes a case, leaving its deletion sentinel and prior audit
	// history in place.
	DeleteCase(ctx context.Context, caseID string, actor domain.Actor) error
}

// CaseSvcFacade combines all case service interfaces, plus the stateless
// reconciliation preview the UI polls while the user types.
type CaseSvcFacade interface {
	CaseReaderSvc
	CaseWriterSvc

	// PreviewReconciliation runs the pure reconciliation pass over a proposed
	// payment state without touching storage.
	PreviewReconciliation(req dto.ReconcilePreviewRequest) reconciliation.Result

	// ReconcileRecord derives the reconciliation state of an already loaded
	// case record.
	ReconcileRecord(record *domain.CaseRecord) reconciliation.Result
}
