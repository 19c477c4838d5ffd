package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
	"github.com/caselab/lab_case_app/internal/dto"
	"github.com/caselab/lab_case_app/internal/utils/diffing"
	"github.com/caselab/lab_case_app/internal/utils/reconciliation"
	"github.com/google/uuid"
)

// CaseService provides the business logic for lab cases: creation, edits with
// field-level change tracking, deletion, and derived payment reconciliation.
type CaseService struct {
	BaseService
	caseRepo portsrepo.CaseRepositoryFacade
	audit    portssvc.AuditSvcFacade
}

// NewCaseService creates a new CaseService.
func NewCaseService(caseRepo portsrepo.CaseRepositoryFacade, audit portssvc.AuditSvcFacade) *CaseService {
	return &CaseService{caseRepo: caseRepo, audit: audit}
}

var _ portssvc.CaseSvcFacade = (*CaseService)(nil)

const (
	defaultCasePageSize = 25
	maxCasePageSize     = 100
)

// reconcile derives the case's financial state from its current fields.
func (s *CaseService) reconcile(c *domain.CaseRecord) reconciliation.Result {
	rate := c.ExchangeRate
	return reconciliation.Reconcile(c.TotalAmount, c.Payments[:], &rate)
}

// CreateCase validates and persists a new case. The creation sentinel lands in
// the audit trail within the same database transaction as the insert.
func (s *CaseService) CreateCase(ctx context.Context, req dto.CreateCaseRequest, actor domain.Actor) (*domain.CaseRecord, error) {
	now := time.Now()
	record := domain.CaseRecord{
		CaseID:            uuid.NewString(),
		PatientName:       req.PatientName,
		PatientDocumentID: req.PatientDocumentID,
		PatientPhone:      req.PatientPhone,
		TestType:          req.TestType,
		Notes:             req.Notes,
		TotalAmount:       req.TotalAmount,
		ExchangeRate:      req.ExchangeRate,
		Payments:          dto.ToPaymentSlots(req.Payments),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ID,
			Version:       1,
		},
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	summary := fmt.Sprintf("Caso creado para %s (%s)", record.PatientName, record.TestType)
	created := s.audit.LifecycleEntry(record.CaseID, actor, domain.LifecycleCreated, summary, now)

	if err := s.caseRepo.SaveCase(ctx, record, created); err != nil {
		s.LogError(ctx, err, "Failed to save case", slog.String("case_id", record.CaseID))
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.LogInfo(ctx, "Case created", slog.String("case_id", record.CaseID))
	return &record, nil
}

// GetCase retrieves a case and recomputes its reconciliation. The derived
// status is never read from storage.
func (s *CaseService) GetCase(ctx context.Context, caseID string) (*domain.CaseRecord, reconciliation.Result, error) {
	record, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, reconciliation.Result{}, fmt.Errorf("failed to get case %s: %w", caseID, err)
	}
	return record, s.reconcile(record), nil
}

// ListCases retrieves a paginated list of cases, newest first.
func (s *CaseService) ListCases(ctx context.Context, limit int, nextToken *string) ([]domain.CaseRecord, *string, error) {
	if limit <= 0 {
		limit = defaultCasePageSize
	}
	if limit > maxCasePageSize {
		limit = maxCasePageSize
	}

	records, token, err := s.caseRepo.ListCases(ctx, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return records, token, nil
}

// UpdateCase applies a partial edit. It diffs the proposal against the stored
// state, and when real changes exist persists the new state together with one
// audit entry per change in a single transaction, guarded by the version the
// client read. An empty change set writes nothing at all.
func (s *CaseService) UpdateCase(ctx context.Context, caseID string, req dto.UpdateCaseRequest, actor domain.Actor) (*domain.CaseRecord, []domain.Change, reconciliation.Result, error) {
	current, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return nil, nil, reconciliation.Result{}, fmt.Errorf("failed to load case %s for update: %w", caseID, err)
	}

	if current.Version != req.Version {
		return nil, nil, reconciliation.Result{}, fmt.Errorf(
			"%w: case %s is at version %d, update was based on version %d",
			apperrors.ErrConflict, caseID, current.Version, req.Version)
	}

	updated := *current
	if req.PatientName != nil {
		updated.PatientName = *req.PatientName
	}
	if req.PatientDocumentID != nil {
		updated.PatientDocumentID = *req.PatientDocumentID
	}
	if req.PatientPhone != nil {
		updated.PatientPhone = *req.PatientPhone
	}
	if req.TestType != nil {
		updated.TestType = *req.TestType
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.TotalAmount != nil {
		updated.TotalAmount = *req.TotalAmount
	}
	if req.ExchangeRate != nil {
		updated.ExchangeRate = *req.ExchangeRate
	}
	if req.Payments != nil {
		updated.Payments = dto.ToPaymentSlots(*req.Payments)
	}

	if err := updated.Validate(); err != nil {
		return nil, nil, reconciliation.Result{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	changes := diffing.Diff(current.FieldValues(), updated.FieldValues(), domain.FieldLabels())
	if len(changes) == 0 {
		s.LogDebug(ctx, "Update produced no changes", slog.String("case_id", caseID))
		return current, nil, s.reconcile(current), nil
	}

	now := time.Now()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.ID
	updated.Version = current.Version + 1

	entries := s.audit.EntriesForChanges(caseID, actor, changes, now)
	if err := s.caseRepo.UpdateCaseWithAudit(ctx, updated, req.Version, entries); err != nil {
		s.LogError(ctx, err, "Failed to persist case update", slog.String("case_id", caseID))
		return nil, nil, reconciliation.Result{}, fmt.Errorf("failed to update case %s: %w", caseID, err)
	}

	s.LogInfo(ctx, "Case updated",
		slog.String("case_id", caseID),
		slog.Int("changed_fields", len(changes)),
		slog.Int64("version", updated.Version),
	)
	return &updated, changes, s.reconcile(&updated), nil
}

// DeleteCase removes a case. Its deletion sentinel and prior audit history
// remain readable afterwards.
func (s *CaseService) DeleteCase(ctx context.Context, caseID string, actor domain.Actor) error {
	record, err := s.caseRepo.FindCaseByID(ctx, caseID)
	if err != nil {
		return fmt.Errorf("failed to load case %s for deletion: %w", caseID, err)
	}

	summary := fmt.Sprintf("Caso eliminado (%s, %s)", record.PatientName, record.TestType)
	deleted := s.audit.LifecycleEntry(caseID, actor, domain.LifecycleDeleted, summary, time.Now())

	if err := s.caseRepo.DeleteCase(ctx, caseID, deleted); err != nil {
		s.LogError(ctx, err, "Failed to delete case", slog.String("case_id", caseID))
		return fmt.Errorf("failed to delete case %s: %w", caseID, err)
	}

	s.LogInfo(ctx, "Case deleted", slog.String("case_id", caseID))
	return nil
}

// PreviewReconciliation runs the pure reconciliation pass over a proposed
// payment state. Safe to call on every keystroke; persists nothing.
func (s *CaseService) PreviewReconciliation(req dto.ReconcilePreviewRequest) reconciliation.Result {
	slots := dto.ToPaymentSlots(req.Payments)
	return reconciliation.Reconcile(req.TotalAmount, slots[:], req.ExchangeRate)
}

// ReconcileRecord derives the reconciliation state of an already loaded record.
func (s *CaseService) ReconcileRecord(record *domain.CaseRecord) reconciliation.Result {
	return s.reconcile(record)
}
