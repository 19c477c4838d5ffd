package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	portssvc "github.com/caselab/lab_case_app/internal/core/ports/services"
	"github.com/caselab/lab_case_app/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditService writes and reads the append-only audit trail. The trail has no
// update or delete operation anywhere in the stack.
type AuditService struct {
	BaseService
	auditRepo portsrepo.AuditLogRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditLogRepositoryFacade) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

const (
	defaultHistoryPageSize = 50
	maxHistoryPageSize     = 200
)

// formatAuditValue renders a change value for the trail. Amounts get the
// two-decimal currency rendering, times their canonical UTC form.
func formatAuditValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case decimal.Decimal:
		return money.Format(val)
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return money.Format(*val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

// EntriesForChanges builds one entry per change without persisting anything.
func (s *AuditService) EntriesForChanges(caseID string, actor domain.Actor, changes []domain.Change, at time.Time) []domain.AuditLogEntry {
	entries := make([]domain.AuditLogEntry, 0, len(changes))
	for _, ch := range changes {
		entries = append(entries, domain.AuditLogEntry{
			EntryID:    uuid.NewString(),
			CaseID:     caseID,
			ActorID:    actor.ID,
			ActorLabel: actor.Label,
			FieldName:  ch.Field,
			FieldLabel: ch.FieldLabel,
			OldValue:   formatAuditValue(ch.OldValue),
			NewValue:   formatAuditValue(ch.NewValue),
			ChangedAt:  at,
		})
	}
	return entries
}

// LifecycleEntry builds a single creation/deletion sentinel entry.
func (s *AuditService) LifecycleEntry(caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string, at time.Time) domain.AuditLogEntry {
	fieldName := domain.FieldCreatedRecord
	if kind == domain.LifecycleDeleted {
		fieldName = domain.FieldDeletedRecord
	}
	return domain.AuditLogEntry{
		EntryID:    uuid.NewString(),
		CaseID:     caseID,
		ActorID:    actor.ID,
		ActorLabel: actor.Label,
		FieldName:  fieldName,
		NewValue:   summary,
		ChangedAt:  at,
	}
}

// RecordChanges appends one entry per change. The diff detector upstream is
// expected to have filtered no-ops already, but the writer guards against an
// empty change set independently so the log never accumulates noise.
func (s *AuditService) RecordChanges(ctx context.Context, caseID string, actor domain.Actor, changes []domain.Change) error {
	if len(changes) == 0 {
		s.LogDebug(ctx, "No changes to record, skipping audit write", slog.String("case_id", caseID))
		return nil
	}

	entries := s.EntriesForChanges(caseID, actor, changes, time.Now())
	if err := s.auditRepo.AppendEntries(ctx, entries); err != nil {
		return fmt.Errorf("failed to append audit entries for case %s: %w", caseID, err)
	}
	return nil
}

// RecordLifecycleEvent appends exactly one sentinel entry.
func (s *AuditService) RecordLifecycleEvent(ctx context.Context, caseID string, actor domain.Actor, kind domain.LifecycleKind, summary string) error {
	entry := s.LifecycleEntry(caseID, actor, kind, summary, time.Now())
	if err := s.auditRepo.AppendEntries(ctx, []domain.AuditLogEntry{entry}); err != nil {
		return fmt.Errorf("failed to append lifecycle entry for case %s: %w", caseID, err)
	}
	return nil
}

// ListHistory returns the case's trail oldest-first.
func (s *AuditService) ListHistory(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	entries, token, err := s.auditRepo.ListEntriesByCase(ctx, caseID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audit history for case %s: %w", caseID, err)
	}
	return entries, token, nil
}
