package mapping

import (
	"github.com/caselab/lab_case_app/internal/core/domain"
	"github.com/caselab/lab_case_app/internal/models"
)

// ToModelAuditLogEntry converts a domain audit entry to its DB model.
func ToModelAuditLogEntry(d domain.AuditLogEntry) models.AuditLogEntry {
	return models.AuditLogEntry{
		EntryID:    d.EntryID,
		CaseID:     d.CaseID,
		ActorID:    d.ActorID,
		ActorLabel: d.ActorLabel,
		FieldName:  d.FieldName,
		FieldLabel: d.FieldLabel,
		OldValue:   d.OldValue,
		NewValue:   d.NewValue,
		ChangedAt:  d.ChangedAt,
		Seq:        d.Seq,
	}
}

// ToDomainAuditLogEntry converts a DB model back into a domain audit entry.
func ToDomainAuditLogEntry(m models.AuditLogEntry) domain.AuditLogEntry {
	return domain.AuditLogEntry{
		EntryID:    m.EntryID,
		CaseID:     m.CaseID,
		ActorID:    m.ActorID,
		ActorLabel: m.ActorLabel,
		FieldName:  m.FieldName,
		FieldLabel: m.FieldLabel,
		OldValue:   m.OldValue,
		NewValue:   m.NewValue,
		ChangedAt:  m.ChangedAt,
		Seq:        m.Seq,
	}
}
