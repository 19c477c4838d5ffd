package dto

import (
	"time"

	"github.com/caselab/lab_case_app/internal/core/domain"
)

// AuditLogEntryResponse renders one line of a case's audit trail.
type AuditLogEntryResponse struct {
	EntryID    string    `json:"entryID"`
	CaseID     string    `json:"caseID"`
	ActorID    string    `json:"actorID"`
	ActorLabel string    `json:"actorLabel"`
	FieldName  string    `json:"fieldName"`
	FieldLabel string    `json:"fieldLabel,omitempty"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	ChangedAt  time.Time `json:"changedAt"`
	Lifecycle  bool      `json:"lifecycle"`
}

// ListAuditLogResponse is a paginated page of audit entries, oldest first.
type ListAuditLogResponse struct {
	Entries   []AuditLogEntryResponse `json:"entries"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToAuditLogEntryResponse converts a domain audit entry for the API layer.
func ToAuditLogEntryResponse(e domain.AuditLogEntry) AuditLogEntryResponse {
	return AuditLogEntryResponse{
		EntryID:    e.EntryID,
		CaseID:     e.CaseID,
		ActorID:    e.ActorID,
		ActorLabel: e.ActorLabel,
		FieldName:  e.FieldName,
		FieldLabel: e.FieldLabel,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
		ChangedAt:  e.ChangedAt,
		Lifecycle:  e.IsLifecycle(),
	}
}

// ToListAuditLogResponse converts a page of entries plus its cursor.
func ToListAuditLogResponse(entries []domain.AuditLogEntry, nextToken *string) ListAuditLogResponse {
	responses := make([]AuditLogEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToAuditLogEntryResponse(e)
	}
	return ListAuditLogResponse{Entries: responses, NextToken: nextToken}
}
