package models

import "time"

// AuditLogEntry is the DB-facing model for the audit_log table. Rows are
// append-only: the repository exposes insert and ordered read only.
type AuditLogEntry struct {
	EntryID    string    `json:"entryID"`
	CaseID     string    `json:"caseID"`
	ActorID    string    `json:"actorID"`
	ActorLabel string    `json:"actorLabel"`
	FieldName  string    `json:"fieldName"`
	FieldLabel string    `json:"fieldLabel"`
	OldValue   string    `json:"oldValue"`
	NewValue   string    `json:"newValue"`
	ChangedAt  time.Time `json:"changedAt"`
	Seq        int64     `json:"seq"` // bigserial; breaks changed_at ties
}
