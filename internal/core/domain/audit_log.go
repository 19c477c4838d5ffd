package domain

import "time"

// Reserved fieldName sentinels for lifecycle events. They mark record creation
// and deletion rather than field edits and carry no old/new diff semantics.
const (
	FieldCreatedRecord = "created_record"
	FieldDeletedRecord = "deleted_record"
)

// LifecycleKind selects which lifecycle sentinel an event writes.
type LifecycleKind string

const (
	LifecycleCreated LifecycleKind = "created"
	LifecycleDeleted LifecycleKind = "deleted"
)

// AuditLogEntry is one immutable line of a case's audit trail: either a single
// field change or a lifecycle sentinel. Entries are append-only; no update or
// delete operation exists for them, by design.
type AuditLogEntry struct {
	EntryID    string    `json:"entryID"` // Primary key (UUID)
	CaseID     string    `json:"caseID"`
	ActorID    string    `json:"actorID"`
	ActorLabel string    `json:"actorLabel"`
	FieldName  string    `json:"fieldName"` // Field name or a lifecycle sentinel
	FieldLabel string    `json:"fieldLabel"`
	OldValue   string    `json:"oldValue"`
	NewValue   string    `json:"newValue"`
	ChangedAt  time.Time `json:"changedAt"`
	Seq        int64     `json:"seq"` // Insertion order; breaks ChangedAt ties
}

// IsLifecycle reports whether the entry is a creation/deletion sentinel rather
// than a field edit.
func (e AuditLogEntry) IsLifecycle() bool {
	return e.FieldName == FieldCreatedRecord || e.FieldName == FieldDeletedRecord
}
