package domain

// Change is a single detected field difference between the last persisted state
// of a case and a proposed edit. Changes are produced by the diff detector,
// consumed by the audit writer, and never mutated after creation.
type Change struct {
	Field      string `json:"field"`
	FieldLabel string `json:"fieldLabel"`
	OldValue   any    `json:"oldValue"`
	NewValue   any    `json:"newValue"`
}
