package domain

// Actor identifies who performed a write operation. Identity is always supplied
// by the auth layer; the core never fabricates or infers it.
type Actor struct {
	ID    string `json:"id"`
	Label string `json:"label"` // Display name shown next to audit entries
}
