package domain

// User is a directory entry used by matching and request resolution.
// Immutable after creation.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
