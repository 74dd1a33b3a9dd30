package model

import "time"

// AccountID uniquely identifies an account across the system.
// IDs are assigned by the credential store and are never reused.
type AccountID int64

// Account is a persisted identity record with credentials.
// Email and Username are globally unique; uniqueness is exact-match
// (no case normalization is performed anywhere).
type Account struct {
	ID           AccountID
	Email        string
	Username     string
	DisplayName  string
	PasswordHash string // argon2id, PHC-encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionID is the opaque identifier carried by the client
type SessionID string

// Session is server-side authentication state bound to a client.
// AccountID is the only field the core cares about; a request with no
// session (or a session that no longer resolves) is anonymous.
type Session struct {
	ID        SessionID
	AccountID AccountID
	CreatedAt time.Time
}

// AccountView is the caller-facing projection of an Account.
// Email is already redacted according to the field-level guard:
// it is empty unless the viewer owns the account. Handlers must only
// ever serialize views, never raw accounts.
type AccountView struct {
	ID          AccountID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
