package models

import "time"

// RefreshToken is one row of the refresh-token ledger. Rows are soft-revoked,
// never deleted, so the ledger doubles as an audit trail.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
