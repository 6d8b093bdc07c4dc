// Package refreshtokens declares the repository contract for the
// refresh-token ledger: every issued refresh token is recorded here and
// stays on record after revocation.
package refreshtokens

import (
	"context"
	"time"
)

type Repository interface {
	// Store records a newly issued token. Storing the same (user, token)
	// pair twice is not an error; the ledger keeps a single row.
	Store(ctx context.Context, userID, token string, expiresAt time.Time) error

	// IsValid reports whether a matching, non-revoked, non-expired row
	// exists. Signature validity alone never authorizes a refresh; this
	// check is what makes early revocation effective.
	IsValid(ctx context.Context, userID, token string) (bool, error)

	// Revoke marks the single matching row revoked. Unknown or already
	// revoked tokens are a no-op.
	Revoke(ctx context.Context, token string) error

	// RevokeAll marks every row of a user revoked.
	RevokeAll(ctx context.Context, userID string) error
}
