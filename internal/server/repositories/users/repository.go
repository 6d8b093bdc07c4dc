// Package users declares the repository contract for the credential store.
package users

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// Delete removes a user row entirely. Only test teardown and
	// administrative tooling may call this; normal flows never delete users.
	Delete(ctx context.Context, userID string) error
}
