// Package addresses declares the repository contract for event venue
// addresses. An event has at most one address; online events have none.
package addresses

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, address *models.Address) (*models.Address, error)
	// Update and Delete are keyed by both address and event so a stale or
	// mismatched pair cannot touch another event's address.
	Update(ctx context.Context, address *models.Address) (*models.Address, error)
	Delete(ctx context.Context, addressID, eventID string) error
	FindByID(ctx context.Context, addressID, eventID string) (*models.Address, error)
	FindByEvent(ctx context.Context, eventID string) (*models.Address, error)
}
