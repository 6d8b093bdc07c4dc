// Package events declares the repository contract for event rows and the
// joined event/address/image projection.
package events

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)

	// Update and Delete are scoped by owner: a non-owner touching an
	// existing event gets common.ErrorNotFound, same as a missing one.
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, eventID, userID string) error

	FindByID(ctx context.Context, eventID string) (*models.Event, error)
	ListByUser(ctx context.Context, userID string) ([]models.Event, error)
	ListOthers(ctx context.Context, userID string) ([]models.Event, error)
	ListAll(ctx context.Context) ([]models.Event, error)

	// AllInfo returns the event with its optional address and image.
	AllInfo(ctx context.Context, eventID string) (*models.EventAllInfo, error)
}
