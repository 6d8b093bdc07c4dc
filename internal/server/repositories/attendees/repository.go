// Package attendees declares the repository contract for RSVP rows. A user
// registers at most once per event; the (event, user) pair is the key for
// updates and withdrawal.
package attendees

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error)
	Update(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error)
	Delete(ctx context.Context, eventID, userID string) error
	Find(ctx context.Context, eventID, userID string) (*models.Attendee, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Attendee, error)

	// ListRegisteredByUser joins events and their addresses for every event
	// the user has signed up for.
	ListRegisteredByUser(ctx context.Context, userID string) ([]models.RegisteredEvent, error)
}
