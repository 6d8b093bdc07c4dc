// Package images declares the repository contract for event image records.
// The binary lives in object storage; rows here keep the URL and key.
package images

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	Update(ctx context.Context, image *models.Image) (*models.Image, error)
	Delete(ctx context.Context, imageID, eventID string) error
	FindByEvent(ctx context.Context, eventID string) (*models.Image, error)
}
