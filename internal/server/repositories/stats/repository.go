// Package stats declares the repository contract for the per-user
// dashboard counters.
package stats

import (
	"context"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type Repository interface {
	ForUser(ctx context.Context, userID string) (*models.EventStats, error)
}
