package stats

import (
	"context"
	"fmt"

	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ForUser computes all four counters in one round trip.
func (r *PostgresRepository) ForUser(ctx context.Context, userID string) (*models.EventStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events WHERE user_id = $1),
			(SELECT COUNT(*) FROM events WHERE user_id = $1 AND registration_close < NOW()),
			(SELECT COUNT(*) FROM event_attendees WHERE user_id = $1),
			(SELECT COUNT(*) FROM event_attendees at
				JOIN events e ON e.event_id = at.event_id
				WHERE e.user_id = $1 AND at.user_id <> $1)
	`
	s := &models.EventStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.TotalPersonalEvents, &s.TotalPersonalClosedEvents,
		&s.TotalAttendingEvents, &s.TotalOthersAttendingMine)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
