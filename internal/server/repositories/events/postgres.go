package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

const eventColumns = `event_id, user_id, title, description, registration_open, registration_close, event_date, location_type, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanEvent(row interface{ Scan(dest ...any) error }, e *models.Event) error {
	return row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description,
		&e.RegistrationOpen, &e.RegistrationClose, &e.EventDate,
		&e.LocationType, &e.CreatedAt, &e.UpdatedAt)
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("uuid error: %w", err)
	}

	query := `
		INSERT INTO events (event_id, user_id, title, description, registration_open, registration_close, event_date, location_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, query,
		id.String(), event.UserID, event.Title, event.Description,
		event.RegistrationOpen, event.RegistrationClose, event.EventDate, event.LocationType)

	created := &models.Event{}
	if err := scanEvent(row, created); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = $1, description = $2, registration_open = $3, registration_close = $4,
		    event_date = $5, location_type = $6, updated_at = NOW()
		WHERE event_id = $7 AND user_id = $8
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.RegistrationOpen, event.RegistrationClose,
		event.EventDate, event.LocationType, event.ID, event.UserID)

	updated := &models.Event{}
	if err := scanEvent(row, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `
		DELETE FROM events
		WHERE event_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, eventID string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`
	event := &models.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, eventID), event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = $1 ORDER BY event_date`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListOthers(ctx context.Context, userID string) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id <> $1 ORDER BY event_date`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date`
	return r.list(ctx, query)
}

// AllInfo left-joins the address and image so online or pictureless events
// still come back whole.
func (r *PostgresRepository) AllInfo(ctx context.Context, eventID string) (*models.EventAllInfo, error) {
	query := `
		SELECT e.event_id, e.user_id, e.title, e.description, e.registration_open, e.registration_close,
		       e.event_date, e.location_type, e.created_at, e.updated_at,
		       a.address_id, a.street, a.city_suburb, a.state, a.country, a.postal_code,
		       i.image_id, i.image_url, i.image_key
		FROM events e
		LEFT JOIN event_addresses a ON a.event_id = e.event_id
		LEFT JOIN event_images i ON i.event_id = e.event_id
		WHERE e.event_id = $1
	`
	var info models.EventAllInfo
	var addrID, street, city, state, country, postal sql.NullString
	var imageID, imageURL, imageKey sql.NullString
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&info.Event.ID, &info.Event.UserID, &info.Event.Title, &info.Event.Description,
		&info.Event.RegistrationOpen, &info.Event.RegistrationClose, &info.Event.EventDate,
		&info.Event.LocationType, &info.Event.CreatedAt, &info.Event.UpdatedAt,
		&addrID, &street, &city, &state, &country, &postal,
		&imageID, &imageURL, &imageKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if addrID.Valid {
		info.Address = &models.Address{
			ID:         addrID.String,
			EventID:    info.Event.ID,
			Street:     street.String,
			CitySuburb: city.String,
			State:      state.String,
			Country:    country.String,
			PostalCode: postal.String,
		}
	}
	if imageID.Valid {
		info.Image = &models.Image{
			ID:       imageID.String,
			EventID:  info.Event.ID,
			ImageURL: imageURL.String,
			ImageKey: imageKey.String,
		}
	}
	return &info, nil
}
