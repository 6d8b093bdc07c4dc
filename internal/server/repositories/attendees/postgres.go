package attendees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

const uniqueViolation = "23505"

const attendeeColumns = `attendee_id, event_id, user_id, registration_name, attendee_status, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAttendee(row interface{ Scan(dest ...any) error }, a *models.Attendee) error {
	return row.Scan(&a.ID, &a.EventID, &a.UserID, &a.RegistrationName,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
}

// Create registers a user for an event. Registering twice for the same
// event surfaces as common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("uuid error: %w", err)
	}

	query := `
		INSERT INTO event_attendees (attendee_id, event_id, user_id, registration_name, attendee_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attendeeColumns
	row := r.db.QueryRowContext(ctx, query,
		id.String(), attendee.EventID, attendee.UserID, attendee.RegistrationName, attendee.Status)

	created := &models.Attendee{}
	if err := scanAttendee(row, created); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error) {
	query := `
		UPDATE event_attendees
		SET registration_name = $1, attendee_status = $2, updated_at = NOW()
		WHERE event_id = $3 AND user_id = $4
		RETURNING ` + attendeeColumns
	row := r.db.QueryRowContext(ctx, query,
		attendee.RegistrationName, attendee.Status, attendee.EventID, attendee.UserID)

	updated := &models.Attendee{}
	if err := scanAttendee(row, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `
		DELETE FROM event_attendees
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

func (r *PostgresRepository) Find(ctx context.Context, eventID, userID string) (*models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM event_attendees WHERE event_id = $1 AND user_id = $2`
	attendee := &models.Attendee{}
	if err := scanAttendee(r.db.QueryRowContext(ctx, query, eventID, userID), attendee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return attendee, nil
}

func (r *PostgresRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Attendee, error) {
	query := `SELECT ` + attendeeColumns + ` FROM event_attendees WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Attendee{}
	for rows.Next() {
		var a models.Attendee
		if err := scanAttendee(rows, &a); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListRegisteredByUser(ctx context.Context, userID string) ([]models.RegisteredEvent, error) {
	query := `
		SELECT at.registration_name, at.attendee_status,
		       e.event_id, e.user_id, e.title, e.description, e.registration_open, e.registration_close,
		       e.event_date, e.location_type,
		       a.address_id, a.street, a.city_suburb, a.state, a.country, a.postal_code
		FROM event_attendees at
		JOIN events e ON e.event_id = at.event_id
		LEFT JOIN event_addresses a ON a.event_id = e.event_id
		WHERE at.user_id = $1
		ORDER BY e.event_date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.RegisteredEvent{}
	for rows.Next() {
		var re models.RegisteredEvent
		var addrID, street, city, state, country, postal sql.NullString
		err := rows.Scan(&re.AttendeeName, &re.Status,
			&re.Event.ID, &re.Event.UserID, &re.Event.Title, &re.Event.Description,
			&re.Event.RegistrationOpen, &re.Event.RegistrationClose,
			&re.Event.EventDate, &re.Event.LocationType,
			&addrID, &street, &city, &state, &country, &postal)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if addrID.Valid {
			re.Address = models.Address{
				ID:         addrID.String,
				EventID:    re.Event.ID,
				Street:     street.String,
				CitySuburb: city.String,
				State:      state.String,
				Country:    country.String,
				PostalCode: postal.String,
			}
		}
		result = append(result, re)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
