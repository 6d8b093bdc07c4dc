package addresses

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

const addressColumns = `address_id, event_id, street, city_suburb, state, country, postal_code, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAddress(row interface{ Scan(dest ...any) error }, a *models.Address) error {
	return row.Scan(&a.ID, &a.EventID, &a.Street, &a.CitySuburb,
		&a.State, &a.Country, &a.PostalCode, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PostgresRepository) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("uuid error: %w", err)
	}

	query := `
		INSERT INTO event_addresses (address_id, event_id, street, city_suburb, state, country, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + addressColumns
	row := r.db.QueryRowContext(ctx, query,
		id.String(), address.EventID, address.Street, address.CitySuburb,
		address.State, address.Country, address.PostalCode)

	created := &models.Address{}
	if err := scanAddress(row, created); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, address *models.Address) (*models.Address, error) {
	query := `
		UPDATE event_addresses
		SET street = $1, city_suburb = $2, state = $3, country = $4, postal_code = $5, updated_at = NOW()
		WHERE address_id = $6 AND event_id = $7
		RETURNING ` + addressColumns
	row := r.db.QueryRowContext(ctx, query,
		address.Street, address.CitySuburb, address.State, address.Country,
		address.PostalCode, address.ID, address.EventID)

	updated := &models.Address{}
	if err := scanAddress(row, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, addressID, eventID string) error {
	query := `
		DELETE FROM event_addresses
		WHERE address_id = $1 AND event_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, addressID, eventID)
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

func (r *PostgresRepository) FindByID(ctx context.Context, addressID, eventID string) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM event_addresses WHERE address_id = $1 AND event_id = $2`
	address := &models.Address{}
	if err := scanAddress(r.db.QueryRowContext(ctx, query, addressID, eventID), address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return address, nil
}

func (r *PostgresRepository) FindByEvent(ctx context.Context, eventID string) (*models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM event_addresses WHERE event_id = $1`
	address := &models.Address{}
	if err := scanAddress(r.db.QueryRowContext(ctx, query, eventID), address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return address, nil
}
