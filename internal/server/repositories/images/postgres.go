package images

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

const imageColumns = `image_id, event_id, image_url, image_key, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanImage(row interface{ Scan(dest ...any) error }, i *models.Image) error {
	return row.Scan(&i.ID, &i.EventID, &i.ImageURL, &i.ImageKey, &i.CreatedAt, &i.UpdatedAt)
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("uuid error: %w", err)
	}

	query := `
		INSERT INTO event_images (image_id, event_id, image_url, image_key)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + imageColumns
	row := r.db.QueryRowContext(ctx, query, id.String(), image.EventID, image.ImageURL, image.ImageKey)

	created := &models.Image{}
	if err := scanImage(row, created); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, image *models.Image) (*models.Image, error) {
	query := `
		UPDATE event_images
		SET image_url = $1, image_key = $2, updated_at = NOW()
		WHERE image_id = $3 AND event_id = $4
		RETURNING ` + imageColumns
	row := r.db.QueryRowContext(ctx, query, image.ImageURL, image.ImageKey, image.ID, image.EventID)

	updated := &models.Image{}
	if err := scanImage(row, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, imageID, eventID string) error {
	query := `
		DELETE FROM event_images
		WHERE image_id = $1 AND event_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, imageID, eventID)
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

func (r *PostgresRepository) FindByEvent(ctx context.Context, eventID string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM event_images WHERE event_id = $1`
	image := &models.Image{}
	if err := scanImage(r.db.QueryRowContext(ctx, query, eventID), image); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}
