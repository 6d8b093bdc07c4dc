package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
)

// ImageService manages the single picture of an event. The binary goes to
// object storage, the row keeps URL and key. Mutations require ownership of
// the parent event.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     *ObjectStorage
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, storage *ObjectStorage) *ImageService {
	return &ImageService{db: db, repomanager: m, storage: storage}
}

func (s *ImageService) requireOwner(ctx context.Context, eventID, userID string) error {
	event, err := s.repomanager.Events(s.db).FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

// Upload stores the object first, then the row. If the row insert fails the
// object is deleted again so the bucket does not accumulate orphans.
func (s *ImageService) Upload(ctx context.Context, userID, eventID, contentType string, body io.Reader) (*models.Image, error) {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return nil, err
	}

	key := RandomStorageKey(eventID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("error uploading image: %w", err)
	}

	created, err := s.repomanager.Images(s.db).Create(ctx, &models.Image{
		EventID:  eventID,
		ImageURL: url,
		ImageKey: key,
	})
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, fmt.Errorf("error recording image: %w", err)
	}
	return created, nil
}

// Replace uploads a new object, points the row at it, and drops the old
// object afterwards.
func (s *ImageService) Replace(ctx context.Context, userID, eventID, contentType string, body io.Reader) (*models.Image, error) {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return nil, err
	}

	existing, err := s.repomanager.Images(s.db).FindByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	key := RandomStorageKey(eventID)
	url, err := s.storage.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("error uploading image: %w", err)
	}

	updated, err := s.repomanager.Images(s.db).Update(ctx, &models.Image{
		ID:       existing.ID,
		EventID:  eventID,
		ImageURL: url,
		ImageKey: key,
	})
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, fmt.Errorf("error updating image: %w", err)
	}

	_ = s.storage.Delete(ctx, existing.ImageKey)
	return updated, nil
}

// Delete removes the row and then the object. The row goes first inside a
// transaction; a failed object delete leaves only an unreferenced blob.
func (s *ImageService) Delete(ctx context.Context, userID, eventID string) error {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return err
	}

	existing, err := s.repomanager.Images(s.db).FindByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Images(tx).Delete(ctx, existing.ID, eventID)
	})
	if err != nil {
		return err
	}

	_ = s.storage.Delete(ctx, existing.ImageKey)
	return nil
}

// GetByEvent returns the event's image, or nil when it has none.
func (s *ImageService) GetByEvent(ctx context.Context, eventID string) (*models.Image, error) {
	image, err := s.repomanager.Images(s.db).FindByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return image, nil
}

// PresignUpload lets the client upload directly to the bucket.
func (s *ImageService) PresignUpload(ctx context.Context, userID, eventID string) (string, string, error) {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return "", "", err
	}
	return s.storage.PresignPutURL(ctx, eventID)
}
