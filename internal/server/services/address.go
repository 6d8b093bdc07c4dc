package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
)

// AddressService manages the single optional venue address of an event.
// Mutations require the caller to own the parent event.
type AddressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAddressService(db *sql.DB, m repomanager.RepositoryManager) *AddressService {
	return &AddressService{db: db, repomanager: m}
}

// requireOwner loads the parent event and checks it belongs to userID.
// A foreign event reads as absent.
func (s *AddressService) requireOwner(ctx context.Context, eventID, userID string) error {
	event, err := s.repomanager.Events(s.db).FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return common.ErrorNotFound
	}
	return nil
}

func (s *AddressService) Create(ctx context.Context, userID string, address *models.Address) (*models.Address, error) {
	if err := s.requireOwner(ctx, address.EventID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Addresses(s.db).Create(ctx, address)
}

func (s *AddressService) Update(ctx context.Context, userID string, address *models.Address) (*models.Address, error) {
	if err := s.requireOwner(ctx, address.EventID, userID); err != nil {
		return nil, err
	}
	return s.repomanager.Addresses(s.db).Update(ctx, address)
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID, eventID string) error {
	if err := s.requireOwner(ctx, eventID, userID); err != nil {
		return err
	}
	return s.repomanager.Addresses(s.db).Delete(ctx, addressID, eventID)
}

func (s *AddressService) Get(ctx context.Context, addressID, eventID string) (*models.Address, error) {
	return s.repomanager.Addresses(s.db).FindByID(ctx, addressID, eventID)
}

// GetByEvent returns the event's address, or nil for online events.
func (s *AddressService) GetByEvent(ctx context.Context, eventID string) (*models.Address, error) {
	address, err := s.repomanager.Addresses(s.db).FindByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return address, nil
}
