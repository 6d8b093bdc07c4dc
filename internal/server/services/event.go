package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
)

// EventService covers event CRUD, the event/address aggregate, and the
// dashboard counters.
type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager) *EventService {
	return &EventService{db: db, repomanager: m}
}

func (s *EventService) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	return s.repomanager.Events(s.db).Create(ctx, event)
}

// CreateWithAddress inserts the event and, for venue events, its address in
// one transaction so a failed address insert never leaves an orphan event.
func (s *EventService) CreateWithAddress(ctx context.Context, event *models.Event, address *models.Address) (*models.EventAllInfo, error) {
	info := &models.EventAllInfo{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Events(tx).Create(ctx, event)
		if err != nil {
			return fmt.Errorf("error creating event: %w", err)
		}
		info.Event = *created

		if address != nil {
			address.EventID = created.ID
			createdAddr, err := s.repomanager.Addresses(tx).Create(ctx, address)
			if err != nil {
				return fmt.Errorf("error creating address: %w", err)
			}
			info.Address = createdAddr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (s *EventService) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	return s.repomanager.Events(s.db).Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, eventID, userID string) error {
	return s.repomanager.Events(s.db).Delete(ctx, eventID, userID)
}

func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	return s.repomanager.Events(s.db).FindByID(ctx, eventID)
}

func (s *EventService) ListOwn(ctx context.Context, userID string) ([]models.Event, error) {
	return s.repomanager.Events(s.db).ListByUser(ctx, userID)
}

func (s *EventService) ListOthers(ctx context.Context, userID string) ([]models.Event, error) {
	return s.repomanager.Events(s.db).ListOthers(ctx, userID)
}

func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.repomanager.Events(s.db).ListAll(ctx)
}

func (s *EventService) AllInfo(ctx context.Context, eventID string) (*models.EventAllInfo, error) {
	return s.repomanager.Events(s.db).AllInfo(ctx, eventID)
}

func (s *EventService) Stats(ctx context.Context, userID string) (*models.EventStats, error) {
	return s.repomanager.Stats(s.db).ForUser(ctx, userID)
}
