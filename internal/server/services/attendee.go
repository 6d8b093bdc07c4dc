package services

import (
	"context"
	"database/sql"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
)

// AttendeeService manages RSVP records. The acting user can only ever
// create, change, or withdraw their own registration.
type AttendeeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAttendeeService(db *sql.DB, m repomanager.RepositoryManager) *AttendeeService {
	return &AttendeeService{db: db, repomanager: m}
}

// Register signs the user up for an event. A second registration for the
// same event returns common.ErrorConflict.
func (s *AttendeeService) Register(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error) {
	if attendee.Status == "" {
		attendee.Status = models.StatusAttending
	}
	return s.repomanager.Attendees(s.db).Create(ctx, attendee)
}

func (s *AttendeeService) Update(ctx context.Context, attendee *models.Attendee) (*models.Attendee, error) {
	return s.repomanager.Attendees(s.db).Update(ctx, attendee)
}

func (s *AttendeeService) Withdraw(ctx context.Context, eventID, userID string) error {
	return s.repomanager.Attendees(s.db).Delete(ctx, eventID, userID)
}

func (s *AttendeeService) Get(ctx context.Context, eventID, userID string) (*models.Attendee, error) {
	return s.repomanager.Attendees(s.db).Find(ctx, eventID, userID)
}

func (s *AttendeeService) ListByEvent(ctx context.Context, eventID string) ([]models.Attendee, error) {
	return s.repomanager.Attendees(s.db).ListByEvent(ctx, eventID)
}

func (s *AttendeeService) ListRegistered(ctx context.Context, userID string) ([]models.RegisteredEvent, error) {
	return s.repomanager.Attendees(s.db).ListRegisteredByUser(ctx, userID)
}
