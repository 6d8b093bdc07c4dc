package models

import "time"

// AttendeeStatus mirrors the three RSVP states the UI offers.
type AttendeeStatus string

const (
	StatusAttending    AttendeeStatus = "ATTENDING"
	StatusTentative    AttendeeStatus = "TENTATIVE"
	StatusNotAttending AttendeeStatus = "NOT-ATTENDING"
)

type Attendee struct {
	ID               string
	EventID          string
	UserID           string
	RegistrationName string
	Status           AttendeeStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
