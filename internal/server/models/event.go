package models

import "time"

// LocationType says whether an event happens at a venue or online.
type LocationType string

const (
	LocationVenue  LocationType = "VENUE"
	LocationOnline LocationType = "ONLINE"
)

type Event struct {
	ID                string
	UserID            string
	Title             string
	Description       string
	RegistrationOpen  time.Time
	RegistrationClose time.Time
	EventDate         time.Time
	LocationType      LocationType
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
