package models

import "time"

// Image records an uploaded event picture. ImageURL is the public object
// location, ImageKey the S3 key needed to replace or delete the object.
type Image struct {
	ID        string
	EventID   string
	ImageURL  string
	ImageKey  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
