package models

import "time"

type Address struct {
	ID         string
	EventID    string
	Street     string
	CitySuburb string
	State      string
	Country    string
	PostalCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
