package models

// RegisteredEvent is the attendee/event/address join returned for
// "events I signed up for" listings. Address fields come from a LEFT JOIN
// and may be empty for online events.
type RegisteredEvent struct {
	AttendeeName string
	Status       AttendeeStatus
	Event        Event
	Address      Address
}

// EventAllInfo bundles an event with its optional address and image.
type EventAllInfo struct {
	Event   Event
	Address *Address
	Image   *Image
}
