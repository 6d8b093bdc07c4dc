package httpapi

import (
	"time"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

// Wire DTOs. Field naming follows the clients this API grew up with:
// snake_case for events, addresses, attendees, and users; camelCase for
// tokens and images.

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	UserResponse userResponse `json:"userResponse"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type eventRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	EventDate         time.Time `json:"event_date"`
	LocationType      string    `json:"location_type"`
}

type eventResponse struct {
	EventID           string    `json:"event_id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	RegistrationOpen  time.Time `json:"registration_open"`
	RegistrationClose time.Time `json:"registration_close"`
	EventDate         time.Time `json:"event_date"`
	LocationType      string    `json:"location_type"`
}

func toEventResponse(e *models.Event) eventResponse {
	return eventResponse{
		EventID:           e.ID,
		UserID:            e.UserID,
		Title:             e.Title,
		Description:       e.Description,
		RegistrationOpen:  e.RegistrationOpen,
		RegistrationClose: e.RegistrationClose,
		EventDate:         e.EventDate,
		LocationType:      string(e.LocationType),
	}
}

func toEventResponses(list []models.Event) []eventResponse {
	out := make([]eventResponse, 0, len(list))
	for i := range list {
		out = append(out, toEventResponse(&list[i]))
	}
	return out
}

type addressRequest struct {
	Street     string `json:"street"`
	CitySuburb string `json:"city_suburb"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type addressResponse struct {
	AddressID  string `json:"address_id"`
	EventID    string `json:"event_id"`
	Street     string `json:"street"`
	CitySuburb string `json:"city_suburb"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

func toAddressResponse(a *models.Address) addressResponse {
	return addressResponse{
		AddressID:  a.ID,
		EventID:    a.EventID,
		Street:     a.Street,
		CitySuburb: a.CitySuburb,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
}

type attendeeRequest struct {
	RegistrationName string `json:"registration_name"`
	AttendeeStatus   string `json:"attendee_status"`
}

type attendeeResponse struct {
	AttendeeID       string `json:"attendee_id"`
	EventID          string `json:"event_id"`
	RegistrationName string `json:"registration_name"`
	AttendeeStatus   string `json:"attendee_status"`
}

func toAttendeeResponse(a *models.Attendee) attendeeResponse {
	return attendeeResponse{
		AttendeeID:       a.ID,
		EventID:          a.EventID,
		RegistrationName: a.RegistrationName,
		AttendeeStatus:   string(a.Status),
	}
}

type imageResponse struct {
	ID       string `json:"id"`
	EventID  string `json:"eventId"`
	ImageURL string `json:"imageUrl"`
	ImageKey string `json:"imageKey"`
}

func toImageResponse(i *models.Image) imageResponse {
	return imageResponse{
		ID:       i.ID,
		EventID:  i.EventID,
		ImageURL: i.ImageURL,
		ImageKey: i.ImageKey,
	}
}

type presignedURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type allInfoRequest struct {
	EventModel        eventRequest    `json:"eventModel"`
	EventAddressModel *addressRequest `json:"eventAddressModel"`
}

type allInfoResponse struct {
	EventModel        eventResponse    `json:"eventModel"`
	EventAddressModel *addressResponse `json:"eventAddressModel,omitempty"`
	EventImageModel   *imageResponse   `json:"eventImageModel,omitempty"`
}

func toAllInfoResponse(info *models.EventAllInfo) allInfoResponse {
	out := allInfoResponse{EventModel: toEventResponse(&info.Event)}
	if info.Address != nil {
		addr := toAddressResponse(info.Address)
		out.EventAddressModel = &addr
	}
	if info.Image != nil {
		img := toImageResponse(info.Image)
		out.EventImageModel = &img
	}
	return out
}

type statsResponse struct {
	TotalPersonalEvents       int64 `json:"total_personal_events"`
	TotalPersonalClosedEvents int64 `json:"total_personal_closed_events"`
	TotalAttendingEvents      int64 `json:"total_attending_events"`
	TotalOthersAttendingMine  int64 `json:"total_others_attending_events"`
}

type registeredEventResponse struct {
	Attendee struct {
		AttendeeName string `json:"attendee_name"`
		Status       string `json:"status"`
	} `json:"attendee"`
	Event struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartTime   time.Time `json:"start_time"`
		EndTime     time.Time `json:"end_time"`
		Location    string    `json:"location"`
	} `json:"event"`
	Address struct {
		Street     string `json:"street"`
		CitySuburb string `json:"city_suburb"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
	} `json:"address"`
}

func toRegisteredEventResponse(re *models.RegisteredEvent) registeredEventResponse {
	var out registeredEventResponse
	out.Attendee.AttendeeName = re.AttendeeName
	out.Attendee.Status = string(re.Status)
	out.Event.ID = re.Event.ID
	out.Event.Title = re.Event.Title
	out.Event.Description = re.Event.Description
	out.Event.StartTime = re.Event.RegistrationOpen
	out.Event.EndTime = re.Event.RegistrationClose
	out.Event.Location = string(re.Event.LocationType)
	out.Address.Street = re.Address.Street
	out.Address.CitySuburb = re.Address.CitySuburb
	out.Address.State = re.Address.State
	out.Address.Country = re.Address.Country
	out.Address.PostalCode = re.Address.PostalCode
	return out
}
