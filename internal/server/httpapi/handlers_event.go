package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

func eventFromRequest(req *eventRequest, userID string) *models.Event {
	return &models.Event{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		RegistrationOpen:  req.RegistrationOpen,
		RegistrationClose: req.RegistrationClose,
		EventDate:         req.EventDate,
		LocationType:      models.LocationType(req.LocationType),
	}
}

func validEventRequest(req *eventRequest) bool {
	if req.Title == "" {
		return false
	}
	switch models.LocationType(req.LocationType) {
	case models.LocationVenue, models.LocationOnline:
		return true
	}
	return false
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil || !validEventRequest(&req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.events.Create(r.Context(), eventFromRequest(&req, userID))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(created))
}

// handleCreateEventAllInfo creates an event together with its address in a
// single transaction.
func (s *Server) handleCreateEventAllInfo(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req allInfoRequest
	if err := decodeJSON(r, &req); err != nil || !validEventRequest(&req.EventModel) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var address *models.Address
	if req.EventAddressModel != nil {
		address = &models.Address{
			Street:     req.EventAddressModel.Street,
			CitySuburb: req.EventAddressModel.CitySuburb,
			State:      req.EventAddressModel.State,
			Country:    req.EventAddressModel.Country,
			PostalCode: req.EventAddressModel.PostalCode,
		}
	}

	info, err := s.events.CreateWithAddress(r.Context(), eventFromRequest(&req.EventModel, userID), address)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAllInfoResponse(info))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.events.Get(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (s *Server) handleGetEventAllInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.events.AllInfo(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAllInfoResponse(info))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil || !validEventRequest(&req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event := eventFromRequest(&req, userID)
	event.ID = mux.Vars(r)["eventId"]

	updated, err := s.events.Update(r.Context(), event)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	if err := s.events.Delete(r.Context(), mux.Vars(r)["eventId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

func (s *Server) handleListUserEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	list, err := s.events.ListOwn(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

func (s *Server) handleListOthersEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	list, err := s.events.ListOthers(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

// handleListPublicEvents is the one unauthenticated listing.
func (s *Server) handleListPublicEvents(w http.ResponseWriter, r *http.Request) {
	list, err := s.events.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	stats, err := s.events.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TotalPersonalEvents:       stats.TotalPersonalEvents,
		TotalPersonalClosedEvents: stats.TotalPersonalClosedEvents,
		TotalAttendingEvents:      stats.TotalAttendingEvents,
		TotalOthersAttendingMine:  stats.TotalOthersAttendingMine,
	})
}

func (s *Server) handleRegisteredEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	list, err := s.attendees.ListRegistered(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]registeredEventResponse, 0, len(list))
	for i := range list {
		out = append(out, toRegisteredEventResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
