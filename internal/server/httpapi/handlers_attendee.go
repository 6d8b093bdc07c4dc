package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

func validAttendeeStatus(status string) bool {
	switch models.AttendeeStatus(status) {
	case models.StatusAttending, models.StatusTentative, models.StatusNotAttending:
		return true
	}
	return false
}

func (s *Server) handleCreateAttendee(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req attendeeRequest
	if err := decodeJSON(r, &req); err != nil || req.RegistrationName == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AttendeeStatus != "" && !validAttendeeStatus(req.AttendeeStatus) {
		writeError(w, http.StatusBadRequest, "Invalid attendee status")
		return
	}

	created, err := s.attendees.Register(r.Context(), &models.Attendee{
		EventID:          mux.Vars(r)["eventId"],
		UserID:           userID,
		RegistrationName: req.RegistrationName,
		Status:           models.AttendeeStatus(req.AttendeeStatus),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAttendeeResponse(created))
}

func (s *Server) handleUpdateAttendee(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req attendeeRequest
	if err := decodeJSON(r, &req); err != nil || !validAttendeeStatus(req.AttendeeStatus) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.attendees.Update(r.Context(), &models.Attendee{
		EventID:          mux.Vars(r)["eventId"],
		UserID:           userID,
		RegistrationName: req.RegistrationName,
		Status:           models.AttendeeStatus(req.AttendeeStatus),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendeeResponse(updated))
}

func (s *Server) handleDeleteAttendee(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	if err := s.attendees.Withdraw(r.Context(), mux.Vars(r)["eventId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetAttendee returns the caller's own registration for the event.
func (s *Server) handleGetAttendee(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	attendee, err := s.attendees.Get(r.Context(), mux.Vars(r)["eventId"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendeeResponse(attendee))
}

// handleListAttendees lists everyone registered for an event; the event id
// comes from the query string.
func (s *Server) handleListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("eventId")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "eventId is required")
		return
	}

	list, err := s.attendees.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]attendeeResponse, 0, len(list))
	for i := range list {
		out = append(out, toAttendeeResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
