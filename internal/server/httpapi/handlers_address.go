package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbelozerov/eventkeeper/internal/server/models"
)

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil || req.Street == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := s.addresses.Create(r.Context(), userID, &models.Address{
		EventID:    mux.Vars(r)["eventId"],
		Street:     req.Street,
		CitySuburb: req.CitySuburb,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAddressResponse(created))
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)
	vars := mux.Vars(r)

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil || req.Street == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.addresses.Update(r.Context(), userID, &models.Address{
		ID:         vars["id"],
		EventID:    vars["eventId"],
		Street:     req.Street,
		CitySuburb: req.CitySuburb,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAddressResponse(updated))
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)
	vars := mux.Vars(r)

	if err := s.addresses.Delete(r.Context(), userID, vars["id"], vars["eventId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	address, err := s.addresses.Get(r.Context(), vars["id"], vars["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAddressResponse(address))
}

// handleGetEventAddress returns the event's address, or an empty object for
// events without one.
func (s *Server) handleGetEventAddress(w http.ResponseWriter, r *http.Request) {
	address, err := s.addresses.GetByEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if address == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, toAddressResponse(address))
}
