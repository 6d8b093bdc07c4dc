package httpapi

import (
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"
)

// maxImageUpload caps multipart uploads at 10 MiB.
const maxImageUpload = 10 << 20

// imageUpload pulls eventId and the file part out of a multipart form.
func imageUpload(r *http.Request) (eventID, contentType string, file multipart.File, err error) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		return "", "", nil, err
	}
	eventID = r.FormValue("eventId")

	f, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, err
	}

	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return eventID, contentType, f, nil
}

// handleUploadImage stores the uploaded file and records it against the
// event.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	eventID, contentType, file, err := imageUpload(r)
	if err != nil || eventID == "" {
		writeError(w, http.StatusBadRequest, "eventId and file are required")
		return
	}
	defer file.Close()

	created, err := s.images.Upload(r.Context(), userID, eventID, contentType, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toImageResponse(created))
}

// handleReplaceImage swaps the event's picture for the uploaded one.
func (s *Server) handleReplaceImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)
	eventID := mux.Vars(r)["eventId"]

	_, contentType, file, err := imageUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	updated, err := s.images.Replace(r.Context(), userID, eventID, contentType, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toImageResponse(updated))
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	if err := s.images.Delete(r.Context(), userID, mux.Vars(r)["eventId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetEventImage returns the event's image record, or an empty object
// when the event has none.
func (s *Server) handleGetEventImage(w http.ResponseWriter, r *http.Request) {
	image, err := s.images.GetByEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if image == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, toImageResponse(image))
}

// handlePresignUpload hands out a direct-to-bucket upload URL.
func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromRequest(r)

	var req struct {
		EventID string `json:"eventId"`
	}
	if err := decodeJSON(r, &req); err != nil || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "eventId is required")
		return
	}

	key, url, err := s.images.PresignUpload(r.Context(), userID, req.EventID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presignedURLResponse{Key: key, URL: url})
}
