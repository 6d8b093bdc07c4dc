package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbelozerov/eventkeeper/internal/logging"
	"github.com/mbelozerov/eventkeeper/internal/server/config"
	"github.com/mbelozerov/eventkeeper/internal/server/services"
)

// Server bundles the handlers with their collaborators. Construct it with
// NewServer and mount Routes() on an http.Server.
type Server struct {
	logger      logging.Logger
	db          *sql.DB
	users       *services.UserService
	events      *services.EventService
	addresses   *services.AddressService
	attendees   *services.AttendeeService
	images      *services.ImageService
	corsOrigin  string
	authLimiter *ipRateLimiter
}

func NewServer(
	logger logging.Logger,
	db *sql.DB,
	cfg *config.Config,
	users *services.UserService,
	events *services.EventService,
	addresses *services.AddressService,
	attendees *services.AttendeeService,
	images *services.ImageService,
) *Server {
	return &Server{
		logger:      logger,
		db:          db,
		users:       users,
		events:      events,
		addresses:   addresses,
		attendees:   attendees,
		images:      images,
		corsOrigin:  cfg.CORSOrigin,
		authLimiter: newIPRateLimiter(cfg.AuthRatePerMinute),
	}
}

// handleHealthCheck reports liveness, including a database ping.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}

// Routes builds the full router: health and public endpoints outside the
// guard, everything else behind it.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.Logging, s.CORS)

	r.HandleFunc("/", s.handleHealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Credential endpoints, rate limited per client IP.
	api.Handle("/register", s.RateLimit(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	api.Handle("/login", s.RateLimit(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	api.HandleFunc("/refresh-token", s.handleRefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/public-events", s.handleListPublicEvents).Methods(http.MethodGet)

	guarded := api.NewRoute().Subrouter()
	guarded.Use(s.AuthGuard)

	guarded.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	guarded.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	guarded.HandleFunc("/events/{eventId}", s.handleGetEvent).Methods(http.MethodGet)
	guarded.HandleFunc("/events/{eventId}", s.handleUpdateEvent).Methods(http.MethodPut)
	guarded.HandleFunc("/events/{eventId}", s.handleDeleteEvent).Methods(http.MethodDelete)
	guarded.HandleFunc("/user-events", s.handleListUserEvents).Methods(http.MethodGet)
	guarded.HandleFunc("/others-events", s.handleListOthersEvents).Methods(http.MethodGet)
	guarded.HandleFunc("/event-all-info", s.handleCreateEventAllInfo).Methods(http.MethodPost)
	guarded.HandleFunc("/event-all-info/{eventId}", s.handleGetEventAllInfo).Methods(http.MethodGet)

	guarded.HandleFunc("/events-address/event/{eventId}", s.handleCreateAddress).Methods(http.MethodPost)
	guarded.HandleFunc("/events-address/events/{eventId}", s.handleGetEventAddress).Methods(http.MethodGet)
	guarded.HandleFunc("/events-address/{id}/event/{eventId}", s.handleGetAddress).Methods(http.MethodGet)
	guarded.HandleFunc("/events-address/{id}/event/{eventId}", s.handleUpdateAddress).Methods(http.MethodPut)
	guarded.HandleFunc("/events-address/{id}/event/{eventId}", s.handleDeleteAddress).Methods(http.MethodDelete)

	guarded.HandleFunc("/event-attendee/event/{eventId}", s.handleCreateAttendee).Methods(http.MethodPost)
	guarded.HandleFunc("/event-attendee/event", s.handleListAttendees).Methods(http.MethodGet)
	guarded.HandleFunc("/event-attendee/event/{eventId}", s.handleGetAttendee).Methods(http.MethodGet)
	guarded.HandleFunc("/event-attendee/event/{eventId}", s.handleUpdateAttendee).Methods(http.MethodPut)
	guarded.HandleFunc("/event-attendee/event/{eventId}", s.handleDeleteAttendee).Methods(http.MethodDelete)

	guarded.HandleFunc("/event-image", s.handleUploadImage).Methods(http.MethodPost)
	guarded.HandleFunc("/event-image/{eventId}", s.handleReplaceImage).Methods(http.MethodPut)
	guarded.HandleFunc("/event-image/{eventId}", s.handleDeleteImage).Methods(http.MethodDelete)
	guarded.HandleFunc("/event-id-image/{eventId}", s.handleGetEventImage).Methods(http.MethodGet)
	guarded.HandleFunc("/upload-url", s.handlePresignUpload).Methods(http.MethodPost)

	guarded.HandleFunc("/events-stats", s.handleEventStats).Methods(http.MethodGet)
	guarded.HandleFunc("/registered-events", s.handleRegisteredEvents).Methods(http.MethodGet)

	return r
}
