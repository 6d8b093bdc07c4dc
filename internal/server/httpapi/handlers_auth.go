package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mbelozerov/eventkeeper/internal/common"
)

// handleRegister creates a user. Any service failure, duplicate or
// transient, answers with the same generic 500 so the endpoint cannot be
// used to probe which usernames or emails exist.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Error(r.Context(), "register failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.UserName,
		Email:    user.Email,
	})
}

// handleLogin checks username, email, and password together. Every failure
// path produces the identical 401 body.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserResponse: userResponse{
			ID:       pair.User.ID,
			Username: pair.User.UserName,
			Email:    pair.User.Email,
		},
	})
}

// handleRefreshToken mints a new access token. The refresh token comes from
// the body or the Authorization header; the refresh token itself is not
// rotated.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = decodeJSON(r, &req)

	token := req.RefreshToken
	if token == "" {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	access, err := s.users.RefreshAccessToken(r.Context(), token, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			writeError(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "Unauthorized")
		default:
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access})
}

// handleLogout revokes the refresh token. Revoking an unknown or already
// revoked token still reports success.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	_ = decodeJSON(r, &req)

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "Refresh Token Required")
		return
	}

	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			writeError(w, http.StatusForbidden, "Invalid Refresh Token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
