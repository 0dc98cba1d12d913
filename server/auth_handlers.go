package server

import (
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message    string `json:"message"`
	Passphrase string `json:"passphrase"`
}

// RegisterHandler creates a new identity and returns the minted passphrase
// for one-time display.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		passphrase, err := s.credentials.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrUserExists):
				writeError(w, http.StatusConflict, "User already exists")
			case apperrors.Is(err, apperrors.ErrInvalidUsername):
				writeError(w, http.StatusBadRequest, "Invalid username")
			default:
				writeError(w, http.StatusInternalServerError, "Registration failed")
			}
			return
		}

		writeJSON(w, http.StatusCreated, registerResponse{
			Message:    fmt.Sprintf("Registration successful! Your passphrase is: %s  Please save it securely.", passphrase),
			Passphrase: passphrase,
		})
	}
}

// LoginHandler authenticates a tenant and issues a bearer token. When a
// `next` parameter is present the caller is a web form: redirect there with
// token, username and passphrase appended as query parameters.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		result, err := s.credentials.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User does not exist")
			case apperrors.Is(err, apperrors.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "Invalid password")
			case apperrors.Is(err, apperrors.ErrInvalidUsername):
				writeError(w, http.StatusBadRequest, "Invalid username")
			default:
				writeError(w, http.StatusInternalServerError, "Login failed")
			}
			return
		}

		if next := r.URL.Query().Get("next"); next != "" {
			params := url.Values{}
			params.Set("token", result.Token)
			params.Set("username", result.Username)
			params.Set("passphrase", result.Passphrase)
			http.Redirect(w, r, next+"?"+params.Encode(), http.StatusSeeOther)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// LogoutHandler exists for the web caller. Bearer tokens are stateless, so
// there is no server-side session to tear down.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "You have been logged out.")
	}
}

// RoutesHandler lists all registered routes.
func (s *Server) RoutesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.RegisteredRoutes())
	}
}
