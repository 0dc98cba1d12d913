package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyUsername stores the authenticated tenant's username
const ContextKeyUsername ContextKey = "username"

// UsernameFromContext returns the authenticated username injected by
// RequireAuth.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok
}

// RequireAuth is middleware that validates a Bearer token and resolves the
// acting tenant. The header is checked before any storage access; only a
// well-formed, correctly signed, unexpired token triggers the identity
// lookup. Tokens whose subject no longer exists are rejected with 404.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "No authorization header found")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			username, err := s.tokens.Verify(parts[1])
			if err != nil {
				if apperrors.Is(err, apperrors.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// Verify the token's subject still exists in its identity store.
			unit, err := s.store.Open(r.Context(), username)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			_, err = unit.Users().GetByUsername(r.Context(), username)
			_ = unit.Close()
			if err != nil {
				if apperrors.Is(err, apperrors.ErrUserNotFound) {
					writeError(w, http.StatusNotFound, "User not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUsername, username)
			next(w, r.WithContext(ctx))
		}
	}
}
