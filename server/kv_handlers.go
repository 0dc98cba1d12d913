package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
	"github.com/jrsteele09/go-kv-server/tenantstore"
)

type kvRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// openTenantUnit resolves the authenticated tenant from the request context
// and opens its storage unit. The unit is opened fresh per request and must
// be closed by the caller.
func (s *Server) openTenantUnit(w http.ResponseWriter, r *http.Request) (tenantstore.Unit, bool) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "You must be logged in to access this resource")
		return nil, false
	}
	unit, err := s.store.Open(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Storage unavailable")
		return nil, false
	}
	return unit, true
}

// GetKVsHandler returns every entry in the tenant's namespace.
func (s *Server) GetKVsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit, ok := s.openTenantUnit(w, r)
		if !ok {
			return
		}
		defer unit.Close()

		entries, err := unit.Entries().List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list key-value pairs")
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// AddKVHandler inserts a new entry. A duplicate key is reported as 400,
// not 409.
func (s *Server) AddKVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kvRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Key == "" || req.Value == "" {
			writeError(w, http.StatusBadRequest, "Key or value is missing")
			return
		}

		unit, ok := s.openTenantUnit(w, r)
		if !ok {
			return
		}
		defer unit.Close()

		if err := unit.Entries().Insert(r.Context(), req.Key, req.Value); err != nil {
			if apperrors.Is(err, apperrors.ErrKeyExists) {
				writeError(w, http.StatusBadRequest, "Key already exists")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to add key-value pair")
			return
		}
		writeMessage(w, http.StatusOK, "Key-Value pair added successfully")
	}
}

// UpdateKVHandler overwrites the value of an existing entry.
func (s *Server) UpdateKVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kvRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Key == "" || req.Value == "" {
			writeError(w, http.StatusBadRequest, "Key or value is missing")
			return
		}

		unit, ok := s.openTenantUnit(w, r)
		if !ok {
			return
		}
		defer unit.Close()

		if err := unit.Entries().Update(r.Context(), req.Key, req.Value); err != nil {
			if apperrors.Is(err, apperrors.ErrKeyNotFound) {
				writeError(w, http.StatusNotFound, "Key does not exist")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to update key-value pair")
			return
		}
		writeMessage(w, http.StatusOK, "Key-Value pair updated successfully")
	}
}

// DeleteKVHandler removes an entry.
func (s *Server) DeleteKVHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kvRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Key == "" {
			writeError(w, http.StatusBadRequest, "Key is missing")
			return
		}

		unit, ok := s.openTenantUnit(w, r)
		if !ok {
			return
		}
		defer unit.Close()

		if err := unit.Entries().Delete(r.Context(), req.Key); err != nil {
			if apperrors.Is(err, apperrors.ErrKeyNotFound) {
				writeError(w, http.StatusNotFound, "Key not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to delete key-value pair")
			return
		}
		writeMessage(w, http.StatusOK, "Key-Value pair deleted successfully")
	}
}
