package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-kv-server/internal/errors"
)

type discussionRequest struct {
	Name   string `json:"name"`
	PeerID string `json:"peerId"`
}

// AdvertiseDiscussionHandler records or refreshes a discussion advert.
func (s *Server) AdvertiseDiscussionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discussionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.PeerID == "" {
			writeError(w, http.StatusBadRequest, "Discussion name and Peer ID are required")
			return
		}

		if err := s.discussions.Advertise(req.Name, req.PeerID); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to advertise discussion")
			return
		}
		writeMessage(w, http.StatusCreated, "Discussion advertised successfully")
	}
}

// ListDiscussionsHandler returns all active discussions, pruning expired ones.
func (s *Server) ListDiscussionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.discussions.List()
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeError(w, http.StatusNotFound, "No discussions file found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to list discussions")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// RemoveDiscussionHandler withdraws a discussion advert by name.
func (s *Server) RemoveDiscussionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discussionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "Discussion name is required")
			return
		}

		if err := s.discussions.Remove(req.Name); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Discussion not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to remove discussion")
			return
		}
		writeMessage(w, http.StatusOK, "Discussion removed successfully")
	}
}
