package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-kv-server/discussions"
)

func TestListDiscussionsBeforeAnyAdvert(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/api/discussions", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvertiseAndListDiscussions(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/discussions", "", map[string]string{
		"name": "gophers", "peerId": "peer-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/discussions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeBody[[]discussions.Discussion](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, "gophers", list[0].Name)
	require.Equal(t, "peer-1", list[0].PeerID)
}

func TestAdvertiseDiscussionMissingFields(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/discussions", "", map[string]string{"name": "gophers"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/discussions", "", map[string]string{"peerId": "peer-1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveDiscussion(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/discussions", "", map[string]string{
		"name": "gophers", "peerId": "peer-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/discussions", "", map[string]string{"name": "gophers"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Removing again is NotFound
	rec = f.do(t, http.MethodDelete, "/api/discussions", "", map[string]string{"name": "gophers"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
