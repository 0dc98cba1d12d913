package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-kv-server/kv"
	"github.com/jrsteele09/go-kv-server/token"
)

func (f *testFixture) listKVs(t *testing.T, bearer string) []kv.Entry {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/get_kvs/", bearer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[[]kv.Entry](t, rec)
}

func TestAddAndGetKVs(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, testUsername, testPassword)
	result := f.login(t, testUsername, testPassword)

	rec := f.do(t, http.MethodPost, "/add_kv/", result.Token, map[string]string{
		"key": "color", "value": "blue",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	entries := f.listKVs(t, result.Token)
	require.Equal(t, []kv.Entry{{Key: "color", Value: "blue"}}, entries)
}

func TestAddDuplicateKeyReturnsBadRequest(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, testUsername, testPassword)
	result := f.login(t, testUsername, testPassword)

	rec := f.do(t, http.MethodPost, "/add_kv/", result.Token, map[string]string{"key": "k", "value": "v1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Duplicate key is 400 on this endpoint, not 409
	rec = f.do(t, http.MethodPost, "/add_kv/", result.Token, map[string]string{"key": "k", "value": "v2"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The original value is untouched
	entries := f.listKVs(t, result.Token)
	require.Equal(t, []kv.Entry{{Key: "k", Value: "v1"}}, entries)
}

func TestUpdateDeleteLifecycle(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, testUsername, testPassword)
	result := f.login(t, testUsername, testPassword)

	rec := f.do(t, http.MethodPost, "/update_kv/", result.Token, map[string]string{"key": "k", "value": "v2"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/add_kv/", result.Token, map[string]string{"key": "k", "value": "v1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/update_kv/", result.Token, map[string]string{"key": "k", "value": "v2"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []kv.Entry{{Key: "k", Value: "v2"}}, f.listKVs(t, result.Token))

	rec = f.do(t, http.MethodPost, "/delete_kv/", result.Token, map[string]string{"key": "k"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, f.listKVs(t, result.Token))

	// Deleting again is NotFound
	rec = f.do(t, http.MethodPost, "/delete_kv/", result.Token, map[string]string{"key": "k"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKVMissingFields(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, testUsername, testPassword)
	result := f.login(t, testUsername, testPassword)

	rec := f.do(t, http.MethodPost, "/add_kv/", result.Token, map[string]string{"key": "k"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/update_kv/", result.Token, map[string]string{"value": "v"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/delete_kv/", result.Token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTenantIsolation(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, "alice", testPassword)
	f.register(t, "bob", testPassword)
	alice := f.login(t, "alice", testPassword)
	bob := f.login(t, "bob", testPassword)

	rec := f.do(t, http.MethodPost, "/add_kv/", alice.Token, map[string]string{"key": "k", "value": "alice-value"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Same key in another tenant's namespace succeeds independently
	rec = f.do(t, http.MethodPost, "/add_kv/", bob.Token, map[string]string{"key": "k", "value": "bob-value"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, []kv.Entry{{Key: "k", Value: "alice-value"}}, f.listKVs(t, alice.Token))
	require.Equal(t, []kv.Entry{{Key: "k", Value: "bob-value"}}, f.listKVs(t, bob.Token))
}

func TestMissingAuthorizationHeader(t *testing.T) {
	f := setupTestFixture(t)

	opensBefore := f.store.OpenCalls()
	rec := f.do(t, http.MethodGet, "/get_kvs/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// No storage access was attempted
	require.Equal(t, opensBefore, f.store.OpenCalls())
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	f := setupTestFixture(t)

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b c"} {
		req := httptest.NewRequest(http.MethodGet, "/get_kvs/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		f.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}

	rec := f.do(t, http.MethodGet, "/get_kvs/", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	f := setupTestFixture(t)

	f.register(t, testUsername, testPassword)

	issuedAt := time.Now()
	token.NowTimeFunc = func() time.Time { return issuedAt }
	defer func() { token.NowTimeFunc = time.Now }()

	result := f.login(t, testUsername, testPassword)

	// Accepted within the validity window
	rec := f.do(t, http.MethodGet, "/get_kvs/", result.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Rejected once the clock advances past expiry
	token.NowTimeFunc = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	rec = f.do(t, http.MethodGet, "/get_kvs/", result.Token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenForUnknownSubjectNotFound(t *testing.T) {
	f := setupTestFixture(t)

	// A correctly signed token whose subject has no identity record
	creator := token.NewCreator(token.NewHMACSigner(testSigningSecret), time.Hour)
	ghost, err := creator.Create("ghost")
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/get_kvs/", ghost, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
