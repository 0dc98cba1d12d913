package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-kv-server/discussions"
	"github.com/jrsteele09/go-kv-server/internal/config"
	"github.com/jrsteele09/go-kv-server/server"
	"github.com/jrsteele09/go-kv-server/tenantstore/storefake"
)

const (
	testSigningSecret = "test-signing-secret"
	testSeed          = "test-seed"
	testUsername      = "alice"
	testPassword      = "pw123"
)

type testConfig struct {
	config.EnvVars
	config.Cors
}

func (testConfig) GetTokenSigningSecret() string   { return testSigningSecret }
func (testConfig) GetTokenValidity() time.Duration { return time.Hour }
func (testConfig) GetSeed() (string, error)        { return testSeed, nil }

type testFixture struct {
	server *server.Server
	store  *storefake.FakeStore
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	store := storefake.NewFakeStore()
	registry := discussions.NewRegistry(filepath.Join(t.TempDir(), "discussions.json"))

	s, err := server.New(testConfig{}, store, registry)
	require.NoError(t, err)

	return &testFixture{server: s, store: store}
}

// do sends a JSON request through the full middleware chain and returns the
// recorded response.
func (f *testFixture) do(t *testing.T, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type loginResponse struct {
	Token      string `json:"token"`
	Username   string `json:"username"`
	Passphrase string `json:"passphrase"`
}

type registerResponse struct {
	Message    string `json:"message"`
	Passphrase string `json:"passphrase"`
}

// register creates a user and returns the one-time passphrase.
func (f *testFixture) register(t *testing.T, username, password string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[registerResponse](t, rec).Passphrase
}

// login authenticates and returns the bearer token and passphrase.
func (f *testFixture) login(t *testing.T, username, password string) loginResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[loginResponse](t, rec)
}

func TestRoutesListing(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/routes/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	routes := decodeBody[[]string](t, rec)
	require.Contains(t, routes, "GET /get_kvs/")
	require.Contains(t, routes, "POST /auth/register")
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t)

	// Drive a request through the middleware chain first so there is
	// something to report.
	f.register(t, testUsername, testPassword)

	rec := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "kvserver_http_requests_total")
}

func TestResourcePolicyHeader(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
}
