package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/memstore"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func testConfig() *Config {
	return &Config{
		Port:           "3003",
		Environment:    "testing",
		Version:        "test",
		TrustedOrigins: []string{"http://localhost:5173"},
		Secret:         "test-secret",
		TokenTTL:       time.Hour,
		TokenIssuer:    "bloglist-test",
		StoreDriver:    "memory",
	}
}

// newTestApplication returns an application backed by a fresh in-memory store.
func newTestApplication(t *testing.T) (*application, *memstore.Store) {
	t.Helper()

	store := memstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app, err := newApplication(testConfig(), logger, store.Blogs(), store.Users(), nil)
	require.NoError(t, err)
	t.Cleanup(app.cancel)

	return app, store
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, []byte) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, body
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	err := json.Unmarshal(body, &v)
	if err != nil {
		t.Fatalf("could not decode %q: %v", body, err)
	}

	return v
}

func (ts *testServer) do(t *testing.T, method, path string, token *string, payload any) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// registerAndLogin creates a user through the API and returns its token.
func (ts *testServer) registerAndLogin(t *testing.T, username, name, password string) string {
	t.Helper()

	status, _, body := ts.post(t, "/api/users", nil, map[string]string{"username": username, "name": name, "password": password})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _, body = ts.post(t, "/api/login", nil, map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))

	return decode[map[string]string](t, body)["token"]
}

func strptr(s string) *string {
	return &s
}

func intptr(i int) *int {
	return &i
}
