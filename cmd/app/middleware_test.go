package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestExtractToken(t *testing.T) {
	app, _ := newTestApplication(t)

	tests := []struct {
		name       string
		authHeader string
		wantToken  string
	}{
		{name: "No Authorization Header", authHeader: "", wantToken: ""},
		{name: "Bearer Token", authHeader: "Bearer abc.def.ghi", wantToken: "abc.def.ghi"},
		{name: "Lowercase Scheme", authHeader: "bearer abc.def.ghi", wantToken: ""},
		{name: "Uppercase Scheme", authHeader: "BEARER abc.def.ghi", wantToken: ""},
		{name: "Basic Scheme", authHeader: "Basic dXNlcjpwYXNz", wantToken: ""},
		{name: "Scheme Only", authHeader: "Bearer", wantToken: ""},
		{name: "Empty Token", authHeader: "Bearer ", wantToken: ""},
		{name: "Extra Space", authHeader: "Bearer  abc.def.ghi", wantToken: " abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = app.getTokenContext(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			res := httptest.NewRecorder()

			app.extractToken(handler).ServeHTTP(res, req)

			assert.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tt.wantToken, got)
		})
	}
}

func TestResolveUser(t *testing.T) {
	app, store := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	token := ts.registerAndLogin(t, "mluukkai", "Matti Luukkainen", "salainen")

	otherApp, err := newApplication(&Config{Secret: "other-secret"}, app.logger, store.Blogs(), store.Users(), nil)
	require.NoError(t, err)
	t.Cleanup(otherApp.cancel)
	foreign, err := otherApp.userService.LoginUser(context.Background(), "mluukkai", "salainen")
	require.NoError(t, err)

	tokens, err := userservice.NewTokenManager(testConfig().Secret, testConfig().TokenTTL, testConfig().TokenIssuer)
	require.NoError(t, err)
	ghost, err := tokens.Issue(&userservice.User{ID: uuid.New(), Username: "ghost"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		wantUsername string
	}{
		{name: "No Token", token: ""},
		{name: "Valid Token", token: token, wantUsername: "mluukkai"},
		{name: "Garbage Token", token: "invalid-token"},
		{name: "Wrong Secret", token: foreign.Token},
		{name: "Unknown Subject", token: ghost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user *userservice.User
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user = app.getUserContext(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req = app.createTokenContext(req, tt.token)
			}
			res := httptest.NewRecorder()

			app.resolveUser(handler).ServeHTTP(res, req)

			// resolution never rejects a request
			assert.Equal(t, http.StatusOK, res.Code)

			if tt.wantUsername == "" {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, tt.wantUsername, user.Username)
		})
	}
}

func TestRequireUser(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := app.requireUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"token missing or invalid"}`, res.Body.String())

	req = app.createUserContext(httptest.NewRequest(http.MethodPost, "/", nil), &userservice.User{ID: uuid.New()})
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestEnableCORS(t *testing.T) {
	app := &application{
		config: &Config{
			TrustedOrigins: []string{"http://example.com"},
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.enableCORS(handler)

	tests := []struct {
		name                       string
		origin                     string
		method                     string
		accessControlRequestMethod *string
		expectedStatus             int
	}{
		{
			name:           "Valid Origin and Method",
			origin:         "http://example.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:                       "Valid Origin and Preflight Request",
			origin:                     "http://example.com",
			method:                     http.MethodOptions,
			accessControlRequestMethod: strptr(http.MethodPut),
			expectedStatus:             http.StatusOK,
		},
		{
			name:           "Invalid Origin",
			origin:         "http://invalid.com",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:                       "Invalid Origin Preflight Request",
			origin:                     "http://invalid.com",
			method:                     http.MethodOptions,
			accessControlRequestMethod: strptr(http.MethodDelete),
			expectedStatus:             http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.accessControlRequestMethod != nil {
				req.Header.Set("Access-Control-Request-Method", *tt.accessControlRequestMethod)
			}

			res := httptest.NewRecorder()

			middleware.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)

			trusted := tt.origin == app.config.TrustedOrigins[0]
			if trusted {
				assert.Equal(t, tt.origin, res.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
			}

			if trusted && tt.method == http.MethodOptions {
				assert.Equal(t, "OPTIONS, PUT, PATCH, DELETE", res.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type, Authorization", res.Header().Get("Access-Control-Allow-Headers"))
			} else {
				assert.Empty(t, res.Header().Get("Access-Control-Allow-Methods"))
				assert.Empty(t, res.Header().Get("Access-Control-Allow-Headers"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &application{
		ctx:    ctx,
		config: &Config{
			RateLimitRPS:     2,
			RateLimitBurst:   4,
			RateLimitEnabled: true,
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	server := httptest.NewServer(middleware)
	defer server.Close()

	tests := []struct {
		name           string
		requests       int
		expectedStatus int
	}{
		{
			name:           "Within Limit",
			requests:       4,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Over Limit",
			requests:       6,
			expectedStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lastStatusCode int

			for i := 0; i < tt.requests; i++ {
				res, err := http.Get(server.URL)
				assert.NoError(t, err)
				res.Body.Close()

				lastStatusCode = res.StatusCode
			}

			assert.Equal(t, tt.expectedStatus, lastStatusCode)
		})
	}
}

func TestRateLimitDisabled(t *testing.T) {
	app := &application{config: &Config{RateLimitRPS: 1, RateLimitBurst: 1}}

	middleware := app.rateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := httptest.NewRecorder()
		middleware.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}
}

func TestClientLimiter(t *testing.T) {
	l := newClientLimiter(1, 2)
	now := time.Now()

	assert.True(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now))
	assert.True(t, l.allow("10.0.0.2", now))

	l.allow("10.0.0.2", now.Add(2*time.Minute))
	l.forgetIdle(now.Add(4*time.Minute), 3*time.Minute)

	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestClientLimiterCleanupStops(t *testing.T) {
	l := newClientLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		l.cleanup(ctx, time.Millisecond, time.Minute)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup kept running after the context was cancelled")
	}
}
