package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const secret = "test-secret"

func newServer(log *zap.Logger) *echo.Echo {
	e := echo.New()
	if log != nil {
		e.Use(RequestLogger(log))
	}
	g := e.Group("/admin", RequireAuth(secret), RequireRole("admin", "Doctor"))
	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	return e
}

func do(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	e := newServer(nil)

	valid, _, err := SignToken(secret, 7, "doctor", "Dr. Somchai", time.Hour)
	require.NoError(t, err)
	expired, _, err := SignToken(secret, 7, "doctor", "Dr. Somchai", -time.Minute)
	require.NoError(t, err)
	wrongKey, _, err := SignToken("other", 7, "doctor", "Dr. Somchai", time.Hour)
	require.NoError(t, err)
	nurse, _, err := SignToken(secret, 8, "nurse", "Nurse Ying", time.Hour)
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Sub: 1, Role: "admin"}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{"ok", "Bearer " + valid, http.StatusOK, `"role":"doctor"`},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, `"id":7`},
		{"missing header", "", http.StatusUnauthorized, "MISSING_AUTH_HEADER"},
		{"basic scheme", "Basic abc", http.StatusUnauthorized, "INVALID_AUTH_HEADER"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"no expiry", "Bearer " + noExp, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"role not allowed", "Bearer " + nurse, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.auth)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newServer(zap.New(core))

	tok, _, err := SignToken(secret, 3, "admin", "root", time.Hour)
	require.NoError(t, err)
	do(e, "Bearer "+tok)
	do(e, "")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.EqualValues(t, 200, entries[0].ContextMap()["status"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["user_id"])
	assert.Equal(t, "request failed", entries[1].Message)
	assert.EqualValues(t, 401, entries[1].ContextMap()["status"])
}

func TestRequireAuth_SessionCheck(t *testing.T) {
	revoked := map[uint]bool{9: true}
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"id": CurrentUserID(c)})
	}, RequireAuth(secret, func(_ context.Context, claims *Claims) error {
		switch {
		case revoked[claims.Sub]:
			return ErrSessionRevoked
		case claims.Sub == 13:
			return errors.New("lookup failed")
		}
		return nil
	}))

	call := func(sub uint) *httptest.ResponseRecorder {
		tok, _, err := SignToken(secret, sub, "nurse", "n", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call(7).Code)
	rec := call(9)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "SESSION_REVOKED")
	assert.Equal(t, http.StatusInternalServerError, call(13).Code)
}

func TestLogger_RequestScoped(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/work", func(c echo.Context) error {
		Logger(c).Warn("inside")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/work", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	e.ServeHTTP(httptest.NewRecorder(), req)

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "req-42", inside[0].ContextMap()["request_id"])

	// outside the middleware the global logger is used
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Same(t, zap.L(), Logger(c))
}
