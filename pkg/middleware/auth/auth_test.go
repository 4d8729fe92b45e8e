package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcosplay/costume-shop/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

type fakeAccounts map[uint]AccountState

func (f fakeAccounts) AccountState(_ context.Context, id uint) (*AccountState, error) {
	s, ok := f[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &s, nil
}

func newToken(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(id, "u@example.com", "", role, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	return tok
}

func serve(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *Session) {
	t.Helper()
	e := echo.New()
	var got *Session
	e.GET("/", func(c echo.Context) error {
		s, ok := SessionFrom(c)
		require.True(t, ok)
		got = &s
		return c.NoContent(http.StatusOK)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, got
}

func TestRequireAuth(t *testing.T) {
	accounts := fakeAccounts{
		1: {Email: "user@example.com", Role: RoleUser, Enabled: true},
		2: {Email: "off@example.com", Role: RoleUser, Enabled: false},
	}
	m := NewAuthMiddleware(secret, accounts)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "unknown account", header: "Bearer " + newToken(t, 99, RoleUser), status: http.StatusUnauthorized},
		{name: "disabled account", header: "Bearer " + newToken(t, 2, RoleUser), status: http.StatusForbidden},
		{name: "ok", header: "Bearer " + newToken(t, 1, RoleUser), status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, s := serve(t, m.RequireAuth, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, s)
				assert.EqualValues(t, 1, s.AccountID)
				assert.Equal(t, "user@example.com", s.Email)
				assert.False(t, s.IsAdmin())
			}
		})
	}
}

func TestRequireAdmin_UsesStoredRole(t *testing.T) {
	accounts := fakeAccounts{
		1: {Email: "user@example.com", Role: RoleUser, Enabled: true},
		3: {Email: "admin@example.com", Role: RoleAdmin, Enabled: true},
	}
	m := NewAuthMiddleware(secret, accounts)

	// token claims ADMIN but the stored role is USER
	rec, _ := serve(t, m.RequireAdmin, "Bearer "+newToken(t, 1, RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, s := serve(t, m.RequireAdmin, "Bearer "+newToken(t, 3, RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s)
	assert.True(t, s.IsAdmin())
}
