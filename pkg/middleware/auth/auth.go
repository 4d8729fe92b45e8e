package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/tokens"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	sessionKey = "session"
)

var ErrAccountNotFound = errors.New("account not found")

// Session is the identity attached to an authenticated request.
type Session struct {
	AccountID uint
	Email     string
	Role      string
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// AccountState is the stored view of an account the gate re-checks on every call.
type AccountState struct {
	Email   string
	Role    string
	Enabled bool
}

type AccountLookup interface {
	AccountState(ctx context.Context, id uint) (*AccountState, error)
}

type AuthMiddleware struct {
	JWTSecret []byte
	Accounts  AccountLookup
}

func NewAuthMiddleware(secret []byte, accounts AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{
		JWTSecret: secret,
		Accounts:  accounts,
	}
}

type ValidatorFunc func(s Session) error

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

// RequireAdmin checks the role stored for the account, not the one in the token.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(s Session) error {
		if s.Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "access denied: admins only")
		}
		return nil
	})
}

func (m *AuthMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token provided, authorization denied")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		accountID, err := claims.AccountID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		state, err := m.Accounts.AccountState(ctx, accountID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "account not found")
			}
			l.Error("account_lookup_error", "status", 500, "account_id", accountID, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if !state.Enabled {
			return echo.NewHTTPError(http.StatusForbidden, "access denied: account is disabled")
		}

		s := Session{AccountID: accountID, Email: state.Email, Role: state.Role}
		if validator != nil {
			if err := validator(s); err != nil {
				return err
			}
		}

		c.Set(sessionKey, s)
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if ck, err := c.Cookie(tokens.AccessCookieName); err == nil {
		return ck.Value
	}
	return ""
}

// SessionFrom returns the session stored by RequireAuth / RequireAdmin.
func SessionFrom(c echo.Context) (Session, bool) {
	s, ok := c.Get(sessionKey).(Session)
	return s, ok
}

// WithSession stores s on the context; used by tests and internal callers.
func WithSession(c echo.Context, s Session) {
	c.Set(sessionKey, s)
}
