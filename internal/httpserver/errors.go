package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/internal/domain"
	middleware "github.com/forcosplay/costume-shop/pkg/middleware/auth"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOverdue):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err under event and converts it to the matching HTTP error.
func fail(l *slog.Logger, event string, err error) error {
	return failWithStatus(l, event, statusFor(err), err)
}

func failWithStatus(l *slog.Logger, event string, status int, err error) error {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(event, "status", status, "reason", msg)
	return echo.NewHTTPError(status, msg)
}

func session(c echo.Context) (middleware.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok || s.AccountID == 0 {
		return middleware.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return s, nil
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(v), nil
}

type messageResponse struct {
	Message string `json:"message"`
}
