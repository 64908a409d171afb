package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/service"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrUnavailable),
		errors.Is(err, service.ErrBusinessRule),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrExpired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs a service error under event and converts it into the matching HTTP error.
// Unexpected errors never leak their text to the client.
func fail(l *slog.Logger, event string, err error) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, msgInternal).SetInternal(err)
	}
	msg := service.Message(err)
	l.Warn(event, "status", status, "reason", msg, "error", err)
	return echo.NewHTTPError(status, msg)
}

func invalid(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid request", "error", err)
	return err
}

func actorOf(c echo.Context) (service.Actor, error) {
	s, _ := c.Get(middleware.CtxUserID).(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route")
	}
	roleStr, _ := c.Get(middleware.CtxRole).(string)
	role, err := authz.ParseRole(roleStr)
	if err != nil {
		return service.Actor{}, echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	return service.Actor{UserID: id, Role: role}, nil
}

func uuidParam(c echo.Context, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what+" id")
	}
	return id, nil
}

func uuidQuery(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.QueryParam(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid id")
	}
	return id, nil
}
