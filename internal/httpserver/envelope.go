package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	msgInternal = "Internal server error"
	msgNoRoute  = "Not Found, please use a valid endpoint"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondPage(c echo.Context, message string, data, meta any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data, Meta: meta})
}

// ErrorHandler renders every error as the failure envelope. Anything that is not an
// *echo.HTTPError or a validation error becomes a bare 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := envelope{Success: false, Message: msgInternal}

	var (
		verr *ValidationError
		he   *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Message = "Validation failed"
		body.Error = verr.Fields
	case err == echo.ErrNotFound || err == echo.ErrMethodNotAllowed:
		status = http.StatusNotFound
		body.Message = msgNoRoute
	case errors.As(err, &he):
		status = he.Code
		if status < http.StatusInternalServerError {
			body.Message = messageOf(he.Message)
		}
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}

func messageOf(m any) string {
	switch v := m.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}
