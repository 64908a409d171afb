package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func render(t *testing.T, method string, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/", nil), rec)
	ErrorHandler(err, c)
	return rec
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "http error keeps message",
			err:    echo.NewHTTPError(http.StatusNotFound, "Product not found"),
			status: http.StatusNotFound,
			body:   `{"success":false,"message":"Product not found"}`,
		},
		{
			name:   "validation",
			err:    &ValidationError{Fields: []FieldError{{Field: "email", Rule: "email"}}},
			status: http.StatusBadRequest,
			body:   `{"success":false,"message":"Validation failed","error":[{"field":"email","rule":"email"}]}`,
		},
		{
			name:   "unknown route",
			err:    echo.ErrNotFound,
			status: http.StatusNotFound,
			body:   `{"success":false,"message":"Not Found, please use a valid endpoint"}`,
		},
		{
			name:   "plain error hides text",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"success":false,"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := render(t, http.MethodGet, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestErrorHandler_HeadHasNoBody(t *testing.T) {
	t.Parallel()

	rec := render(t, http.MethodHead, echo.NewHTTPError(http.StatusForbidden, "Access denied"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
