package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.overview")

	ov, err := h.Svc.Overview(ctx)
	if err != nil {
		return fail(l, "admin_overview_error", err)
	}
	return respond(c, http.StatusOK, "", ov)
}
