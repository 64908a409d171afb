package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.profile")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	u, err := h.Svc.Profile(ctx, actor.UserID)
	if err != nil {
		return fail(l, "get_profile_error", err)
	}
	return respond(c, http.StatusOK, "", u)
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_profile")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.EmailRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "update_profile_error", err)
	}

	u, err := h.Svc.UpdateEmail(ctx, actor.UserID, req.Email)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	l.Info("update_profile_success")
	return respond(c, http.StatusOK, "Profile updated successfully", u)
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	limit := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	users, meta, err := h.Svc.List(ctx, c.QueryParam("searchTerm"), page, limit)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return respondPage(c, "", users, meta)
}

func (h *UserHTTP) SetRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.set_role")

	id, err := uuidParam(c, "userId", "user")
	if err != nil {
		return err
	}
	var req transport.RoleRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "set_role_error", err)
	}

	u, err := h.Svc.SetRole(ctx, id, req.Role)
	if err != nil {
		return fail(l, "set_role_error", err)
	}
	l.Info("set_role_success", "user_id", id, "role", u.Role)
	return respond(c, http.StatusOK, "User role updated successfully", u)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	id, err := uuidParam(c, "userId", "user")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_user_error", err)
	}
	l.Info("delete_user_success", "user_id", id)
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
