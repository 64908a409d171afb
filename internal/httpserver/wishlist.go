package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	products, err := h.Svc.List(ctx, actor.UserID)
	if err != nil {
		return fail(l, "get_wishlist_error", err)
	}
	return respond(c, http.StatusOK, "", products)
}

func (h *WishlistHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.ProductRefRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "add_to_wishlist_error", err)
	}

	if err := h.Svc.Add(ctx, actor.UserID, uuid.MustParse(req.ProductID)); err != nil {
		return fail(l, "add_to_wishlist_error", err)
	}
	l.Info("add_to_wishlist_success", "product_id", req.ProductID)
	return respond(c, http.StatusCreated, "Product added to wishlist", nil)
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId", "product")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(ctx, actor.UserID, productID); err != nil {
		return fail(l, "remove_from_wishlist_error", err)
	}
	return respond(c, http.StatusOK, "Product removed from wishlist", nil)
}

func (h *WishlistHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.clear")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	cleared, err := h.Svc.Clear(ctx, actor.UserID)
	if err != nil {
		return fail(l, "clear_wishlist_error", err)
	}
	if !cleared {
		return respond(c, http.StatusOK, "Wishlist is already empty", nil)
	}
	return respond(c, http.StatusOK, "Wishlist cleared", nil)
}
