package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.Get(ctx, actor.UserID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	msg := "Cart retrieved successfully"
	if len(cart.Items) == 0 {
		msg = "Cart is empty"
	}
	return respond(c, http.StatusOK, msg, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "add_to_cart_error", err)
	}

	cart, err := h.Svc.Add(ctx, actor.UserID, uuid.MustParse(req.ProductID), req.Qty())
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return respond(c, http.StatusOK, "Item added to cart", cart)
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_cart")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.UpdateCartRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "update_cart_error", err)
	}

	cart, err := h.Svc.Update(ctx, actor.UserID, uuid.MustParse(req.ProductID), req.Quantity)
	if err != nil {
		return fail(l, "update_cart_error", err)
	}
	l.Info("update_cart_success", "product_id", req.ProductID)
	return respond(c, http.StatusOK, "Cart updated successfully", cart)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId", "product")
	if err != nil {
		return err
	}

	cart, err := h.Svc.Remove(ctx, actor.UserID, productID)
	if err != nil {
		return fail(l, "remove_from_cart_error", err)
	}
	l.Info("remove_from_cart_success", "product_id", productID)
	return respond(c, http.StatusOK, "Item removed from cart", cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(ctx, actor.UserID); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	l.Info("clear_cart_success")
	return respond(c, http.StatusOK, "Cart cleared successfully", nil)
}
