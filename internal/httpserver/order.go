package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const headerIdempotencyKey = "Idempotency-Key"

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "create_order_error", err)
	}

	order, replayed, err := h.Svc.Create(ctx, actor.UserID, req.Command(c.Request().Header.Get(headerIdempotencyKey)))
	if err != nil {
		return fail(l, "create_order_error", err)
	}
	if replayed {
		return respond(c, http.StatusOK, "Order already created", order)
	}
	return respond(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHTTP) UserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_orders")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	orders, meta, err := h.Svc.UserOrders(ctx, actor.UserID, page, limit)
	if err != nil {
		return fail(l, "user_orders_error", err)
	}
	return respondPage(c, "", orders, meta)
}

func (h *OrderHTTP) UserOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.user_order")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "orderId", "order")
	if err != nil {
		return err
	}
	order, err := h.Svc.UserOrder(ctx, actor.UserID, id)
	if err != nil {
		return fail(l, "user_order_error", err)
	}
	return respond(c, http.StatusOK, "", order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "orderId", "order")
	if err != nil {
		return err
	}
	order, err := h.Svc.Cancel(ctx, actor, id)
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}
	l.Info("cancel_order_success", "order_id", id)
	return respond(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHTTP) AdminOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_get_all_orders")

	page, limit := pageParams(c)
	orders, meta, err := h.Svc.AdminOrders(ctx, c.QueryParam("status"), page, limit)
	if err != nil {
		return fail(l, "admin_orders_error", err)
	}
	return respondPage(c, "", orders, meta)
}

func (h *OrderHTTP) AdminUpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_update_order")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "orderId", "order")
	if err != nil {
		return err
	}
	var req transport.OrderStatusRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "admin_update_order_error", err)
	}

	order, err := h.Svc.AdminUpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		return fail(l, "admin_update_order_error", err)
	}
	l.Info("admin_update_order_success", "order_id", id, "status", order.Status)
	return respond(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHTTP) AdminStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.admin_orders_stats")

	stats, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "admin_orders_stats_error", err)
	}
	return respond(c, http.StatusOK, "", stats)
}
