package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type FeedbackHTTP struct {
	Svc *service.FeedbackService
}

func (h *FeedbackHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback.create")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.FeedbackRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "create_feedback_error", err)
	}

	fb, err := h.Svc.Create(ctx, actor.UserID, req.Command())
	if err != nil {
		return fail(l, "create_feedback_error", err)
	}
	l.Info("create_feedback_success", "feedback_id", fb.ID, "product_id", fb.ProductID)
	return respond(c, http.StatusCreated, "Feedback submitted successfully", fb)
}

func (h *FeedbackHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback.update")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req transport.FeedbackRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "update_feedback_error", err)
	}

	fb, err := h.Svc.Update(ctx, actor.UserID, req.Command())
	if err != nil {
		return fail(l, "update_feedback_error", err)
	}
	l.Info("update_feedback_success", "feedback_id", fb.ID)
	return respond(c, http.StatusOK, "Feedback updated successfully", fb)
}

func (h *FeedbackHTTP) UserProductFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback.user_product_feedback")

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return err
	}
	fb, err := h.Svc.UserFeedback(ctx, actor.UserID, productID)
	if err != nil {
		return fail(l, "user_product_feedback_error", err)
	}
	return respond(c, http.StatusOK, "", fb)
}

func (h *FeedbackHTTP) ProductFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback.product_feedback")

	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	rows, meta, err := h.Svc.ProductFeedback(ctx, productID, page, limit)
	if err != nil {
		return fail(l, "product_feedback_error", err)
	}
	return respondPage(c, "", rows, meta)
}

func (h *FeedbackHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feedback.stats")

	productID, err := uuidQuery(c, "product_id")
	if err != nil {
		return err
	}
	stats, err := h.Svc.Stats(ctx, productID)
	if err != nil {
		return fail(l, "product_feedback_stats_error", err)
	}
	return respond(c, http.StatusOK, "", stats)
}
