package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shopmaster/storefront/internal/activity"
	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/events"
	"github.com/shopmaster/storefront/internal/logging"
	"github.com/shopmaster/storefront/internal/models"
	"github.com/shopmaster/storefront/internal/service"
	"github.com/shopmaster/storefront/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Recorder *activity.Recorder
	Producer *events.Producer
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_place")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, caller, req)
	if err != nil {
		l.Warn("place_order_failed", "user_id", caller.UserID, "error", err)
		return httpError(err)
	}

	var itemCount uint
	for _, it := range order.Items {
		itemCount += it.Quantity
	}

	h.Recorder.Record(ctx, caller.UserID, models.ActionOrderCreated,
		fmt.Sprintf("order %s placed", order.Number),
		map[string]any{
			"orderId":    order.ID,
			"orderTotal": order.Total,
			"orderItems": itemCount,
		})
	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  caller.UserID,
		"orderID": order.ID,
		"number":  order.Number,
		"total":   order.Total,
	})

	l.Info("place_order_success", "user_id", caller.UserID, "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), caller, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	var filter transport.OrderFilter
	if err := c.Bind(&filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}

	summaries, err := h.Svc.ListOrders(c.Request().Context(), caller, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
