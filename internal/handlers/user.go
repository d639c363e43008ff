package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopmaster/storefront/internal/activity"
	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/logging"
	"github.com/shopmaster/storefront/internal/service"
	"github.com/shopmaster/storefront/internal/transport"
)

type UserHandler struct {
	Svc      *service.UserService
	Recorder *activity.Recorder
}

func (h *UserHandler) Me(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	user, err := h.Svc.GetUser(c.Request().Context(), caller, caller.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe only touches the display name; email and role stay as they are.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update_me")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_me_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateName(ctx, caller.UserID, req.Name)
	if err != nil {
		l.Warn("update_me_failed", "user_id", caller.UserID, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) MyActivities(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	limit := parseIntDefault(c.QueryParam("limit"), 10)
	entries, err := h.Recorder.Recent(c.Request().Context(), caller.UserID, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *UserHandler) MyStatistics(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	stats, err := h.Svc.Statistics(c.Request().Context(), caller.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.GetUser(c.Request().Context(), caller, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_update")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(ctx, caller, id, req)
	if err != nil {
		l.Warn("update_user_failed", "user_id", id, "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteUser(ctx, caller, id); err != nil {
		l.Warn("delete_user_failed", "user_id", id, "error", err)
		return httpError(err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
