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

type AuthHandler struct {
	Users          *service.UserService
	Recorder       *activity.Recorder
	Producer       *events.Producer
	JWTSecret      []byte
	ProviderSecret []byte
}

// CreateSession exchanges a provider-verified identity token for a session.
// The user row is created lazily on first sign-in.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_session")

	var req transport.SessionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("session_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.IDToken == "" {
		l.Warn("session_error", "status", 400, "reason", "missing id_token")
		return echo.NewHTTPError(http.StatusBadRequest, "id_token is required")
	}

	email, name, err := auth.ParseProviderToken(req.IDToken, h.ProviderSecret)
	if err != nil {
		l.Warn("session_failed", "status", 401, "reason", "invalid provider token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid identity token")
	}

	user, created, err := h.Users.EnsureUser(ctx, email, name)
	if err != nil {
		l.Error("session_failed", "status", 500, "reason", "db_error", "error", err)
		return httpError(err)
	}

	token, exp, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("session_failed", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create token")
	}

	c.SetCookie(CreateCookie(auth.AccessCookieName, token, "/", exp))

	h.Recorder.Record(ctx, user.ID, models.ActionLogin, "user signed in", nil)
	h.publish(c, map[string]any{
		"type":    "user_signed_in",
		"userID":  user.ID,
		"email":   user.Email,
		"created": created,
	})

	l.Info("session_created", "user_id", user.ID, "role", user.Role, "new_user", created)
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	c.SetCookie(DeleteCookie(auth.AccessCookieName, "/"))
	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicUserEvents, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}
