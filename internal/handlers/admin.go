package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopmaster/storefront/internal/activity"
)

type AdminHandler struct {
	Recorder *activity.Recorder
}

// Logs returns the last 100 activity entries, newest first.
func (h *AdminHandler) Logs(c echo.Context) error {
	entries, err := h.Recorder.Feed(c.Request().Context(), 100)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}
