package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mware "github.com/jualabs/juajobs/internal/middleware"
)

// Me returns the currently authenticated user's profile.
func (h *Handler) Me(c echo.Context) error {
	actor := mware.Actor(c)
	u, err := h.store.GetUser(c.Request().Context(), actor.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}
