// Package user serves public profiles and profile updates.
package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/store"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Handler serves the user routes.
type Handler struct {
	engine   *workflow.Engine
	store    store.Store
	contacts workflow.ContactValidator
	log      zerolog.Logger
}

// NewHandler wires the user routes. contacts may be nil.
func NewHandler(engine *workflow.Engine, st store.Store, contacts workflow.ContactValidator, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, store: st, contacts: contacts, log: log}
}

// GetPublicProfile returns a user's public profile with their review
// summary.
func (h *Handler) GetPublicProfile(c echo.Context) error {
	id := c.Param("id")
	u, err := h.store.GetUser(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	summary, err := h.engine.AggregateReviews(c.Request().Context(), id, review.Filter{})
	if err != nil {
		return httputil.Error(c, h.log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role,
		"country":      u.Country,
		"city":         u.City,
		"member_since": u.CreatedAt,
		"reviews":      summary,
	})
}

type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
	Country     *string `json:"country"`
	City        *string `json:"city"`
}

// UpdateProfile patches the authenticated user's profile. The phone
// number is validated against the (possibly updated) country.
func (h *Handler) UpdateProfile(c echo.Context) error {
	actor := mware.Actor(c)
	u, err := h.store.GetUser(c.Request().Context(), actor.ID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	req := new(UpdateProfileRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username != nil {
		if *req.Username == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username cannot be empty"})
		}
		u.Username = *req.Username
	}
	if req.Country != nil {
		u.Country = *req.Country
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.PhoneNumber != nil {
		u.PhoneNumber = *req.PhoneNumber
	}
	if h.contacts != nil {
		if err := h.contacts.ValidatePhone(u.PhoneNumber, u.Country); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	updated, err := h.store.UpdateUser(c.Request().Context(), u)
	if err != nil {
		h.log.Error().Err(err).Str("user", u.ID).Msg("profile update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
	return c.JSON(http.StatusOK, updated)
}
