// Package applications serves the application routes on top of the
// workflow engine.
package applications

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Handler serves the application routes.
type Handler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

// NewHandler wires the application routes.
func NewHandler(engine *workflow.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Create submits an application by the acting worker.
func (h *Handler) Create(c echo.Context) error {
	var in workflow.ApplicationInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	a, err := h.engine.CreateApplication(c.Request().Context(), mware.Actor(c), in)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// Get returns one application to its participants.
func (h *Handler) Get(c echo.Context) error {
	a, err := h.engine.GetApplication(c.Request().Context(), mware.Actor(c), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// List returns the actor's applications: a worker sees their own, a
// client sees those against their postings.
func (h *Handler) List(c echo.Context) error {
	f := application.Filter{
		JobID:  c.QueryParam("job_id"),
		Status: application.Status(c.QueryParam("status")),
	}
	apps, err := h.engine.ListApplications(c.Request().Context(), mware.Actor(c), f)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": apps, "count": len(apps)})
}

// Accept lets the posting owner accept a pending application.
func (h *Handler) Accept(c echo.Context) error {
	a, err := h.engine.AcceptApplication(c.Request().Context(), mware.Actor(c), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Reject lets the posting owner reject a pending application.
func (h *Handler) Reject(c echo.Context) error {
	a, err := h.engine.RejectApplication(c.Request().Context(), mware.Actor(c), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Withdraw lets the applicant withdraw a pending application.
func (h *Handler) Withdraw(c echo.Context) error {
	a, err := h.engine.WithdrawApplication(c.Request().Context(), mware.Actor(c), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, a)
}
