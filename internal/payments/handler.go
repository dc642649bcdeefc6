// Package payments serves the payment transaction routes.
package payments

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Handler serves the payment routes.
type Handler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

// NewHandler wires the payment routes.
func NewHandler(engine *workflow.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Create opens a pending transaction from the acting user. The reference
// id is generated server side, never taken from the request.
func (h *Handler) Create(c echo.Context) error {
	var in workflow.PaymentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	tx, err := h.engine.CreatePayment(c.Request().Context(), mware.Actor(c), in)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, tx)
}

// Get returns one transaction to its parties.
func (h *Handler) Get(c echo.Context) error {
	tx, err := h.engine.GetPayment(c.Request().Context(), mware.Actor(c), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tx)
}

// List returns the actor's transactions on either side.
func (h *Handler) List(c echo.Context) error {
	f := payment.Filter{
		JobID:  c.QueryParam("job_id"),
		Status: payment.Status(c.QueryParam("status")),
	}
	txs, err := h.engine.ListPaymentsFor(c.Request().Context(), mware.Actor(c), f)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": txs, "count": len(txs)})
}

// Transition moves a transaction through its state machine.
func (h *Handler) Transition(c echo.Context) error {
	var in struct {
		Status payment.Status `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	tx, err := h.engine.TransitionPayment(c.Request().Context(), mware.Actor(c), c.Param("id"), in.Status)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, tx)
}
