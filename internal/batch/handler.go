package batch

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
)

// Handler exposes the generic batch endpoint.
type Handler struct {
	executor *Executor
	log      zerolog.Logger
}

// NewHandler wires the batch endpoint.
func NewHandler(executor *Executor, log zerolog.Logger) *Handler {
	return &Handler{executor: executor, log: log}
}

type runRequest struct {
	Operations []Operation `json:"operations"`
	Sequential bool        `json:"sequential"`
}

// Run executes a batch of operations for the acting user.
func (h *Handler) Run(c echo.Context) error {
	var req runRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Operations) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "operations is required"})
	}

	results, err := h.executor.Run(c.Request().Context(), mware.Actor(c), req.Operations, req.Sequential)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results, "sequential": req.Sequential})
}
