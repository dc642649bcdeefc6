// Package reviews serves the review routes and the per-user rating
// summary.
package reviews

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Handler serves the review routes.
type Handler struct {
	engine *workflow.Engine
	log    zerolog.Logger
}

// NewHandler wires the review routes.
func NewHandler(engine *workflow.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

// Create submits a review by one job participant about another.
func (h *Handler) Create(c echo.Context) error {
	var in workflow.ReviewInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	r, err := h.engine.CreateReview(c.Request().Context(), mware.Actor(c), in)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, r)
}

type updateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Update edits the actor's own review.
func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	r, err := h.engine.UpdateReview(c.Request().Context(), mware.Actor(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Delete removes the actor's own review.
func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.engine.DeleteReview(c.Request().Context(), mware.Actor(c), id); err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// ListFor returns a user's reviews with their aggregated summary.
func (h *Handler) ListFor(c echo.Context) error {
	revieweeID := c.Param("id")

	f := review.Filter{JobID: c.QueryParam("job_id")}
	if v := c.QueryParam("rating_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating_min must be a number"})
		}
		f.RatingMin = n
	}
	if v := c.QueryParam("rating_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating_max must be a number"})
		}
		f.RatingMax = n
	}

	list, err := h.engine.ListReviewsFor(c.Request().Context(), revieweeID, f)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	summary, err := h.engine.AggregateReviews(c.Request().Context(), revieweeID, f)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": list, "summary": summary})
}
