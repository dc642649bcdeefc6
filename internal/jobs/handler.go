// Package jobs serves the job posting routes on top of the workflow
// engine.
package jobs

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/batch"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/httputil"
	mware "github.com/jualabs/juajobs/internal/middleware"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Handler serves the job posting routes.
type Handler struct {
	engine   *workflow.Engine
	executor *batch.Executor
	log      zerolog.Logger
}

// NewHandler wires the job posting routes.
func NewHandler(engine *workflow.Engine, executor *batch.Executor, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, executor: executor, log: log}
}

// List returns active postings matching the query filters. Owners can
// pass mine=true to include their drafts and closed postings.
func (h *Handler) List(c echo.Context) error {
	f := job.Filter{Status: job.StatusActive}

	if s := c.QueryParam("status"); s != "" {
		f.Status = job.Status(s)
	}
	f.EmploymentType = c.QueryParam("employment_type")
	f.Location = c.QueryParam("location")
	if r := c.QueryParam("remote"); r != "" {
		remote := r == "true" || r == "1"
		f.Remote = &remote
	}
	if v := c.QueryParam("salary_min"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "salary_min must be a number"})
		}
		f.SalaryAtLeast = n
	}
	if v := c.QueryParam("salary_max"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "salary_max must be a number"})
		}
		f.SalaryAtMost = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a non-negative number"})
		}
		f.Limit = n
	}
	if c.QueryParam("mine") == "true" {
		actor := mware.Actor(c)
		if actor.ID == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		f.PostedBy = actor.ID
		if c.QueryParam("status") == "" {
			f.Status = ""
		}
	}

	postings, err := h.engine.ListJobPostings(c.Request().Context(), f)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": postings, "count": len(postings)})
}

// Get returns one posting.
func (h *Handler) Get(c echo.Context) error {
	p, err := h.engine.GetJobPosting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Create posts a new job for the acting client.
func (h *Handler) Create(c echo.Context) error {
	var in workflow.JobInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := h.engine.CreateJobPosting(c.Request().Context(), mware.Actor(c), in)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update applies field edits to an owned posting.
func (h *Handler) Update(c echo.Context) error {
	var in workflow.JobUpdate
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := h.engine.UpdateJobPosting(c.Request().Context(), mware.Actor(c), c.Param("id"), in)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Transition moves an owned posting through its state machine.
func (h *Handler) Transition(c echo.Context) error {
	var in struct {
		Status job.Status `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := h.engine.TransitionJobPosting(c.Request().Context(), mware.Actor(c), c.Param("id"), in.Status)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes an owned posting.
func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.engine.DeleteJobPosting(c.Request().Context(), mware.Actor(c), id); err != nil {
		return httputil.Error(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

type bulkUploadRequest struct {
	Jobs            []workflow.JobInput `json:"jobs"`
	ContinueOnError bool                `json:"continue_on_error"`
}

// BulkUpload creates up to the bulk cap of postings in one call. Items
// fail independently; nothing is rolled back.
func (h *Handler) BulkUpload(c echo.Context) error {
	var req bulkUploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Jobs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobs is required"})
	}

	res, err := h.executor.BulkCreateJobs(c.Request().Context(), mware.Actor(c), req.Jobs, req.ContinueOnError)
	if err != nil {
		return httputil.Error(c, h.log, err)
	}
	status := http.StatusCreated
	if res.Summary.Successful == 0 {
		status = http.StatusBadRequest
	} else if res.Summary.Failed > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, res)
}
