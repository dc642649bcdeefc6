package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// JobInput is the payload for creating a job posting.
type JobInput struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Description    string     `json:"description" validate:"required"`
	Requirements   string     `json:"requirements"`
	SalaryMin      int64      `json:"salary_min" validate:"min=0"`
	SalaryMax      int64      `json:"salary_max" validate:"min=0"`
	EmploymentType string     `json:"employment_type"`
	Location       string     `json:"location"`
	RemoteWork     bool       `json:"remote_work"`
	Deadline       *time.Time `json:"deadline"`
	// Draft creates the posting in draft instead of active.
	Draft bool `json:"draft"`
}

// JobUpdate carries partial edits to a posting; nil fields are untouched.
// Status is not here: it moves only through TransitionJobPosting.
type JobUpdate struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Requirements   *string    `json:"requirements"`
	SalaryMin      *int64     `json:"salary_min"`
	SalaryMax      *int64     `json:"salary_max"`
	EmploymentType *string    `json:"employment_type"`
	Location       *string    `json:"location"`
	RemoteWork     *bool      `json:"remote_work"`
	Deadline       *time.Time `json:"deadline"`
}

func validatePosting(p job.Posting) error {
	if p.Title == "" {
		return Validation("missing_title", "title is required")
	}
	if len(p.Title) > 255 {
		return Validation("title_too_long", "title must be at most 255 characters")
	}
	if p.Description == "" {
		return Validation("missing_description", "description is required")
	}
	if !job.ValidEmploymentType(p.EmploymentType) {
		return Validation("invalid_employment_type", "unknown employment type %q", p.EmploymentType)
	}
	if p.SalaryMin < 0 || p.SalaryMax < 0 {
		return Validation("invalid_salary", "salary must not be negative")
	}
	if p.SalaryMin > 0 && p.SalaryMax > 0 && p.SalaryMin > p.SalaryMax {
		return Validation("invalid_salary_range", "salary_min exceeds salary_max")
	}
	return nil
}

// CreateJobPosting creates a posting owned by the acting client.
func (e *Engine) CreateJobPosting(ctx context.Context, actor user.User, in JobInput) (job.Posting, error) {
	if !CanCreateJobPosting(actor) {
		return job.Posting{}, Unauthorized("not_a_client", "only clients can create job postings")
	}

	p := job.Posting{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Description:    in.Description,
		Requirements:   in.Requirements,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		EmploymentType: in.EmploymentType,
		Location:       in.Location,
		RemoteWork:     in.RemoteWork,
		Deadline:       in.Deadline,
		Status:         job.StatusActive,
		PostedBy:       actor.ID,
	}
	if p.EmploymentType == "" {
		p.EmploymentType = job.FullTime
	}
	if in.Draft {
		p.Status = job.StatusDraft
	}
	if err := validatePosting(p); err != nil {
		return job.Posting{}, err
	}

	created, err := e.store.CreateJob(ctx, p)
	if err != nil {
		return job.Posting{}, err
	}
	e.invalidateJob(ctx, created.ID)
	e.log.Info().Str("job_id", created.ID).Str("posted_by", actor.ID).Msg("job posting created")
	return created, nil
}

// GetJobPosting returns one posting.
func (e *Engine) GetJobPosting(ctx context.Context, id string) (job.Posting, error) {
	p, err := e.store.GetJob(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return job.Posting{}, NotFound("job_not_found", "job posting %s not found", id)
	}
	return p, err
}

// ListJobPostings returns postings matching the filter.
func (e *Engine) ListJobPostings(ctx context.Context, f job.Filter) ([]job.Posting, error) {
	return e.store.ListJobs(ctx, f)
}

// UpdateJobPosting applies field edits. Owner only; status is out of
// reach here.
func (e *Engine) UpdateJobPosting(ctx context.Context, actor user.User, id string, in JobUpdate) (job.Posting, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		p, err := e.GetJobPosting(ctx, id)
		if err != nil {
			return job.Posting{}, err
		}
		if !CanMutateJobPosting(actor, p) {
			return job.Posting{}, Unauthorized("not_job_owner", "only the posting owner can edit it")
		}

		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Requirements != nil {
			p.Requirements = *in.Requirements
		}
		if in.SalaryMin != nil {
			p.SalaryMin = *in.SalaryMin
		}
		if in.SalaryMax != nil {
			p.SalaryMax = *in.SalaryMax
		}
		if in.EmploymentType != nil {
			p.EmploymentType = *in.EmploymentType
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.RemoteWork != nil {
			p.RemoteWork = *in.RemoteWork
		}
		if in.Deadline != nil {
			p.Deadline = in.Deadline
		}
		if err := validatePosting(p); err != nil {
			return job.Posting{}, err
		}

		updated, err := e.store.UpdateJob(ctx, p, p.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return job.Posting{}, err
		}
		e.invalidateJob(ctx, updated.ID)
		return updated, nil
	}
	return job.Posting{}, VersionConflict("job_contended", "job posting %s is being modified concurrently", id)
}

// TransitionJobPosting moves a posting through its state machine. Owner
// initiated only; illegal moves fail loudly rather than no-op so retries
// stay safe.
func (e *Engine) TransitionJobPosting(ctx context.Context, actor user.User, id string, next job.Status) (job.Posting, error) {
	if !job.ValidStatus(next) {
		return job.Posting{}, Validation("invalid_status", "unknown job status %q", next)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		p, err := e.GetJobPosting(ctx, id)
		if err != nil {
			return job.Posting{}, err
		}
		if !CanMutateJobPosting(actor, p) {
			return job.Posting{}, Unauthorized("not_job_owner", "only the posting owner can change its status")
		}
		if !job.CanTransition(p.Status, next) {
			return job.Posting{}, IllegalTransition("illegal_transition", "job posting cannot move from %s to %s", p.Status, next)
		}

		p.Status = next
		updated, err := e.store.UpdateJob(ctx, p, p.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return job.Posting{}, err
		}
		e.invalidateJob(ctx, updated.ID)
		e.log.Info().Str("job_id", id).Str("status", string(next)).Msg("job posting transitioned")
		return updated, nil
	}
	return job.Posting{}, VersionConflict("job_contended", "job posting %s is being modified concurrently", id)
}

// DeleteJobPosting removes a posting and, through the store, its
// applications and reviews.
func (e *Engine) DeleteJobPosting(ctx context.Context, actor user.User, id string) error {
	p, err := e.GetJobPosting(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutateJobPosting(actor, p) {
		return Unauthorized("not_job_owner", "only the posting owner can delete it")
	}
	if err := e.store.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("job_not_found", "job posting %s not found", id)
		}
		return err
	}
	e.invalidateJob(ctx, id)
	return nil
}
