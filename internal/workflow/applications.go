package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// ApplicationInput is the payload for applying to a job.
type ApplicationInput struct {
	JobID       string `json:"job_id" validate:"required"`
	CoverLetter string `json:"cover_letter"`
}

// CreateApplication submits an application. The store's conditional
// insert enforces one application per (worker, job) pair regardless of
// status; a withdrawn application does not free the slot.
func (e *Engine) CreateApplication(ctx context.Context, actor user.User, in ApplicationInput) (application.Application, error) {
	if !CanCreateApplication(actor) {
		return application.Application{}, Unauthorized("not_a_worker", "only workers can apply to jobs")
	}
	if in.JobID == "" {
		return application.Application{}, Validation("missing_job_id", "job_id is required")
	}

	p, err := e.GetJobPosting(ctx, in.JobID)
	if err != nil {
		return application.Application{}, err
	}
	if p.PostedBy == actor.ID {
		return application.Application{}, Conflict(ReasonSelfApplication, "you cannot apply to your own job posting")
	}
	if p.Status != job.StatusActive {
		return application.Application{}, InvalidState("job_not_active", "applications are only accepted while a job is active, not %s", p.Status)
	}

	a := application.Application{
		ID:          uuid.New().String(),
		WorkerID:    actor.ID,
		JobID:       p.ID,
		CoverLetter: in.CoverLetter,
		Status:      application.StatusPending,
	}
	created, err := e.store.CreateApplication(ctx, a)
	if errors.Is(err, store.ErrDuplicate) {
		return application.Application{}, Conflict(ReasonDuplicateApplication, "an application for this job already exists")
	}
	if err != nil {
		return application.Application{}, err
	}

	if e.notify != nil {
		e.notify.ApplicationReceived(created, p, e.userEmail(ctx, p.PostedBy))
	}
	e.log.Info().Str("application_id", created.ID).Str("job_id", p.ID).Str("worker_id", actor.ID).Msg("application created")
	return created, nil
}

// AcceptApplication moves a pending application to accepted. Job owner
// only.
func (e *Engine) AcceptApplication(ctx context.Context, actor user.User, id string) (application.Application, error) {
	return e.transitionApplication(ctx, actor, id, application.StatusAccepted)
}

// RejectApplication moves a pending application to rejected. Job owner
// only.
func (e *Engine) RejectApplication(ctx context.Context, actor user.User, id string) (application.Application, error) {
	return e.transitionApplication(ctx, actor, id, application.StatusRejected)
}

// WithdrawApplication moves a pending application to withdrawn. Applicant
// only.
func (e *Engine) WithdrawApplication(ctx context.Context, actor user.User, id string) (application.Application, error) {
	return e.transitionApplication(ctx, actor, id, application.StatusWithdrawn)
}

// transitionApplication runs the check-then-act loop: re-read, re-check,
// re-apply on a lost version race, bounded by casRetries. A transition
// out of a non-pending state fails with IllegalTransition, never a silent
// no-op.
func (e *Engine) transitionApplication(ctx context.Context, actor user.User, id string, next application.Status) (application.Application, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		a, err := e.getApplication(ctx, id)
		if err != nil {
			return application.Application{}, err
		}
		p, err := e.GetJobPosting(ctx, a.JobID)
		if err != nil {
			return application.Application{}, err
		}

		if next == application.StatusWithdrawn {
			if !CanWithdrawApplication(actor, a) {
				return application.Application{}, Unauthorized("not_applicant", "only the applicant can withdraw an application")
			}
		} else {
			if !CanDecideApplication(actor, p) {
				return application.Application{}, Unauthorized("not_job_owner", "only the job owner can accept or reject applications")
			}
		}
		if !application.CanTransition(a.Status, next) {
			return application.Application{}, IllegalTransition("illegal_transition", "application cannot move from %s to %s", a.Status, next)
		}

		a.Status = next
		updated, err := e.store.UpdateApplication(ctx, a, a.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return application.Application{}, err
		}

		if e.notify != nil && next != application.StatusWithdrawn {
			e.notify.ApplicationDecided(updated, p, e.userEmail(ctx, updated.WorkerID))
		}
		e.log.Info().Str("application_id", id).Str("status", string(next)).Msg("application transitioned")
		return updated, nil
	}
	return application.Application{}, VersionConflict("application_contended", "application %s is being modified concurrently", id)
}

func (e *Engine) getApplication(ctx context.Context, id string) (application.Application, error) {
	a, err := e.store.GetApplication(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return application.Application{}, NotFound("application_not_found", "application %s not found", id)
	}
	return a, err
}

// GetApplication returns one application, visible to the applicant and
// the job owner.
func (e *Engine) GetApplication(ctx context.Context, actor user.User, id string) (application.Application, error) {
	a, err := e.getApplication(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	p, err := e.GetJobPosting(ctx, a.JobID)
	if err != nil {
		return application.Application{}, err
	}
	if !CanViewApplication(actor, a, p) {
		return application.Application{}, Unauthorized("not_participant", "you are not part of this application")
	}
	return a, nil
}

// ListApplications returns the applications the actor may see: workers
// their own, clients those against their postings.
func (e *Engine) ListApplications(ctx context.Context, actor user.User, f application.Filter) ([]application.Application, error) {
	switch actor.Role {
	case user.RoleWorker:
		f.WorkerID = actor.ID
		return e.store.ListApplications(ctx, f)
	case user.RoleClient:
		if f.JobID != "" {
			p, err := e.GetJobPosting(ctx, f.JobID)
			if err != nil {
				return nil, err
			}
			if !CanMutateJobPosting(actor, p) {
				return nil, Unauthorized("not_job_owner", "you can only list applications to your own postings")
			}
			return e.store.ListApplications(ctx, f)
		}
		owned, err := e.store.ListJobs(ctx, job.Filter{PostedBy: actor.ID})
		if err != nil {
			return nil, err
		}
		var out []application.Application
		for _, p := range owned {
			jf := f
			jf.JobID = p.ID
			apps, err := e.store.ListApplications(ctx, jf)
			if err != nil {
				return nil, err
			}
			out = append(out, apps...)
		}
		return out, nil
	default:
		return nil, Unauthorized("unknown_role", "role %q cannot list applications", actor.Role)
	}
}
