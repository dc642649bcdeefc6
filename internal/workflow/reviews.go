package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// ReviewInput is the payload for reviewing a job participant.
type ReviewInput struct {
	JobID      string `json:"job_id" validate:"required"`
	RevieweeID string `json:"reviewee_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=1000"`
}

func (e *Engine) hasApplied(ctx context.Context, workerID, jobID string) (bool, error) {
	apps, err := e.store.ListApplications(ctx, application.Filter{WorkerID: workerID, JobID: jobID})
	if err != nil {
		return false, err
	}
	return len(apps) > 0, nil
}

// CreateReview records a rating by one participant of a job about
// another. The self-review ban holds independent of job state, and the
// (reviewer, reviewee, job) triple is unique via the store's conditional
// insert.
func (e *Engine) CreateReview(ctx context.Context, actor user.User, in ReviewInput) (review.Review, error) {
	if in.RevieweeID == actor.ID {
		return review.Review{}, Conflict(ReasonSelfReview, "you cannot review yourself")
	}
	if !review.ValidRating(in.Rating) {
		return review.Review{}, Validation("invalid_rating", "rating must be between %d and %d", review.MinRating, review.MaxRating)
	}
	if len(in.Comment) > 1000 {
		return review.Review{}, Validation("comment_too_long", "comment must be at most 1000 characters")
	}

	p, err := e.GetJobPosting(ctx, in.JobID)
	if err != nil {
		return review.Review{}, err
	}
	applied, err := e.hasApplied(ctx, actor.ID, p.ID)
	if err != nil {
		return review.Review{}, err
	}
	if !CanCreateReview(actor, p, applied) {
		return review.Review{}, Unauthorized("not_participant", "only job participants can leave reviews")
	}

	revieweeApplied, err := e.hasApplied(ctx, in.RevieweeID, p.ID)
	if err != nil {
		return review.Review{}, err
	}
	if in.RevieweeID != p.PostedBy && !revieweeApplied {
		return review.Review{}, Validation("reviewee_not_participant", "the reviewee is not part of this job")
	}

	r := review.Review{
		ID:         uuid.New().String(),
		ReviewerID: actor.ID,
		RevieweeID: in.RevieweeID,
		JobID:      p.ID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	created, err := e.store.CreateReview(ctx, r)
	if errors.Is(err, store.ErrDuplicate) {
		return review.Review{}, Conflict(ReasonDuplicateReview, "you already reviewed this user for this job")
	}
	if err != nil {
		return review.Review{}, err
	}
	e.invalidateReviews(ctx, created.RevieweeID)
	e.log.Info().Str("review_id", created.ID).Str("reviewee_id", created.RevieweeID).Msg("review created")
	return created, nil
}

func (e *Engine) getReview(ctx context.Context, id string) (review.Review, error) {
	r, err := e.store.GetReview(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return review.Review{}, NotFound("review_not_found", "review %s not found", id)
	}
	return r, err
}

// UpdateReview edits the rating or comment. Reviewer only.
func (e *Engine) UpdateReview(ctx context.Context, actor user.User, id string, rating int, comment string) (review.Review, error) {
	r, err := e.getReview(ctx, id)
	if err != nil {
		return review.Review{}, err
	}
	if !CanMutateReview(actor, r) {
		return review.Review{}, Unauthorized("not_reviewer", "only the reviewer can edit a review")
	}
	if !review.ValidRating(rating) {
		return review.Review{}, Validation("invalid_rating", "rating must be between %d and %d", review.MinRating, review.MaxRating)
	}
	if len(comment) > 1000 {
		return review.Review{}, Validation("comment_too_long", "comment must be at most 1000 characters")
	}

	r.Rating = rating
	r.Comment = comment
	updated, err := e.store.UpdateReview(ctx, r)
	if err != nil {
		return review.Review{}, err
	}
	e.invalidateReviews(ctx, updated.RevieweeID)
	return updated, nil
}

// DeleteReview removes a review. Reviewer only.
func (e *Engine) DeleteReview(ctx context.Context, actor user.User, id string) error {
	r, err := e.getReview(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutateReview(actor, r) {
		return Unauthorized("not_reviewer", "only the reviewer can delete a review")
	}
	if err := e.store.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("review_not_found", "review %s not found", id)
		}
		return err
	}
	e.invalidateReviews(ctx, r.RevieweeID)
	return nil
}

// ListReviewsFor returns a reviewee's reviews, optionally narrowed.
func (e *Engine) ListReviewsFor(ctx context.Context, revieweeID string, f review.Filter) ([]review.Review, error) {
	f.RevieweeID = revieweeID
	return e.store.ListReviews(ctx, f)
}
