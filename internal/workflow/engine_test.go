package workflow_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store/memory"
	"github.com/jualabs/juajobs/internal/validation"
	"github.com/jualabs/juajobs/internal/workflow"
)

var (
	client  = user.User{ID: "client-1", Email: "client@example.com", Username: "client", Role: user.RoleClient}
	worker  = user.User{ID: "worker-1", Email: "worker@example.com", Username: "worker", Role: user.RoleWorker}
	worker2 = user.User{ID: "worker-2", Email: "worker2@example.com", Username: "worker2", Role: user.RoleWorker}
)

func newTestEngine(t *testing.T) (*workflow.Engine, *memory.Memory) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	for _, u := range []user.User{client, worker, worker2} {
		_, err := st.CreateUser(ctx, u)
		require.NoError(t, err)
	}
	return workflow.New(st, nil, nil, validation.New(), zerolog.Nop()), st
}

func postJob(t *testing.T, e *workflow.Engine, in workflow.JobInput) job.Posting {
	t.Helper()
	if in.Title == "" {
		in.Title = "Plumber needed"
	}
	if in.Description == "" {
		in.Description = "Fix a leaking kitchen sink."
	}
	p, err := e.CreateJobPosting(context.Background(), client, in)
	require.NoError(t, err)
	return p
}

func TestCreateJobPosting(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("defaults to active and full_time", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{})
		assert.Equal(t, job.StatusActive, p.Status)
		assert.Equal(t, job.FullTime, p.EmploymentType)
		assert.Equal(t, client.ID, p.PostedBy)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("draft flag creates a draft", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{Draft: true})
		assert.Equal(t, job.StatusDraft, p.Status)
	})

	t.Run("workers cannot post", func(t *testing.T) {
		_, err := e.CreateJobPosting(ctx, worker, workflow.JobInput{Title: "x", Description: "y"})
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})

	t.Run("title is required", func(t *testing.T) {
		_, err := e.CreateJobPosting(ctx, client, workflow.JobInput{Description: "y"})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})

	t.Run("salary range must be ordered", func(t *testing.T) {
		_, err := e.CreateJobPosting(ctx, client, workflow.JobInput{
			Title: "x", Description: "y", SalaryMin: 500, SalaryMax: 100,
		})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})

	t.Run("unknown employment type rejected", func(t *testing.T) {
		_, err := e.CreateJobPosting(ctx, client, workflow.JobInput{
			Title: "x", Description: "y", EmploymentType: "gig",
		})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})
}

func TestTransitionJobPosting(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("walks the legal path", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{})
		for _, next := range []job.Status{job.StatusPaused, job.StatusActive, job.StatusClosed} {
			var err error
			p, err = e.TransitionJobPosting(ctx, client, p.ID, next)
			require.NoError(t, err)
			assert.Equal(t, next, p.Status)
		}
	})

	t.Run("terminal states have no exits", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{})
		_, err := e.TransitionJobPosting(ctx, client, p.ID, job.StatusFilled)
		require.NoError(t, err)

		_, err = e.TransitionJobPosting(ctx, client, p.ID, job.StatusActive)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))
	})

	t.Run("skipping states is illegal", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{Draft: true})
		_, err := e.TransitionJobPosting(ctx, client, p.ID, job.StatusFilled)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))
	})

	t.Run("owner only", func(t *testing.T) {
		p := postJob(t, e, workflow.JobInput{})
		_, err := e.TransitionJobPosting(ctx, worker, p.ID, job.StatusPaused)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})

	t.Run("unknown status rejected before any load", func(t *testing.T) {
		_, err := e.TransitionJobPosting(ctx, client, "whatever", job.Status("archived"))
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})
}

func TestUpdateJobPosting(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	p := postJob(t, e, workflow.JobInput{})

	title := "Senior plumber needed"
	updated, err := e.UpdateJobPosting(ctx, client, p.ID, workflow.JobUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, p.Status, updated.Status)

	_, err = e.UpdateJobPosting(ctx, worker, p.ID, workflow.JobUpdate{Title: &title})
	assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))

	empty := ""
	_, err = e.UpdateJobPosting(ctx, client, p.ID, workflow.JobUpdate{Title: &empty})
	assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
}

func TestDeleteJobPosting(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()
	p := postJob(t, e, workflow.JobInput{})

	_, err := e.CreateApplication(ctx, worker, workflow.ApplicationInput{JobID: p.ID})
	require.NoError(t, err)

	assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(e.DeleteJobPosting(ctx, worker, p.ID)))

	require.NoError(t, e.DeleteJobPosting(ctx, client, p.ID))

	_, err = e.GetJobPosting(ctx, p.ID)
	assert.Equal(t, workflow.KindNotFound, workflow.KindOf(err))

	apps, err := st.ListApplications(ctx, application.Filter{WorkerID: worker.ID})
	require.NoError(t, err)
	assert.Empty(t, apps, "applications should be removed with the posting")
}

func TestCreateApplication(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	p := postJob(t, e, workflow.JobInput{})

	t.Run("worker applies once", func(t *testing.T) {
		a, err := e.CreateApplication(ctx, worker, workflow.ApplicationInput{JobID: p.ID, CoverLetter: "hi"})
		require.NoError(t, err)
		assert.Equal(t, application.StatusPending, a.Status)

		_, err = e.CreateApplication(ctx, worker, workflow.ApplicationInput{JobID: p.ID})
		assert.Equal(t, workflow.KindConflict, workflow.KindOf(err))
		assert.Equal(t, workflow.ReasonDuplicateApplication, workflow.ReasonOf(err))
	})

	t.Run("clients cannot apply", func(t *testing.T) {
		_, err := e.CreateApplication(ctx, client, workflow.ApplicationInput{JobID: p.ID})
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})

	t.Run("non-active job rejects applications", func(t *testing.T) {
		paused := postJob(t, e, workflow.JobInput{Title: "Paused role", Description: "d"})
		_, err := e.TransitionJobPosting(ctx, client, paused.ID, job.StatusPaused)
		require.NoError(t, err)

		_, err = e.CreateApplication(ctx, worker2, workflow.ApplicationInput{JobID: paused.ID})
		assert.Equal(t, workflow.KindInvalidState, workflow.KindOf(err))
	})

	t.Run("missing job", func(t *testing.T) {
		_, err := e.CreateApplication(ctx, worker2, workflow.ApplicationInput{JobID: "nope"})
		assert.Equal(t, workflow.KindNotFound, workflow.KindOf(err))
	})

	t.Run("withdrawn application keeps the slot", func(t *testing.T) {
		second := postJob(t, e, workflow.JobInput{Title: "Second role", Description: "d"})
		a, err := e.CreateApplication(ctx, worker2, workflow.ApplicationInput{JobID: second.ID})
		require.NoError(t, err)

		_, err = e.WithdrawApplication(ctx, worker2, a.ID)
		require.NoError(t, err)

		_, err = e.CreateApplication(ctx, worker2, workflow.ApplicationInput{JobID: second.ID})
		assert.Equal(t, workflow.ReasonDuplicateApplication, workflow.ReasonOf(err))
	})
}

func TestApplicationDecisions(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	apply := func(t *testing.T, w user.User) application.Application {
		p := postJob(t, e, workflow.JobInput{Title: "Role " + w.ID, Description: "d"})
		a, err := e.CreateApplication(ctx, w, workflow.ApplicationInput{JobID: p.ID})
		require.NoError(t, err)
		return a
	}

	t.Run("owner accepts", func(t *testing.T) {
		a := apply(t, worker)
		decided, err := e.AcceptApplication(ctx, client, a.ID)
		require.NoError(t, err)
		assert.Equal(t, application.StatusAccepted, decided.Status)
	})

	t.Run("worker cannot decide", func(t *testing.T) {
		a := apply(t, worker)
		_, err := e.AcceptApplication(ctx, worker, a.ID)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})

	t.Run("only the applicant withdraws", func(t *testing.T) {
		a := apply(t, worker)
		_, err := e.WithdrawApplication(ctx, worker2, a.ID)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))

		withdrawn, err := e.WithdrawApplication(ctx, worker, a.ID)
		require.NoError(t, err)
		assert.Equal(t, application.StatusWithdrawn, withdrawn.Status)
	})

	t.Run("decided applications are terminal", func(t *testing.T) {
		a := apply(t, worker)
		_, err := e.RejectApplication(ctx, client, a.ID)
		require.NoError(t, err)

		_, err = e.AcceptApplication(ctx, client, a.ID)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))

		_, err = e.WithdrawApplication(ctx, worker, a.ID)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))
	})
}

// reviewedJob sets up a posting with an accepted application so both
// sides are participants.
func reviewedJob(t *testing.T, e *workflow.Engine, w user.User) job.Posting {
	t.Helper()
	ctx := context.Background()
	p := postJob(t, e, workflow.JobInput{Title: "Reviewed role " + w.ID, Description: "d"})
	a, err := e.CreateApplication(ctx, w, workflow.ApplicationInput{JobID: p.ID})
	require.NoError(t, err)
	_, err = e.AcceptApplication(ctx, client, a.ID)
	require.NoError(t, err)
	return p
}

func TestCreateReview(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	p := reviewedJob(t, e, worker)

	t.Run("both directions allowed once", func(t *testing.T) {
		_, err := e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker.ID, Rating: 5})
		require.NoError(t, err)
		_, err = e.CreateReview(ctx, worker, workflow.ReviewInput{JobID: p.ID, RevieweeID: client.ID, Rating: 4})
		require.NoError(t, err)

		_, err = e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker.ID, Rating: 3})
		assert.Equal(t, workflow.ReasonDuplicateReview, workflow.ReasonOf(err))
	})

	t.Run("self review blocked regardless of job state", func(t *testing.T) {
		_, err := e.CreateReview(ctx, client, workflow.ReviewInput{JobID: "missing", RevieweeID: client.ID, Rating: 5})
		assert.Equal(t, workflow.ReasonSelfReview, workflow.ReasonOf(err))
	})

	t.Run("rating bounds", func(t *testing.T) {
		_, err := e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker.ID, Rating: 0})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
		_, err = e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker.ID, Rating: 6})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})

	t.Run("outsiders cannot review", func(t *testing.T) {
		_, err := e.CreateReview(ctx, worker2, workflow.ReviewInput{JobID: p.ID, RevieweeID: client.ID, Rating: 5})
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})

	t.Run("reviewee must be a participant", func(t *testing.T) {
		_, err := e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker2.ID, Rating: 5})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})
}

func TestReviewMutations(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	p := reviewedJob(t, e, worker)

	r, err := e.CreateReview(ctx, client, workflow.ReviewInput{JobID: p.ID, RevieweeID: worker.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)

	_, err = e.UpdateReview(ctx, worker, r.ID, 1, "sabotage")
	assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))

	updated, err := e.UpdateReview(ctx, client, r.ID, 4, "good")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(e.DeleteReview(ctx, worker, r.ID)))
	require.NoError(t, e.DeleteReview(ctx, client, r.ID))

	sum, err := e.AggregateReviews(ctx, worker.ID, review.Filter{})
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	assert.Nil(t, sum.AverageRating)
}

func TestAggregateReviews(t *testing.T) {
	e, st := newTestEngine(t)
	ctx := context.Background()
	p := reviewedJob(t, e, worker)

	// Seed the triple-keyed store directly to get several reviewers.
	for i, rating := range []int{5, 5, 4, 3} {
		reviewer := user.User{ID: "rev-" + string(rune('a'+i)), Role: user.RoleWorker}
		_, err := st.CreateReview(ctx, review.Review{
			ReviewerID: reviewer.ID,
			RevieweeID: worker.ID,
			JobID:      p.ID,
			Rating:     rating,
		})
		require.NoError(t, err)
	}

	sum, err := e.AggregateReviews(ctx, worker.ID, review.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Count)
	require.NotNil(t, sum.AverageRating)
	assert.Equal(t, 4.25, *sum.AverageRating)
	assert.Equal(t, map[int]int{5: 2, 4: 1, 3: 1}, sum.Histogram)
	_, ok := sum.Histogram[1]
	assert.False(t, ok, "zero buckets are omitted")
}

func TestCreatePayment(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	t.Run("defaults and reference generation", func(t *testing.T) {
		tx, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 5000})
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, tx.Status)
		assert.Equal(t, "USD", tx.Currency)
		assert.NotEmpty(t, tx.ReferenceID)
	})

	t.Run("references are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			tx, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 100})
			require.NoError(t, err)
			assert.False(t, seen[tx.ReferenceID])
			seen[tx.ReferenceID] = true
		}
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 0})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))
	})

	t.Run("currency must be supported", func(t *testing.T) {
		_, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 100, Currency: "XXX"})
		assert.Equal(t, workflow.KindValidation, workflow.KindOf(err))

		_, err = e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 100, Currency: "KES"})
		require.NoError(t, err)
	})

	t.Run("receiver must exist", func(t *testing.T) {
		_, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: "ghost", Amount: 100})
		assert.Equal(t, workflow.KindNotFound, workflow.KindOf(err))
	})
}

func TestTransitionPayment(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	open := func(t *testing.T) payment.Transaction {
		tx, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 100})
		require.NoError(t, err)
		return tx
	}

	t.Run("happy path to completed", func(t *testing.T) {
		tx := open(t)
		tx2, err := e.TransitionPayment(ctx, worker, tx.ID, payment.StatusProcessing)
		require.NoError(t, err)
		tx3, err := e.TransitionPayment(ctx, client, tx2.ID, payment.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, tx3.Status)

		_, err = e.TransitionPayment(ctx, client, tx3.ID, payment.StatusFailed)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))
	})

	t.Run("pending cannot complete directly", func(t *testing.T) {
		tx := open(t)
		_, err := e.TransitionPayment(ctx, client, tx.ID, payment.StatusCompleted)
		assert.Equal(t, workflow.KindIllegalTransition, workflow.KindOf(err))
	})

	t.Run("only the sender cancels", func(t *testing.T) {
		tx := open(t)
		_, err := e.TransitionPayment(ctx, worker, tx.ID, payment.StatusCancelled)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))

		cancelled, err := e.TransitionPayment(ctx, client, tx.ID, payment.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusCancelled, cancelled.Status)
	})

	t.Run("outsiders see nothing", func(t *testing.T) {
		tx := open(t)
		_, err := e.TransitionPayment(ctx, worker2, tx.ID, payment.StatusProcessing)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
		_, err = e.GetPayment(ctx, worker2, tx.ID)
		assert.Equal(t, workflow.KindUnauthorized, workflow.KindOf(err))
	})
}

func TestListPaymentsFor(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker.ID, Amount: 100})
	require.NoError(t, err)
	_, err = e.CreatePayment(ctx, client, workflow.PaymentInput{ReceiverID: worker2.ID, Amount: 200})
	require.NoError(t, err)

	mine, err := e.ListPaymentsFor(ctx, worker, payment.Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, worker.ID, mine[0].ReceiverID)

	all, err := e.ListPaymentsFor(ctx, client, payment.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
