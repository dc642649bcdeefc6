package batch_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jualabs/juajobs/internal/batch"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store/memory"
	"github.com/jualabs/juajobs/internal/validation"
	"github.com/jualabs/juajobs/internal/workflow"
)

var (
	client = user.User{ID: "client-1", Email: "client@example.com", Role: user.RoleClient}
	worker = user.User{ID: "worker-1", Email: "worker@example.com", Role: user.RoleWorker}
)

func newExecutor(t *testing.T) (*batch.Executor, *workflow.Engine, *memory.Memory) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	for _, u := range []user.User{client, worker} {
		_, err := st.CreateUser(ctx, u)
		require.NoError(t, err)
	}
	engine := workflow.New(st, nil, nil, validation.New(), zerolog.Nop())
	return batch.NewExecutor(engine, st, zerolog.Nop()), engine, st
}

func jobOp(id, title string) batch.Operation {
	data, _ := json.Marshal(map[string]any{"title": title, "description": "d"})
	return batch.Operation{ID: id, Method: "POST", Path: "/jobs", Data: data}
}

func TestRunIndependent(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	ops := []batch.Operation{
		jobOp("op-1", "First"),
		{ID: "op-2", Method: "POST", Path: "/jobs", Data: json.RawMessage(`{"description":"no title"}`)},
		jobOp("op-3", "Third"),
	}
	results, err := x.Run(ctx, client, ops, false)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, http.StatusCreated, results[0].Status)
	assert.Equal(t, http.StatusBadRequest, results[1].Status)
	assert.Equal(t, http.StatusCreated, results[2].Status)
	assert.Equal(t, "op-2", results[1].ID)

	// The failure is isolated: both valid postings persisted.
	jobs, err := st.ListJobs(ctx, job.Filter{PostedBy: client.ID})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestRunSequentialRollsBack(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	ops := []batch.Operation{
		jobOp("op-1", "First"),
		{ID: "op-2", Method: "POST", Path: "/jobs", Data: json.RawMessage(`{"description":"no title"}`)},
		jobOp("op-3", "Never runs"),
	}
	results, err := x.Run(ctx, client, ops, true)
	require.NoError(t, err)

	// Execution stops at the failing operation; its result is included.
	require.Len(t, results, 2)
	assert.Equal(t, http.StatusCreated, results[0].Status)
	assert.Equal(t, http.StatusBadRequest, results[1].Status)

	// Nothing persisted, not even the successful first operation.
	jobs, err := st.ListJobs(ctx, job.Filter{PostedBy: client.ID})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRunSequentialCommits(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	results, err := x.Run(ctx, client, []batch.Operation{
		jobOp("op-1", "First"),
		jobOp("op-2", "Second"),
	}, true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, http.StatusCreated, r.Status)
	}

	jobs, err := st.ListJobs(ctx, job.Filter{PostedBy: client.ID})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestRunRejectsOversizedBatch(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	ops := make([]batch.Operation, batch.MaxOperations+1)
	for i := range ops {
		ops[i] = jobOp(fmt.Sprintf("op-%d", i), fmt.Sprintf("Job %d", i))
	}
	_, err := x.Run(ctx, client, ops, false)
	assert.Equal(t, workflow.KindTooManyOperations, workflow.KindOf(err))

	// Rejected outright: nothing executed.
	jobs, err := st.ListJobs(ctx, job.Filter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRunMixedOperations(t *testing.T) {
	x, engine, _ := newExecutor(t)
	ctx := context.Background()

	p, err := engine.CreateJobPosting(ctx, client, workflow.JobInput{Title: "Role", Description: "d"})
	require.NoError(t, err)

	appData, _ := json.Marshal(map[string]any{"job_id": p.ID})
	results, err := x.Run(ctx, worker, []batch.Operation{
		{ID: "list", Method: "GET", Path: "/jobs"},
		{ID: "get", Method: "GET", Path: "/jobs/" + p.ID},
		{ID: "apply", Method: "POST", Path: "/applications", Data: appData},
		{ID: "unknown", Method: "PUT", Path: "/frobnicate"},
	}, false)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.Equal(t, http.StatusOK, results[1].Status)
	assert.Equal(t, http.StatusCreated, results[2].Status)
	assert.Equal(t, http.StatusNotImplemented, results[3].Status)
}

func TestRunSequentialAuthzFailureAborts(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	// A worker creating jobs fails the authorization gate with 403.
	results, err := x.Run(ctx, worker, []batch.Operation{
		jobOp("op-1", "Denied"),
		jobOp("op-2", "Never runs"),
	}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, http.StatusForbidden, results[0].Status)

	jobs, err := st.ListJobs(ctx, job.Filter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestBulkCreateJobs(t *testing.T) {
	x, _, st := newExecutor(t)
	ctx := context.Background()

	jobs := []workflow.JobInput{
		{Title: "One", Description: "d"},
		{Description: "missing title"},
		{Title: "Three", Description: "d"},
	}

	t.Run("continue on error", func(t *testing.T) {
		res, err := x.BulkCreateJobs(ctx, client, jobs, true)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Summary.TotalSubmitted)
		assert.Equal(t, 2, res.Summary.Successful)
		assert.Equal(t, 1, res.Summary.Failed)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, 1, res.Errors[0].Index)

		// Non-transactional: the successes persisted.
		created, err := st.ListJobs(ctx, job.Filter{PostedBy: client.ID})
		require.NoError(t, err)
		assert.Len(t, created, 2)
	})

	t.Run("stop at first failure keeps earlier successes", func(t *testing.T) {
		x2, _, st2 := newExecutor(t)
		res, err := x2.BulkCreateJobs(ctx, client, jobs, false)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Summary.Successful)
		assert.Equal(t, 1, res.Summary.Failed)

		created, err := st2.ListJobs(ctx, job.Filter{PostedBy: client.ID})
		require.NoError(t, err)
		assert.Len(t, created, 1, "bulk upload never rolls back")
	})

	t.Run("cap enforced", func(t *testing.T) {
		big := make([]workflow.JobInput, batch.MaxBulkJobs+1)
		for i := range big {
			big[i] = workflow.JobInput{Title: "x", Description: "d"}
		}
		_, err := x.BulkCreateJobs(ctx, client, big, true)
		assert.Equal(t, workflow.KindTooManyOperations, workflow.KindOf(err))
	})
}
