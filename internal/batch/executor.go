// Package batch executes bounded groups of workflow operations per
// external call: the generic batch endpoint (independent or
// sequential-transactional) and the bulk job upload, which is
// deliberately non-transactional.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
	"github.com/jualabs/juajobs/internal/workflow"
)

// Size caps. A request above the cap is rejected outright; nothing runs.
const (
	MaxOperations = 10
	MaxBulkJobs   = 50
)

// Operation is one sub-operation of a batch request. ID is the
// caller-supplied correlation token echoed back on its result.
type Operation struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Data   json.RawMessage `json:"data"`
}

// Result is the structured outcome of one sub-operation.
type Result struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Body   any    `json:"body"`
}

// Executor runs batches against the workflow engine.
type Executor struct {
	engine *workflow.Engine
	store  store.Store
	log    zerolog.Logger
}

// NewExecutor builds an executor over the engine and its backing store.
func NewExecutor(engine *workflow.Engine, st store.Store, log zerolog.Logger) *Executor {
	return &Executor{engine: engine, store: st, log: log}
}

// errBatchAborted forces the atomic unit to roll back after a failed
// sub-operation in sequential mode.
var errBatchAborted = errors.New("batch: aborted on sub-operation failure")

// Run executes the operations. Independent mode runs every operation and
// isolates failures; sequential mode runs them in order inside one atomic
// unit and rolls the whole unit back on the first result with status
// >= 400 (no later operation runs). Results always preserve input order.
func (x *Executor) Run(ctx context.Context, actor user.User, ops []Operation, sequential bool) ([]Result, error) {
	if len(ops) > MaxOperations {
		return nil, workflow.TooManyOperations("a batch may contain at most %d operations", MaxOperations)
	}

	if sequential {
		return x.runSequential(ctx, actor, ops)
	}

	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		results = append(results, x.execute(ctx, x.engine, actor, op))
	}
	return results, nil
}

func (x *Executor) runSequential(ctx context.Context, actor user.User, ops []Operation) ([]Result, error) {
	results := make([]Result, 0, len(ops))
	err := x.store.Atomic(ctx, func(txStore store.Store) error {
		eng := x.engine.WithStore(txStore)
		for _, op := range ops {
			res := x.execute(ctx, eng, actor, op)
			results = append(results, res)
			if res.Status >= http.StatusBadRequest {
				return errBatchAborted
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errBatchAborted) {
		return nil, err
	}
	return results, nil
}

// execute runs one sub-operation, recovering internal faults into a 500
// entry so a single bad operation never takes down the batch.
func (x *Executor) execute(ctx context.Context, eng *workflow.Engine, actor user.User, op Operation) (res Result) {
	res.ID = op.ID
	defer func() {
		if r := recover(); r != nil {
			x.log.Error().Interface("panic", r).Str("path", op.Path).Msg("batch sub-operation panicked")
			res.Status = http.StatusInternalServerError
			res.Body = map[string]any{"error": "internal error", "code": "internal"}
		}
	}()

	status, body, err := x.dispatch(ctx, eng, actor, op)
	if err != nil {
		res.Status = workflow.HTTPStatus(err)
		msg, code := err.Error(), workflow.ReasonOf(err)
		if workflow.KindOf(err) == 0 {
			x.log.Error().Err(err).Str("path", op.Path).Msg("batch sub-operation failed")
			msg, code = "internal error", "internal"
		}
		res.Body = map[string]any{"error": msg, "code": code}
		return res
	}
	res.Status = status
	res.Body = body
	return res
}

// dispatch routes a sub-operation to the engine. Unknown operations
// report 501 rather than failing the batch.
func (x *Executor) dispatch(ctx context.Context, eng *workflow.Engine, actor user.User, op Operation) (int, any, error) {
	method := strings.ToUpper(op.Method)
	if method == "" {
		method = http.MethodGet
	}
	seg := strings.Split(strings.Trim(op.Path, "/"), "/")

	switch {
	case method == http.MethodGet && len(seg) == 1 && seg[0] == "jobs":
		jobs, err := eng.ListJobPostings(ctx, job.Filter{Status: job.StatusActive, Limit: 5})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, jobs, nil

	case method == http.MethodGet && len(seg) == 2 && seg[0] == "jobs":
		p, err := eng.GetJobPosting(ctx, seg[1])
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, p, nil

	case method == http.MethodPost && len(seg) == 1 && seg[0] == "jobs":
		var in workflow.JobInput
		if err := decode(op.Data, &in); err != nil {
			return 0, nil, err
		}
		p, err := eng.CreateJobPosting(ctx, actor, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, p, nil

	case method == http.MethodPost && len(seg) == 3 && seg[0] == "jobs" && seg[2] == "status":
		var in struct {
			Status job.Status `json:"status"`
		}
		if err := decode(op.Data, &in); err != nil {
			return 0, nil, err
		}
		p, err := eng.TransitionJobPosting(ctx, actor, seg[1], in.Status)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, p, nil

	case method == http.MethodDelete && len(seg) == 2 && seg[0] == "jobs":
		if err := eng.DeleteJobPosting(ctx, actor, seg[1]); err != nil {
			return 0, nil, err
		}
		return http.StatusOK, map[string]any{"deleted": seg[1]}, nil

	case method == http.MethodPost && len(seg) == 1 && seg[0] == "applications":
		var in workflow.ApplicationInput
		if err := decode(op.Data, &in); err != nil {
			return 0, nil, err
		}
		a, err := eng.CreateApplication(ctx, actor, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, a, nil

	case method == http.MethodPost && len(seg) == 3 && seg[0] == "applications":
		var (
			a   any
			err error
		)
		switch seg[2] {
		case "accept":
			a, err = eng.AcceptApplication(ctx, actor, seg[1])
		case "reject":
			a, err = eng.RejectApplication(ctx, actor, seg[1])
		case "withdraw":
			a, err = eng.WithdrawApplication(ctx, actor, seg[1])
		default:
			return http.StatusNotImplemented, map[string]any{"error": "operation not implemented"}, nil
		}
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, a, nil

	case method == http.MethodPost && len(seg) == 1 && seg[0] == "reviews":
		var in workflow.ReviewInput
		if err := decode(op.Data, &in); err != nil {
			return 0, nil, err
		}
		r, err := eng.CreateReview(ctx, actor, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, r, nil

	case method == http.MethodGet && len(seg) == 3 && seg[0] == "users" && seg[2] == "reviews":
		sum, err := eng.AggregateReviews(ctx, seg[1], review.Filter{})
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, sum, nil

	case method == http.MethodPost && len(seg) == 1 && seg[0] == "payments":
		var in workflow.PaymentInput
		if err := decode(op.Data, &in); err != nil {
			return 0, nil, err
		}
		tx, err := eng.CreatePayment(ctx, actor, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusCreated, tx, nil

	default:
		return http.StatusNotImplemented, map[string]any{"error": "operation not implemented"}, nil
	}
}

func decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return workflow.Validation("missing_payload", "operation data is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return workflow.Validation("invalid_payload", "operation data is malformed: %v", err)
	}
	return nil
}
