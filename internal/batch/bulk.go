package batch

import (
	"context"

	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/workflow"
)

// BulkCreatedJob describes one successfully created posting in a bulk
// upload.
type BulkCreatedJob struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// BulkJobError describes one failed item in a bulk upload.
type BulkJobError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BulkSummary totals a bulk upload.
type BulkSummary struct {
	TotalSubmitted int `json:"total_submitted"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

// BulkResult is the per-item outcome of a bulk upload.
type BulkResult struct {
	CreatedJobs []BulkCreatedJob `json:"created_jobs"`
	Errors      []BulkJobError   `json:"errors"`
	Summary     BulkSummary      `json:"summary"`
}

// BulkCreateJobs uploads up to MaxBulkJobs postings for the acting
// client.
//
// Unlike the generic batch's sequential mode, bulk upload is NOT
// transactional: postings created before a failure persist, and when
// continueOnError is false processing merely stops at the first failing
// item without rolling anything back. The two endpoints have different
// contracts and the asymmetry is intentional; do not "fix" this to match
// generic-batch semantics.
func (x *Executor) BulkCreateJobs(ctx context.Context, actor user.User, jobs []workflow.JobInput, continueOnError bool) (BulkResult, error) {
	if len(jobs) > MaxBulkJobs {
		return BulkResult{}, workflow.TooManyOperations("a bulk upload may contain at most %d jobs", MaxBulkJobs)
	}

	res := BulkResult{
		CreatedJobs: make([]BulkCreatedJob, 0, len(jobs)),
		Errors:      make([]BulkJobError, 0),
	}
	for i, in := range jobs {
		p, err := x.engine.CreateJobPosting(ctx, actor, in)
		if err != nil {
			res.Errors = append(res.Errors, BulkJobError{
				Index: i,
				Error: err.Error(),
				Code:  workflow.ReasonOf(err),
			})
			if !continueOnError {
				break
			}
			continue
		}
		res.CreatedJobs = append(res.CreatedJobs, BulkCreatedJob{
			Index:  i,
			ID:     p.ID,
			Title:  p.Title,
			Status: "created",
		})
	}

	res.Summary = BulkSummary{
		TotalSubmitted: len(jobs),
		Successful:     len(res.CreatedJobs),
		Failed:         len(res.Errors),
	}
	return res, nil
}
