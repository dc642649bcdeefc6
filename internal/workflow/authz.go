package workflow

import (
	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
)

// The authorization gate. Pure predicates over immutable snapshots; they
// decide, they never abort. Callers translate false into an Unauthorized
// error.

// CanCreateJobPosting: only clients post jobs.
func CanCreateJobPosting(actor user.User) bool {
	return actor.Role == user.RoleClient
}

// CanCreateApplication: only workers apply.
func CanCreateApplication(actor user.User) bool {
	return actor.Role == user.RoleWorker
}

// CanMutateJobPosting: only the owner edits, transitions or deletes a
// posting.
func CanMutateJobPosting(actor user.User, p job.Posting) bool {
	return actor.ID == p.PostedBy
}

// CanDecideApplication: accept and reject belong to the job owner.
func CanDecideApplication(actor user.User, p job.Posting) bool {
	return actor.ID == p.PostedBy
}

// CanWithdrawApplication: withdraw belongs to the applicant.
func CanWithdrawApplication(actor user.User, a application.Application) bool {
	return actor.ID == a.WorkerID
}

// CanCreateReview: job participants only. The "has applied" fact is
// supplied by the caller so the predicate stays store-free.
func CanCreateReview(actor user.User, p job.Posting, hasApplied bool) bool {
	return actor.ID == p.PostedBy || hasApplied
}

// CanMutateReview: only the reviewer edits or deletes their review.
func CanMutateReview(actor user.User, r review.Review) bool {
	return actor.ID == r.ReviewerID
}

// CanViewApplication: the applicant and the job owner may read an
// application.
func CanViewApplication(actor user.User, a application.Application, p job.Posting) bool {
	return actor.ID == a.WorkerID || actor.ID == p.PostedBy
}

// CanViewPayment: only the two parties of a transaction may read it.
func CanViewPayment(actor user.User, senderID, receiverID string) bool {
	return actor.ID == senderID || actor.ID == receiverID
}
