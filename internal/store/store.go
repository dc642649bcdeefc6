// Package store defines the persistence contract the workflow engine runs
// against. Implementations must provide conditional inserts for the
// uniqueness keys noted below and compare-and-set updates keyed on the
// record version, so that integrity checks and transitions commit
// atomically with their writes.
package store

import (
	"context"
	"errors"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned by a conditional insert whose uniqueness
	// key is already taken.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrVersionConflict is returned by an update whose expected version
	// no longer matches the stored record.
	ErrVersionConflict = errors.New("store: version conflict")
)

// UserStore persists marketplace accounts. Email is a uniqueness key.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	// UpdateUser rewrites the mutable profile fields; email and role are
	// immutable after signup.
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

// JobStore persists job postings.
type JobStore interface {
	CreateJob(ctx context.Context, p job.Posting) (job.Posting, error)
	GetJob(ctx context.Context, id string) (job.Posting, error)
	// UpdateJob commits p only if the stored version still equals
	// expectedVersion, bumping the version on success.
	UpdateJob(ctx context.Context, p job.Posting, expectedVersion int64) (job.Posting, error)
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, f job.Filter) ([]job.Posting, error)
}

// ApplicationStore persists applications. (worker, job) is a uniqueness
// key enforced by CreateApplication as a conditional insert.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, a application.Application) (application.Application, error)
	GetApplication(ctx context.Context, id string) (application.Application, error)
	UpdateApplication(ctx context.Context, a application.Application, expectedVersion int64) (application.Application, error)
	DeleteApplication(ctx context.Context, id string) error
	ListApplications(ctx context.Context, f application.Filter) ([]application.Application, error)
}

// ReviewStore persists reviews. (reviewer, reviewee, job) is a uniqueness
// key enforced by CreateReview as a conditional insert.
type ReviewStore interface {
	CreateReview(ctx context.Context, r review.Review) (review.Review, error)
	GetReview(ctx context.Context, id string) (review.Review, error)
	UpdateReview(ctx context.Context, r review.Review) (review.Review, error)
	DeleteReview(ctx context.Context, id string) error
	ListReviews(ctx context.Context, f review.Filter) ([]review.Review, error)
}

// PaymentStore persists payment transactions. ReferenceID is a uniqueness
// key enforced by CreatePayment as a conditional insert.
type PaymentStore interface {
	CreatePayment(ctx context.Context, tx payment.Transaction) (payment.Transaction, error)
	GetPayment(ctx context.Context, id string) (payment.Transaction, error)
	UpdatePayment(ctx context.Context, tx payment.Transaction, expectedVersion int64) (payment.Transaction, error)
	ListPayments(ctx context.Context, f payment.Filter) ([]payment.Transaction, error)
}

// Store is the full persistence surface consumed by the engine.
type Store interface {
	UserStore
	JobStore
	ApplicationStore
	ReviewStore
	PaymentStore

	// Atomic runs fn against a store whose writes become visible only if
	// fn returns nil; any error rolls the whole unit back.
	Atomic(ctx context.Context, fn func(Store) error) error
}
