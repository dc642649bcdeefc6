// Package workflow is the marketplace workflow engine: authorization
// gates, per-entity lifecycle state machines, integrity rules, and the
// read-side review aggregator. It is stateless between calls; all state
// lives behind the store contract.
package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// casRetries bounds the re-read/re-check/re-apply loop after a lost
// version race before VersionConflict is surfaced.
const casRetries = 3

// CacheInvalidator is notified after mutations that affect published
// reads. Best effort only; never required for correctness.
type CacheInvalidator interface {
	InvalidateJob(ctx context.Context, jobID string)
	InvalidateJobLists(ctx context.Context)
	InvalidateReviews(ctx context.Context, revieweeID string)
}

// ContactValidator is the pluggable country-aware validation contract.
// Implementations treat an unknown country as "no constraint".
type ContactValidator interface {
	ValidatePhone(number, country string) error
	ValidateCurrency(code string) error
}

// Notifier receives fire-and-forget workflow events.
type Notifier interface {
	WelcomeUser(u user.User)
	ApplicationReceived(a application.Application, p job.Posting, ownerEmail string)
	ApplicationDecided(a application.Application, p job.Posting, workerEmail string)
}

// Engine executes marketplace operations against a store.
type Engine struct {
	store    store.Store
	cache    CacheInvalidator
	notify   Notifier
	contacts ContactValidator
	log      zerolog.Logger
}

// New builds an engine. cache, notify and contacts may be nil; the
// corresponding hooks become no-ops.
func New(s store.Store, cache CacheInvalidator, notify Notifier, contacts ContactValidator, log zerolog.Logger) *Engine {
	return &Engine{store: s, cache: cache, notify: notify, contacts: contacts, log: log}
}

// WithStore returns a copy of the engine bound to a different store. The
// batch executor uses it to run sub-operations inside one atomic unit.
func (e *Engine) WithStore(s store.Store) *Engine {
	clone := *e
	clone.store = s
	return &clone
}

// Store exposes the engine's bound store for read-side collaborators.
func (e *Engine) Store() store.Store { return e.store }

func (e *Engine) invalidateJob(ctx context.Context, jobID string) {
	if e.cache == nil {
		return
	}
	e.cache.InvalidateJob(ctx, jobID)
	e.cache.InvalidateJobLists(ctx)
}

func (e *Engine) invalidateReviews(ctx context.Context, revieweeID string) {
	if e.cache == nil {
		return
	}
	e.cache.InvalidateReviews(ctx, revieweeID)
}

// ownerEmail is a best-effort lookup for notification payloads.
func (e *Engine) userEmail(ctx context.Context, id string) string {
	u, err := e.store.GetUser(ctx, id)
	if err != nil {
		return ""
	}
	return u.Email
}
