// Package memory is a thread-safe in-memory implementation of the store
// contract. It backs the test suite and keeps the semantics the engine
// depends on: conditional inserts on uniqueness keys, versioned
// compare-and-set updates, and all-or-nothing Atomic units.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

type state struct {
	users        map[string]user.User
	usersByEmail map[string]string

	jobs map[string]job.Posting

	apps      map[string]application.Application
	appByPair map[string]string // workerID|jobID -> application id

	reviews        map[string]review.Review
	reviewByTriple map[string]string // reviewerID|revieweeID|jobID -> review id

	payments map[string]payment.Transaction
	payByRef map[string]string // reference id -> transaction id
}

func newState() *state {
	return &state{
		users:          make(map[string]user.User),
		usersByEmail:   make(map[string]string),
		jobs:           make(map[string]job.Posting),
		apps:           make(map[string]application.Application),
		appByPair:      make(map[string]string),
		reviews:        make(map[string]review.Review),
		reviewByTriple: make(map[string]string),
		payments:       make(map[string]payment.Transaction),
		payByRef:       make(map[string]string),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.usersByEmail {
		c.usersByEmail[k] = v
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}
	for k, v := range s.apps {
		c.apps[k] = v
	}
	for k, v := range s.appByPair {
		c.appByPair[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	for k, v := range s.reviewByTriple {
		c.reviewByTriple[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.payByRef {
		c.payByRef[k] = v
	}
	return c
}

// Memory implements store.Store over process memory.
type Memory struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty in-memory store.
func New() *Memory {
	return &Memory{st: newState()}
}

func pairKey(workerID, jobID string) string { return workerID + "|" + jobID }

func tripleKey(reviewerID, revieweeID, jobID string) string {
	return reviewerID + "|" + revieweeID + "|" + jobID
}

// Atomic runs fn against a copy of the current state and swaps it in only
// when fn succeeds. Concurrent writers are excluded for the duration of
// the unit.
func (m *Memory) Atomic(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &Memory{st: m.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.st = tx.st
	return nil
}

// User operations -------------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.st.usersByEmail[u.Email]; taken {
		return user.User{}, store.ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.st.users[u.ID] = u
	m.st.usersByEmail[u.Email] = u.ID
	return u, nil
}

func (m *Memory) GetUser(_ context.Context, id string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.st.users[id]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	return u, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.st.usersByEmail[email]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	return m.st.users[id], nil
}

func (m *Memory) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.st.users[u.ID]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	cur.Username = u.Username
	cur.PasswordHash = u.PasswordHash
	cur.PhoneNumber = u.PhoneNumber
	cur.Country = u.Country
	cur.City = u.City
	m.st.users[cur.ID] = cur
	return cur, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]user.User, 0, len(m.st.users))
	for _, u := range m.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Job operations --------------------------------------------------------

func (m *Memory) CreateJob(_ context.Context, p job.Posting) (job.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	} else if _, exists := m.st.jobs[p.ID]; exists {
		return job.Posting{}, store.ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1
	m.st.jobs[p.ID] = p
	return p, nil
}

func (m *Memory) GetJob(_ context.Context, id string) (job.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.st.jobs[id]
	if !ok {
		return job.Posting{}, store.ErrNotFound
	}
	return p, nil
}

func (m *Memory) UpdateJob(_ context.Context, p job.Posting, expectedVersion int64) (job.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.st.jobs[p.ID]
	if !ok {
		return job.Posting{}, store.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return job.Posting{}, store.ErrVersionConflict
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.Version = expectedVersion + 1
	m.st.jobs[p.ID] = p
	return p, nil
}

func (m *Memory) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.st.jobs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.st.jobs, id)
	// Cascade, matching the relational schema.
	for aid, a := range m.st.apps {
		if a.JobID == id {
			delete(m.st.apps, aid)
			delete(m.st.appByPair, pairKey(a.WorkerID, a.JobID))
		}
	}
	for rid, r := range m.st.reviews {
		if r.JobID == id {
			delete(m.st.reviews, rid)
			delete(m.st.reviewByTriple, tripleKey(r.ReviewerID, r.RevieweeID, r.JobID))
		}
	}
	return nil
}

func (m *Memory) ListJobs(_ context.Context, f job.Filter) ([]job.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]job.Posting, 0)
	for _, p := range m.st.jobs {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Application operations -------------------------------------------------

func (m *Memory) CreateApplication(_ context.Context, a application.Application) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey(a.WorkerID, a.JobID)
	if _, taken := m.st.appByPair[key]; taken {
		return application.Application{}, store.ErrDuplicate
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.AppliedAt = time.Now().UTC()
	a.Version = 1
	m.st.apps[a.ID] = a
	m.st.appByPair[key] = a.ID
	return a, nil
}

func (m *Memory) GetApplication(_ context.Context, id string) (application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.st.apps[id]
	if !ok {
		return application.Application{}, store.ErrNotFound
	}
	return a, nil
}

func (m *Memory) UpdateApplication(_ context.Context, a application.Application, expectedVersion int64) (application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.st.apps[a.ID]
	if !ok {
		return application.Application{}, store.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return application.Application{}, store.ErrVersionConflict
	}
	a.AppliedAt = stored.AppliedAt
	a.Version = expectedVersion + 1
	m.st.apps[a.ID] = a
	return a, nil
}

func (m *Memory) DeleteApplication(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.st.apps[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.st.apps, id)
	delete(m.st.appByPair, pairKey(a.WorkerID, a.JobID))
	return nil
}

func (m *Memory) ListApplications(_ context.Context, f application.Filter) ([]application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]application.Application, 0)
	for _, a := range m.st.apps {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

// Review operations ------------------------------------------------------

func (m *Memory) CreateReview(_ context.Context, r review.Review) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := tripleKey(r.ReviewerID, r.RevieweeID, r.JobID)
	if _, taken := m.st.reviewByTriple[key]; taken {
		return review.Review{}, store.ErrDuplicate
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now().UTC()
	m.st.reviews[r.ID] = r
	m.st.reviewByTriple[key] = r.ID
	return r, nil
}

func (m *Memory) GetReview(_ context.Context, id string) (review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.st.reviews[id]
	if !ok {
		return review.Review{}, store.ErrNotFound
	}
	return r, nil
}

func (m *Memory) UpdateReview(_ context.Context, r review.Review) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.st.reviews[r.ID]
	if !ok {
		return review.Review{}, store.ErrNotFound
	}
	r.ReviewerID = stored.ReviewerID
	r.RevieweeID = stored.RevieweeID
	r.JobID = stored.JobID
	r.CreatedAt = stored.CreatedAt
	m.st.reviews[r.ID] = r
	return r, nil
}

func (m *Memory) DeleteReview(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.st.reviews[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(m.st.reviews, id)
	delete(m.st.reviewByTriple, tripleKey(r.ReviewerID, r.RevieweeID, r.JobID))
	return nil
}

func (m *Memory) ListReviews(_ context.Context, f review.Filter) ([]review.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]review.Review, 0)
	for _, r := range m.st.reviews {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Payment operations -----------------------------------------------------

func (m *Memory) CreatePayment(_ context.Context, tx payment.Transaction) (payment.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.st.payByRef[tx.ReferenceID]; taken {
		return payment.Transaction{}, store.ErrDuplicate
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	tx.Version = 1
	m.st.payments[tx.ID] = tx
	m.st.payByRef[tx.ReferenceID] = tx.ID
	return tx, nil
}

func (m *Memory) GetPayment(_ context.Context, id string) (payment.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.st.payments[id]
	if !ok {
		return payment.Transaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (m *Memory) UpdatePayment(_ context.Context, tx payment.Transaction, expectedVersion int64) (payment.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.st.payments[tx.ID]
	if !ok {
		return payment.Transaction{}, store.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return payment.Transaction{}, store.ErrVersionConflict
	}
	// Reference id and parties are immutable after creation.
	tx.ReferenceID = stored.ReferenceID
	tx.SenderID = stored.SenderID
	tx.ReceiverID = stored.ReceiverID
	tx.CreatedAt = stored.CreatedAt
	tx.UpdatedAt = time.Now().UTC()
	tx.Version = expectedVersion + 1
	m.st.payments[tx.ID] = tx
	return tx, nil
}

func (m *Memory) ListPayments(_ context.Context, f payment.Filter) ([]payment.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]payment.Transaction, 0)
	for _, tx := range m.st.payments {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

var _ store.Store = (*Memory)(nil)
