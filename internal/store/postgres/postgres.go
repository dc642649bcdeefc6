// Package postgres implements the store contract on PostgreSQL with pgx.
// Uniqueness keys map to unique constraints (23505 becomes ErrDuplicate)
// and versioned updates run as a single conditional UPDATE so the
// compare-and-set never races.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jualabs/juajobs/internal/domain/application"
	"github.com/jualabs/juajobs/internal/domain/job"
	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/domain/review"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store runs the persistence contract against Postgres.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// New wraps a connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

var _ store.Store = (*Store)(nil)

// Atomic runs fn inside a transaction; nested calls open a savepoint.
func (s *Store) Atomic(ctx context.Context, fn func(store.Store) error) error {
	var (
		tx  pgx.Tx
		err error
	)
	if outer, ok := s.q.(pgx.Tx); ok {
		tx, err = outer.Begin(ctx)
	} else {
		tx, err = s.pool.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{pool: s.pool, q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrDuplicate
	}
	return err
}

// --- users ---

const userCols = "id, email, username, password_hash, role, phone_number, country, city, created_at"

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.PhoneNumber, &u.Country, &u.City, &u.CreatedAt)
	return u, mapErr(err)
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return scanUser(s.q.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, phone_number, country, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING `+userCols,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.PhoneNumber, u.Country, u.City))
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return scanUser(s.q.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(s.q.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	return scanUser(s.q.QueryRow(ctx, `
		UPDATE users
		SET username = $1, password_hash = $2, phone_number = $3, country = $4, city = $5
		WHERE id = $6
		RETURNING `+userCols,
		u.Username, u.PasswordHash, u.PhoneNumber, u.Country, u.City, u.ID))
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.q.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- job postings ---

const jobCols = "id, title, description, requirements, salary_min, salary_max, employment_type, location, remote_work, status, posted_by, deadline, created_at, updated_at, version"

func scanJob(row pgx.Row) (job.Posting, error) {
	var p job.Posting
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Requirements,
		&p.SalaryMin, &p.SalaryMax, &p.EmploymentType, &p.Location, &p.RemoteWork,
		&p.Status, &p.PostedBy, &p.Deadline, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	return p, mapErr(err)
}

func (s *Store) CreateJob(ctx context.Context, p job.Posting) (job.Posting, error) {
	return scanJob(s.q.QueryRow(ctx, `
		INSERT INTO job_postings (id, title, description, requirements, salary_min, salary_max,
			employment_type, location, remote_work, status, posted_by, deadline,
			created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now(), 1)
		RETURNING `+jobCols,
		p.ID, p.Title, p.Description, p.Requirements, p.SalaryMin, p.SalaryMax,
		p.EmploymentType, p.Location, p.RemoteWork, p.Status, p.PostedBy, p.Deadline))
}

func (s *Store) GetJob(ctx context.Context, id string) (job.Posting, error) {
	return scanJob(s.q.QueryRow(ctx, `SELECT `+jobCols+` FROM job_postings WHERE id = $1`, id))
}

func (s *Store) UpdateJob(ctx context.Context, p job.Posting, expectedVersion int64) (job.Posting, error) {
	updated, err := scanJob(s.q.QueryRow(ctx, `
		UPDATE job_postings
		SET title = $1, description = $2, requirements = $3, salary_min = $4, salary_max = $5,
			employment_type = $6, location = $7, remote_work = $8, status = $9, deadline = $10,
			updated_at = now(), version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING `+jobCols,
		p.Title, p.Description, p.Requirements, p.SalaryMin, p.SalaryMax,
		p.EmploymentType, p.Location, p.RemoteWork, p.Status, p.Deadline,
		p.ID, expectedVersion))
	if errors.Is(err, store.ErrNotFound) {
		// Either the row is gone or someone got there first.
		if _, getErr := s.GetJob(ctx, p.ID); getErr != nil {
			return job.Posting{}, getErr
		}
		return job.Posting{}, store.ErrVersionConflict
	}
	return updated, err
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	// Applications and reviews cascade via their foreign keys.
	tag, err := s.q.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, f job.Filter) ([]job.Posting, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.EmploymentType != "" {
		where = append(where, "employment_type = "+arg(f.EmploymentType))
	}
	if f.Location != "" {
		where = append(where, "location ILIKE "+arg("%"+f.Location+"%"))
	}
	if f.Remote != nil {
		where = append(where, "remote_work = "+arg(*f.Remote))
	}
	if f.SalaryAtLeast > 0 {
		where = append(where, "(salary_max = 0 OR salary_max >= "+arg(f.SalaryAtLeast)+")")
	}
	if f.SalaryAtMost > 0 {
		where = append(where, "(salary_min = 0 OR salary_min <= "+arg(f.SalaryAtMost)+")")
	}
	if f.PostedBy != "" {
		where = append(where, "posted_by = "+arg(f.PostedBy))
	}

	q := `SELECT ` + jobCols + ` FROM job_postings`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		q += " LIMIT " + arg(f.Limit)
	}

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []job.Posting
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, p)
	}
	return jobs, rows.Err()
}

// --- applications ---

const appCols = "id, worker_id, job_id, cover_letter, status, applied_at, version"

func scanApplication(row pgx.Row) (application.Application, error) {
	var a application.Application
	err := row.Scan(&a.ID, &a.WorkerID, &a.JobID, &a.CoverLetter, &a.Status, &a.AppliedAt, &a.Version)
	return a, mapErr(err)
}

func (s *Store) CreateApplication(ctx context.Context, a application.Application) (application.Application, error) {
	return scanApplication(s.q.QueryRow(ctx, `
		INSERT INTO applications (id, worker_id, job_id, cover_letter, status, applied_at, version)
		VALUES ($1, $2, $3, $4, $5, now(), 1)
		RETURNING `+appCols,
		a.ID, a.WorkerID, a.JobID, a.CoverLetter, a.Status))
}

func (s *Store) GetApplication(ctx context.Context, id string) (application.Application, error) {
	return scanApplication(s.q.QueryRow(ctx, `SELECT `+appCols+` FROM applications WHERE id = $1`, id))
}

func (s *Store) UpdateApplication(ctx context.Context, a application.Application, expectedVersion int64) (application.Application, error) {
	updated, err := scanApplication(s.q.QueryRow(ctx, `
		UPDATE applications
		SET cover_letter = $1, status = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING `+appCols,
		a.CoverLetter, a.Status, a.ID, expectedVersion))
	if errors.Is(err, store.ErrNotFound) {
		if _, getErr := s.GetApplication(ctx, a.ID); getErr != nil {
			return application.Application{}, getErr
		}
		return application.Application{}, store.ErrVersionConflict
	}
	return updated, err
}

func (s *Store) DeleteApplication(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListApplications(ctx context.Context, f application.Filter) ([]application.Application, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.WorkerID != "" {
		where = append(where, "worker_id = "+arg(f.WorkerID))
	}
	if f.JobID != "" {
		where = append(where, "job_id = "+arg(f.JobID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}

	q := `SELECT ` + appCols + ` FROM applications`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY applied_at DESC"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// --- reviews ---

const reviewCols = "id, reviewer_id, reviewee_id, job_id, rating, comment, created_at"

func scanReview(row pgx.Row) (review.Review, error) {
	var r review.Review
	err := row.Scan(&r.ID, &r.ReviewerID, &r.RevieweeID, &r.JobID, &r.Rating, &r.Comment, &r.CreatedAt)
	return r, mapErr(err)
}

func (s *Store) CreateReview(ctx context.Context, r review.Review) (review.Review, error) {
	return scanReview(s.q.QueryRow(ctx, `
		INSERT INTO reviews (id, reviewer_id, reviewee_id, job_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING `+reviewCols,
		r.ID, r.ReviewerID, r.RevieweeID, r.JobID, r.Rating, r.Comment))
}

func (s *Store) GetReview(ctx context.Context, id string) (review.Review, error) {
	return scanReview(s.q.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id))
}

func (s *Store) UpdateReview(ctx context.Context, r review.Review) (review.Review, error) {
	return scanReview(s.q.QueryRow(ctx, `
		UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3
		RETURNING `+reviewCols,
		r.Rating, r.Comment, r.ID))
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListReviews(ctx context.Context, f review.Filter) ([]review.Review, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.ReviewerID != "" {
		where = append(where, "reviewer_id = "+arg(f.ReviewerID))
	}
	if f.RevieweeID != "" {
		where = append(where, "reviewee_id = "+arg(f.RevieweeID))
	}
	if f.JobID != "" {
		where = append(where, "job_id = "+arg(f.JobID))
	}
	if f.RatingMin > 0 {
		where = append(where, "rating >= "+arg(f.RatingMin))
	}
	if f.RatingMax > 0 {
		where = append(where, "rating <= "+arg(f.RatingMax))
	}

	q := `SELECT ` + reviewCols + ` FROM reviews`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// --- payments ---

const paymentCols = "id, reference_id, sender_id, receiver_id, COALESCE(job_id, ''), amount, currency, status, created_at, updated_at, version"

func scanPayment(row pgx.Row) (payment.Transaction, error) {
	var tx payment.Transaction
	err := row.Scan(&tx.ID, &tx.ReferenceID, &tx.SenderID, &tx.ReceiverID, &tx.JobID,
		&tx.Amount, &tx.Currency, &tx.Status, &tx.CreatedAt, &tx.UpdatedAt, &tx.Version)
	return tx, mapErr(err)
}

func (s *Store) CreatePayment(ctx context.Context, tx payment.Transaction) (payment.Transaction, error) {
	return scanPayment(s.q.QueryRow(ctx, `
		INSERT INTO payment_transactions (id, reference_id, sender_id, receiver_id, job_id,
			amount, currency, status, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, now(), now(), 1)
		RETURNING `+paymentCols,
		tx.ID, tx.ReferenceID, tx.SenderID, tx.ReceiverID, tx.JobID, tx.Amount, tx.Currency, tx.Status))
}

func (s *Store) GetPayment(ctx context.Context, id string) (payment.Transaction, error) {
	return scanPayment(s.q.QueryRow(ctx, `SELECT `+paymentCols+` FROM payment_transactions WHERE id = $1`, id))
}

func (s *Store) UpdatePayment(ctx context.Context, tx payment.Transaction, expectedVersion int64) (payment.Transaction, error) {
	updated, err := scanPayment(s.q.QueryRow(ctx, `
		UPDATE payment_transactions
		SET status = $1, updated_at = now(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING `+paymentCols,
		tx.Status, tx.ID, expectedVersion))
	if errors.Is(err, store.ErrNotFound) {
		if _, getErr := s.GetPayment(ctx, tx.ID); getErr != nil {
			return payment.Transaction{}, getErr
		}
		return payment.Transaction{}, store.ErrVersionConflict
	}
	return updated, err
}

func (s *Store) ListPayments(ctx context.Context, f payment.Filter) ([]payment.Transaction, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.SenderID != "" {
		where = append(where, "sender_id = "+arg(f.SenderID))
	}
	if f.ReceiverID != "" {
		where = append(where, "receiver_id = "+arg(f.ReceiverID))
	}
	if f.JobID != "" {
		where = append(where, "job_id = "+arg(f.JobID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Party != "" {
		p := arg(f.Party)
		where = append(where, "(sender_id = "+p+" OR receiver_id = "+p+")")
	}

	q := `SELECT ` + paymentCols + ` FROM payment_transactions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := s.q.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []payment.Transaction
	for rows.Next() {
		t, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
