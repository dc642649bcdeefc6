package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jualabs/juajobs/internal/domain/payment"
	"github.com/jualabs/juajobs/internal/domain/user"
	"github.com/jualabs/juajobs/internal/store"
)

// PaymentInput is the payload for creating a payment transaction. The
// reference id is deliberately absent: it is generated here, exactly
// once, and is immutable afterwards.
type PaymentInput struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	JobID      string `json:"job_id"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	Currency   string `json:"currency"`
}

// CreatePayment records a pending transaction from the acting user to the
// receiver.
func (e *Engine) CreatePayment(ctx context.Context, actor user.User, in PaymentInput) (payment.Transaction, error) {
	if in.Amount <= 0 {
		return payment.Transaction{}, Validation("invalid_amount", "amount must be greater than zero")
	}
	if in.ReceiverID == "" {
		return payment.Transaction{}, Validation("missing_receiver", "receiver_id is required")
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if e.contacts != nil {
		if err := e.contacts.ValidateCurrency(in.Currency); err != nil {
			return payment.Transaction{}, Validation("unsupported_currency", "%s", err.Error())
		}
	}

	if _, err := e.store.GetUser(ctx, in.ReceiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return payment.Transaction{}, NotFound("receiver_not_found", "receiver %s not found", in.ReceiverID)
		}
		return payment.Transaction{}, err
	}
	if in.JobID != "" {
		if _, err := e.GetJobPosting(ctx, in.JobID); err != nil {
			return payment.Transaction{}, err
		}
	}

	tx := payment.Transaction{
		ID:         uuid.New().String(),
		SenderID:   actor.ID,
		ReceiverID: in.ReceiverID,
		JobID:      in.JobID,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Status:     payment.StatusPending,
	}

	// Reference ids are uuids, so a collision is all but impossible; the
	// regeneration loop keeps the store's uniqueness key authoritative
	// anyway.
	for attempt := 0; attempt < casRetries; attempt++ {
		tx.ReferenceID = uuid.New().String()
		created, err := e.store.CreatePayment(ctx, tx)
		if errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return payment.Transaction{}, err
		}
		e.log.Info().Str("payment_id", created.ID).Str("reference_id", created.ReferenceID).Msg("payment created")
		return created, nil
	}
	return payment.Transaction{}, Conflict("reference_collision", "could not allocate a unique payment reference")
}

// TransitionPayment moves a transaction through its state machine.
// Cancellation belongs to the sender; the remaining legal moves may be
// driven by either party.
func (e *Engine) TransitionPayment(ctx context.Context, actor user.User, id string, next payment.Status) (payment.Transaction, error) {
	if !payment.ValidStatus(next) {
		return payment.Transaction{}, Validation("invalid_status", "unknown payment status %q", next)
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		tx, err := e.getPayment(ctx, id)
		if err != nil {
			return payment.Transaction{}, err
		}
		if !CanViewPayment(actor, tx.SenderID, tx.ReceiverID) {
			return payment.Transaction{}, Unauthorized("not_payment_party", "you are not part of this transaction")
		}
		if next == payment.StatusCancelled && actor.ID != tx.SenderID {
			return payment.Transaction{}, Unauthorized("not_sender", "only the sender can cancel a payment")
		}
		if !payment.CanTransition(tx.Status, next) {
			return payment.Transaction{}, IllegalTransition("illegal_transition", "payment cannot move from %s to %s", tx.Status, next)
		}

		tx.Status = next
		updated, err := e.store.UpdatePayment(ctx, tx, tx.Version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return payment.Transaction{}, err
		}
		e.log.Info().Str("payment_id", id).Str("status", string(next)).Msg("payment transitioned")
		return updated, nil
	}
	return payment.Transaction{}, VersionConflict("payment_contended", "payment %s is being modified concurrently", id)
}

func (e *Engine) getPayment(ctx context.Context, id string) (payment.Transaction, error) {
	tx, err := e.store.GetPayment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return payment.Transaction{}, NotFound("payment_not_found", "payment %s not found", id)
	}
	return tx, err
}

// GetPayment returns one transaction, visible to its two parties.
func (e *Engine) GetPayment(ctx context.Context, actor user.User, id string) (payment.Transaction, error) {
	tx, err := e.getPayment(ctx, id)
	if err != nil {
		return payment.Transaction{}, err
	}
	if !CanViewPayment(actor, tx.SenderID, tx.ReceiverID) {
		return payment.Transaction{}, Unauthorized("not_payment_party", "you are not part of this transaction")
	}
	return tx, nil
}

// ListPaymentsFor returns the transactions where the actor is a party.
func (e *Engine) ListPaymentsFor(ctx context.Context, actor user.User, f payment.Filter) ([]payment.Transaction, error) {
	f.Party = actor.ID
	return e.store.ListPayments(ctx, f)
}
