package payment

import "time"

// Status is the lifecycle state of a payment transaction.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Transaction records money moving between two users, optionally tied to a
// job. ReferenceID is generated by the system exactly once at creation and
// is never caller-supplied.
type Transaction struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	JobID       string    `json:"job_id,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"-"`
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// ValidStatus reports whether s names a transaction state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a transaction may move from one status to
// another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func Terminal(s Status) bool {
	return ValidStatus(s) && len(transitions[s]) == 0
}

// Filter narrows transaction listings.
type Filter struct {
	SenderID   string
	ReceiverID string
	JobID      string
	Status     Status
	// Party matches transactions where the user is sender or receiver.
	Party string
}

// Match reports whether tx satisfies every set field of the filter.
func (f Filter) Match(tx Transaction) bool {
	if f.SenderID != "" && tx.SenderID != f.SenderID {
		return false
	}
	if f.ReceiverID != "" && tx.ReceiverID != f.ReceiverID {
		return false
	}
	if f.JobID != "" && tx.JobID != f.JobID {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if f.Party != "" && tx.SenderID != f.Party && tx.ReceiverID != f.Party {
		return false
	}
	return true
}
