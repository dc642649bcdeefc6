package application

import "time"

// Status is the lifecycle state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Application is a worker's submission against a job posting. At most one
// application exists per (worker, job) pair, whatever its status.
type Application struct {
	ID          string    `json:"id"`
	WorkerID    string    `json:"worker_id"`
	JobID       string    `json:"job_id"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Status      Status    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	Version     int64     `json:"-"`
}

// transitions: pending is the only state with exits. accepted, rejected
// and withdrawn are terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected, StatusWithdrawn},
}

// ValidStatus reports whether s names an application state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// CanTransition reports whether an application may move from one status to
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

// Filter narrows application listings.
type Filter struct {
	WorkerID string
	JobID    string
	Status   Status
}

// Match reports whether a satisfies every set field of the filter.
func (f Filter) Match(a Application) bool {
	if f.WorkerID != "" && a.WorkerID != f.WorkerID {
		return false
	}
	if f.JobID != "" && a.JobID != f.JobID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}
