package job

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a posting.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusClosed Status = "closed"
	StatusFilled Status = "filled"
)

// Employment types accepted on a posting.
const (
	FullTime   = "full_time"
	PartTime   = "part_time"
	Contract   = "contract"
	Freelance  = "freelance"
	Internship = "internship"
)

// Posting is a job advertised by a client. Only the owner (PostedBy) may
// mutate it, and status moves only through CanTransition.
type Posting struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Requirements   string     `json:"requirements,omitempty"`
	SalaryMin      int64      `json:"salary_min,omitempty"`
	SalaryMax      int64      `json:"salary_max,omitempty"`
	EmploymentType string     `json:"employment_type"`
	Location       string     `json:"location,omitempty"`
	RemoteWork     bool       `json:"remote_work"`
	Status         Status     `json:"status"`
	PostedBy       string     `json:"posted_by"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int64      `json:"-"`
}

// transitions lists the owner-initiated moves out of each status.
// closed and filled have no exits.
var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusClosed},
	StatusActive: {StatusPaused, StatusClosed, StatusFilled},
	StatusPaused: {StatusActive, StatusClosed},
}

// ValidStatus reports whether s names a posting state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusClosed, StatusFilled:
		return true
	}
	return false
}

// CanTransition reports whether a posting may move from one status to
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

// ValidEmploymentType reports whether t is an accepted employment type.
func ValidEmploymentType(t string) bool {
	switch t {
	case FullTime, PartTime, Contract, Freelance, Internship:
		return true
	}
	return false
}

// Filter narrows posting listings.
type Filter struct {
	Status         Status
	EmploymentType string
	Location       string
	Remote         *bool
	SalaryAtLeast  int64
	SalaryAtMost   int64
	PostedBy       string
	Limit          int
}

// Match reports whether p satisfies every set field of the filter.
func (f Filter) Match(p Posting) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.EmploymentType != "" && p.EmploymentType != f.EmploymentType {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Remote != nil && p.RemoteWork != *f.Remote {
		return false
	}
	if f.SalaryAtLeast > 0 && p.SalaryMax > 0 && p.SalaryMax < f.SalaryAtLeast {
		return false
	}
	if f.SalaryAtMost > 0 && p.SalaryMin > 0 && p.SalaryMin > f.SalaryAtMost {
		return false
	}
	if f.PostedBy != "" && p.PostedBy != f.PostedBy {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
