package review

import "time"

// Review is a rating left by one participant of a job about another.
// At most one review exists per (reviewer, reviewee, job) triple and a
// user can never review themselves.
type Review struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	JobID      string    `json:"job_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether r is within the accepted range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Filter narrows review listings.
type Filter struct {
	ReviewerID  string
	RevieweeID  string
	JobID       string
	RatingMin   int
	RatingMax   int
}

// Match reports whether rv satisfies every set field of the filter.
func (f Filter) Match(rv Review) bool {
	if f.ReviewerID != "" && rv.ReviewerID != f.ReviewerID {
		return false
	}
	if f.RevieweeID != "" && rv.RevieweeID != f.RevieweeID {
		return false
	}
	if f.JobID != "" && rv.JobID != f.JobID {
		return false
	}
	if f.RatingMin > 0 && rv.Rating < f.RatingMin {
		return false
	}
	if f.RatingMax > 0 && rv.Rating > f.RatingMax {
		return false
	}
	return true
}
