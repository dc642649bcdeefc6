package workflow

import (
	"context"
	"math"

	"github.com/jualabs/juajobs/internal/domain/review"
)

// ReviewSummary is the aggregate over a reviewee's stored reviews. It is
// always recomputed from the store; no cached copy is authoritative.
type ReviewSummary struct {
	RevieweeID string `json:"reviewee_id"`
	Count      int    `json:"count"`
	// AverageRating is rounded to two decimals and nil when there are no
	// reviews.
	AverageRating *float64 `json:"average_rating"`
	// Histogram maps each rating value to its occurrence count. Ratings
	// with zero occurrences are omitted.
	Histogram map[int]int `json:"histogram,omitempty"`
}

// Summarize computes the aggregate for a set of reviews. Pure; the input
// is assumed to be pre-filtered to one reviewee.
func Summarize(revieweeID string, reviews []review.Review) ReviewSummary {
	sum := ReviewSummary{RevieweeID: revieweeID, Count: len(reviews)}
	if len(reviews) == 0 {
		return sum
	}

	hist := make(map[int]int)
	total := 0
	for _, r := range reviews {
		hist[r.Rating]++
		total += r.Rating
	}
	mean := math.Round(float64(total)/float64(len(reviews))*100) / 100
	sum.AverageRating = &mean
	sum.Histogram = hist
	return sum
}

// AggregateReviews loads the reviewee's reviews, optionally narrowed by
// job or rating bounds, and summarizes them.
func (e *Engine) AggregateReviews(ctx context.Context, revieweeID string, f review.Filter) (ReviewSummary, error) {
	f.RevieweeID = revieweeID
	reviews, err := e.store.ListReviews(ctx, f)
	if err != nil {
		return ReviewSummary{}, err
	}
	return Summarize(revieweeID, reviews), nil
}
