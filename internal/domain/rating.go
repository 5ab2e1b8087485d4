package domain

import "time"

// Review is a single rating left on a movie. Reviews are create-only.
type Review struct {
	ID        int64
	MovieID   int64
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// RatingAggregate provides average and count for a movie's reviews.
// Average is nil when Count is zero.
type RatingAggregate struct {
	Average *float64
	Count   int
}

// Ratings returns the rating values of the given reviews in order.
func Ratings(reviews []Review) []int {
	values := make([]int, len(reviews))
	for i, r := range reviews {
		values[i] = r.Rating
	}
	return values
}
