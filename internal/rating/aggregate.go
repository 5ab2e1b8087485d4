// Package rating computes per-movie review aggregates and the top-rated
// ranking. Everything here is pure and works on already-fetched data.
package rating

import (
	"math"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// Aggregate reduces a set of ratings to their rounded mean and count.
// An empty set has no average.
func Aggregate(ratings []int) domain.RatingAggregate {
	if len(ratings) == 0 {
		return domain.RatingAggregate{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := RoundToTwoDecimals(float64(sum) / float64(len(ratings)))
	return domain.RatingAggregate{Average: &avg, Count: len(ratings)}
}

// RoundToTwoDecimals rounds half away from zero.
func RoundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
