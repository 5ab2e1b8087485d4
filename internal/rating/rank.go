package rating

import (
	"sort"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

const (
	DefaultLimit      = 10
	DefaultMinReviews = 0
)

// RankOptions bounds the top-rated listing.
type RankOptions struct {
	Limit      int
	MinReviews int
}

// Normalize applies the defaults: a non-positive limit becomes DefaultLimit
// and a negative minimum becomes DefaultMinReviews.
func (o RankOptions) Normalize() RankOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinReviews < 0 {
		o.MinReviews = DefaultMinReviews
	}
	return o
}

// RankedMovie is a movie annotated with its aggregate.
type RankedMovie struct {
	Movie         domain.Movie
	AverageRating float64
	ReviewsCount  int
}

// Rank orders movies that have at least one review and at least
// opts.MinReviews reviews by average rating descending, then review count
// descending, then id ascending, and keeps the first opts.Limit.
func Rank(movies []domain.Movie, opts RankOptions) []RankedMovie {
	opts = opts.Normalize()

	ranked := make([]RankedMovie, 0, len(movies))
	for _, m := range movies {
		agg := Aggregate(domain.Ratings(m.Reviews))
		if agg.Average == nil || agg.Count < opts.MinReviews {
			continue
		}
		ranked = append(ranked, RankedMovie{
			Movie:         m,
			AverageRating: *agg.Average,
			ReviewsCount:  agg.Count,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.ReviewsCount != b.ReviewsCount {
			return a.ReviewsCount > b.ReviewsCount
		}
		return a.Movie.ID < b.Movie.ID
	})

	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked
}
