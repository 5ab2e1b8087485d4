// Package catalog holds the request-level use cases: input validation,
// store calls and aggregate computation for movies and their reviews.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
	"github.com/Clark-Hu/movie-reviews/internal/rating"
	"github.com/Clark-Hu/movie-reviews/internal/repository"
)

const (
	MsgTitleRequired = "title is required"
	MsgMovieConflict = "could not add movie (maybe duplicate)"
	MsgRatingMissing = "rating required"
	MsgRatingRange   = "rating must be 1-5"
	MinRating        = 1
	MaxRating        = 5
)

// MovieRepository is the movie persistence the service needs.
type MovieRepository interface {
	Create(ctx context.Context, params repository.MovieCreateParams) (domain.Movie, error)
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
	ListWithReviews(ctx context.Context) ([]domain.Movie, error)
}

// ReviewRepository is the review persistence the service needs.
type ReviewRepository interface {
	Create(ctx context.Context, params repository.ReviewCreateParams) (domain.Review, error)
	ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error)
}

// Service implements the catalog operations.
type Service struct {
	movies  MovieRepository
	reviews ReviewRepository
	log     *zap.Logger
}

// NewService wires the service to its repositories.
func NewService(movies MovieRepository, reviews ReviewRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{movies: movies, reviews: reviews, log: logger}
}

// MovieInput is the validated shape of a create-movie request.
type MovieInput struct {
	Title  string
	Year   *int
	Genres Genres
}

// ReviewInput is the shape of a submit-review request. Rating is nil when the
// caller omitted it.
type ReviewInput struct {
	Rating  *float64
	Comment *string
}

// MovieDetails is a movie with its reviews and current aggregate.
type MovieDetails struct {
	Movie     domain.Movie
	Aggregate domain.RatingAggregate
}

// CreateMovie validates the input, normalizes genres and inserts the movie.
// Any store rejection is reported as a ConflictError.
func (s *Service) CreateMovie(ctx context.Context, in MovieInput) (domain.Movie, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Movie{}, &domain.ValidationError{Message: MsgTitleRequired}
	}

	movie, err := s.movies.Create(ctx, repository.MovieCreateParams{
		Title:  title,
		Year:   in.Year,
		Genres: in.Genres.Stored(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warn("create movie rejected", zap.String("title", title), zap.Error(err))
		} else {
			s.log.Error("create movie failed", zap.String("title", title), zap.Error(err))
		}
		return domain.Movie{}, &domain.ConflictError{Message: MsgMovieConflict, Err: err}
	}
	return movie, nil
}

// GetMovie returns the movie, its reviews and the aggregate over them.
func (s *Service) GetMovie(ctx context.Context, id int64) (MovieDetails, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MovieDetails{}, &domain.NotFoundError{Resource: "movie"}
		}
		return MovieDetails{}, fmt.Errorf("get movie: %w", err)
	}

	reviews, err := s.reviews.ListByMovie(ctx, id)
	if err != nil {
		return MovieDetails{}, fmt.Errorf("get movie reviews: %w", err)
	}
	movie.Reviews = reviews

	return MovieDetails{
		Movie:     movie,
		Aggregate: rating.Aggregate(domain.Ratings(reviews)),
	}, nil
}

// SubmitReview validates the rating, checks the movie exists and stores the
// review. Checks run in order: presence, range, movie existence.
func (s *Service) SubmitReview(ctx context.Context, movieID int64, in ReviewInput) (domain.Review, error) {
	value, err := validateRating(in.Rating)
	if err != nil {
		return domain.Review{}, err
	}

	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Review{}, &domain.NotFoundError{Resource: "movie"}
		}
		return domain.Review{}, fmt.Errorf("check movie: %w", err)
	}

	review, err := s.reviews.Create(ctx, repository.ReviewCreateParams{
		MovieID: movieID,
		Rating:  value,
		Comment: in.Comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Review{}, &domain.NotFoundError{Resource: "movie"}
		}
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// GetRating aggregates the reviews of movieID. An unknown movie has no
// reviews and yields an empty aggregate rather than an error.
func (s *Service) GetRating(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	reviews, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("get rating: %w", err)
	}
	return rating.Aggregate(domain.Ratings(reviews)), nil
}

// TopMovies ranks every movie by its reviews.
func (s *Service) TopMovies(ctx context.Context, opts rating.RankOptions) ([]rating.RankedMovie, error) {
	movies, err := s.movies.ListWithReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("top movies: %w", err)
	}
	return rating.Rank(movies, opts), nil
}

func validateRating(value *float64) (int, error) {
	if value == nil {
		return 0, &domain.ValidationError{Message: MsgRatingMissing}
	}
	v := *value
	if v < MinRating || v > MaxRating || v != float64(int(v)) {
		return 0, &domain.ValidationError{Message: MsgRatingRange}
	}
	return int(v), nil
}
