package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	db    *gorm.DB
	cache MovieCache
}

// MovieCreateParams bundles the fields required to create a movie. Genres is
// the already-normalized stored column value.
type MovieCreateParams struct {
	Title  string
	Year   *int
	Genres *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	model := movieModel{
		Title:  params.Title,
		Year:   params.Year,
		Genres: params.Genres,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Movie{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return domain.Movie{}, fmt.Errorf("create movie: %w", err)
	}

	movie := model.toDomain()
	r.cache.SetMovie(ctx, movie)
	return movie, nil
}

// GetByID fetches a movie row by its identifier, without reviews.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	if movie, ok := r.cache.GetMovie(ctx, id); ok {
		return movie, nil
	}

	var model movieModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}

	movie := model.toDomain()
	r.cache.SetMovie(ctx, movie)
	return movie, nil
}

// ListWithReviews returns every movie with its reviews preloaded, ordered by id.
func (r *MoviesRepository) ListWithReviews(ctx context.Context) ([]domain.Movie, error) {
	var models []movieModel
	err := r.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]domain.Movie, 0, len(models))
	for _, m := range models {
		movies = append(movies, m.toDomain())
	}
	return movies, nil
}
