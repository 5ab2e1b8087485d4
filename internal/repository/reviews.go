package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// ReviewsRepository provides helpers for movie reviews.
type ReviewsRepository struct {
	db *gorm.DB
}

// ReviewCreateParams captures the payload required to insert a review.
type ReviewCreateParams struct {
	MovieID int64
	Rating  int
	Comment *string
}

// Create inserts a review. A missing movie surfaces as ErrNotFound through
// the foreign key.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	model := reviewModel{
		MovieID: params.MovieID,
		Rating:  params.Rating,
		Comment: params.Comment,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return model.toDomain(), nil
}

// ListByMovie returns a movie's reviews ordered by id. An unknown movie has
// no reviews.
func (r *ReviewsRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error) {
	var models []reviewModel
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(models))
	for _, m := range models {
		reviews = append(reviews, m.toDomain())
	}
	return reviews, nil
}
