package repository

import (
	"time"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// movieModel represents the movies table.
type movieModel struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null;uniqueIndex:movies_title_key"`
	Year      *int
	Genres    *string
	CreatedAt time.Time     `gorm:"autoCreateTime"`
	Reviews   []reviewModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

func (movieModel) TableName() string {
	return "movies"
}

// reviewModel represents the reviews table.
type reviewModel struct {
	ID        int64 `gorm:"primaryKey"`
	MovieID   int64 `gorm:"not null;index:idx_reviews_movie_id"`
	Rating    int   `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   *string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (reviewModel) TableName() string {
	return "reviews"
}

func (m movieModel) toDomain() domain.Movie {
	movie := domain.Movie{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Genres:    domain.SplitGenres(m.Genres),
		CreatedAt: m.CreatedAt,
	}
	if m.Reviews != nil {
		movie.Reviews = make([]domain.Review, 0, len(m.Reviews))
		for _, r := range m.Reviews {
			movie.Reviews = append(movie.Reviews, r.toDomain())
		}
	}
	return movie
}

func (r reviewModel) toDomain() domain.Review {
	return domain.Review{
		ID:        r.ID,
		MovieID:   r.MovieID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
