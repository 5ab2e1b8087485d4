package catalog

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
	"github.com/Clark-Hu/movie-reviews/internal/repository"
)

// memoryRepo is an in-memory stand-in for both repositories.
type memoryRepo struct {
	nextMovieID  int64
	nextReviewID int64
	movies       map[int64]domain.Movie
	reviews      map[int64][]domain.Review
	lastGenres   *string

	createErr error
	listErr   error
	getErr    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{movies: map[int64]domain.Movie{}, reviews: map[int64][]domain.Review{}}
}

type memoryMovies struct{ *memoryRepo }
type memoryReviews struct{ *memoryRepo }

func (r memoryMovies) Create(_ context.Context, p repository.MovieCreateParams) (domain.Movie, error) {
	if r.createErr != nil {
		return domain.Movie{}, r.createErr
	}
	for _, m := range r.movies {
		if m.Title == p.Title {
			return domain.Movie{}, repository.ErrConflict
		}
	}
	r.nextMovieID++
	r.lastGenres = p.Genres
	m := domain.Movie{
		ID:        r.nextMovieID,
		Title:     p.Title,
		Year:      p.Year,
		Genres:    domain.SplitGenres(p.Genres),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	r.movies[m.ID] = m
	return m, nil
}

func (r memoryMovies) GetByID(_ context.Context, id int64) (domain.Movie, error) {
	if r.getErr != nil {
		return domain.Movie{}, r.getErr
	}
	m, ok := r.movies[id]
	if !ok {
		return domain.Movie{}, repository.ErrNotFound
	}
	return m, nil
}

func (r memoryMovies) ListWithReviews(context.Context) ([]domain.Movie, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Movie, 0, len(r.movies))
	for id, m := range r.movies {
		m.Reviews = append([]domain.Review(nil), r.reviews[id]...)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryReviews) Create(_ context.Context, p repository.ReviewCreateParams) (domain.Review, error) {
	if _, ok := r.movies[p.MovieID]; !ok {
		return domain.Review{}, repository.ErrNotFound
	}
	r.nextReviewID++
	rev := domain.Review{ID: r.nextReviewID, MovieID: p.MovieID, Rating: p.Rating, Comment: p.Comment}
	r.reviews[p.MovieID] = append(r.reviews[p.MovieID], rev)
	return rev, nil
}

func (r memoryReviews) ListByMovie(_ context.Context, movieID int64) ([]domain.Review, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Review{}, r.reviews[movieID]...), nil
}

var errStoreDown = errors.New("store down")

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(memoryMovies{repo}, memoryReviews{repo}, nil), repo
}
