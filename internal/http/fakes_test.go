package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/config"
	"github.com/Clark-Hu/movie-reviews/internal/domain"
	"github.com/Clark-Hu/movie-reviews/internal/metrics"
	"github.com/Clark-Hu/movie-reviews/internal/repository"
)

// memoryStore backs both repository interfaces for handler tests.
type memoryStore struct {
	mu       sync.Mutex
	movieSeq int64
	revSeq   int64
	movies   map[int64]domain.Movie
	reviews  map[int64][]domain.Review
	listErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{movies: map[int64]domain.Movie{}, reviews: map[int64][]domain.Review{}}
}

type movieRepo struct{ *memoryStore }
type reviewRepo struct{ *memoryStore }

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func (m movieRepo) Create(_ context.Context, p repository.MovieCreateParams) (domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.movies {
		if existing.Title == p.Title {
			return domain.Movie{}, repository.ErrConflict
		}
	}
	m.movieSeq++
	movie := domain.Movie{
		ID:        m.movieSeq,
		Title:     p.Title,
		Year:      p.Year,
		Genres:    domain.SplitGenres(p.Genres),
		CreatedAt: testTime,
	}
	m.movies[movie.ID] = movie
	return movie, nil
}

func (m movieRepo) GetByID(_ context.Context, id int64) (domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	movie, ok := m.movies[id]
	if !ok {
		return domain.Movie{}, repository.ErrNotFound
	}
	return movie, nil
}

func (m movieRepo) ListWithReviews(context.Context) ([]domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Movie, 0, len(m.movies))
	for id, movie := range m.movies {
		movie.Reviews = append([]domain.Review(nil), m.reviews[id]...)
		out = append(out, movie)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m reviewRepo) Create(_ context.Context, p repository.ReviewCreateParams) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movies[p.MovieID]; !ok {
		return domain.Review{}, repository.ErrNotFound
	}
	m.revSeq++
	rev := domain.Review{ID: m.revSeq, MovieID: p.MovieID, Rating: p.Rating, Comment: p.Comment, CreatedAt: testTime}
	m.reviews[p.MovieID] = append(m.reviews[p.MovieID], rev)
	return rev, nil
}

func (m reviewRepo) ListByMovie(_ context.Context, movieID int64) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Review{}, m.reviews[movieID]...), nil
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

var errDown = errors.New("connection refused")

func buildTestServer(tb testing.TB) (*Server, *memoryStore) {
	tb.Helper()
	st := newMemoryStore()
	svc := catalog.NewService(movieRepo{st}, reviewRepo{st}, nil)
	m := metrics.New("test")
	cfg := config.Config{Port: "0", CORSAllowedOrigins: []string{"*"}}
	return New(cfg, fakeHealth{}, svc, m, nil), st
}

func attachIDParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
