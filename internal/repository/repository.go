package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
	"github.com/Clark-Hu/movie-reviews/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates the store rejected a write on a constraint.
	ErrConflict = errors.New("repository: conflict")
)

// MovieCache is the optional read-through cache consulted by MoviesRepository.
type MovieCache interface {
	GetMovie(ctx context.Context, id int64) (domain.Movie, bool)
	SetMovie(ctx context.Context, movie domain.Movie)
}

type noCache struct{}

func (noCache) GetMovie(context.Context, int64) (domain.Movie, bool) { return domain.Movie{}, false }
func (noCache) SetMovie(context.Context, domain.Movie)               {}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies  *MoviesRepository
	Reviews *ReviewsRepository
}

// New constructs a Repository backed by the provided store. cache may be nil.
func New(st *store.Store, cache MovieCache) *Repository {
	return NewWithDB(st.DB(), cache)
}

// NewWithDB allows constructing repositories directly from a gorm handle.
func NewWithDB(db *gorm.DB, cache MovieCache) *Repository {
	if cache == nil {
		cache = noCache{}
	}
	return &Repository{
		Movies:  &MoviesRepository{db: db, cache: cache},
		Reviews: &ReviewsRepository{db: db},
	}
}
