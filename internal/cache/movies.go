// Package cache keeps movie records in Redis. Movies never change after
// creation, so entries only expire by TTL. Review aggregates are never cached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// MovieCache is a read-through cache for movie rows. A nil *MovieCache is a
// valid, disabled cache.
type MovieCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type cachedMovie struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	Genres    []string  `json:"genres"`
	CreatedAt time.Time `json:"createdAt"`
}

// New connects to Redis at url and verifies it with PING.
func New(ctx context.Context, url string, ttl time.Duration, logger *zap.Logger) (*MovieCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, ttl, logger), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *MovieCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovieCache{client: client, ttl: ttl, logger: logger}
}

// MovieKey is the Redis key for a movie id.
func MovieKey(id int64) string {
	return fmt.Sprintf("movie:%d", id)
}

// GetMovie returns the cached movie, if any. Errors are logged and reported
// as a miss.
func (c *MovieCache) GetMovie(ctx context.Context, id int64) (domain.Movie, bool) {
	if c == nil || c.client == nil {
		return domain.Movie{}, false
	}
	raw, err := c.client.Get(ctx, MovieKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache: get movie", zap.Int64("movie_id", id), zap.Error(err))
		}
		return domain.Movie{}, false
	}
	var cm cachedMovie
	if err := json.Unmarshal(raw, &cm); err != nil {
		c.logger.Warn("cache: decode movie", zap.Int64("movie_id", id), zap.Error(err))
		return domain.Movie{}, false
	}
	c.logger.Debug("cache: hit", zap.Int64("movie_id", id))
	return domain.Movie{ID: cm.ID, Title: cm.Title, Year: cm.Year, Genres: cm.Genres, CreatedAt: cm.CreatedAt}, true
}

// SetMovie stores the movie row. Reviews attached to movie are not stored.
func (c *MovieCache) SetMovie(ctx context.Context, movie domain.Movie) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(cachedMovie{
		ID:        movie.ID,
		Title:     movie.Title,
		Year:      movie.Year,
		Genres:    movie.Genres,
		CreatedAt: movie.CreatedAt,
	})
	if err != nil {
		c.logger.Warn("cache: encode movie", zap.Int64("movie_id", movie.ID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, MovieKey(movie.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache: set movie", zap.Int64("movie_id", movie.ID), zap.Error(err))
	}
}

// Close releases the Redis client.
func (c *MovieCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
