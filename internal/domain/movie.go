package domain

import (
	"strings"
	"time"
)

// Movie represents the canonical movie entity in the database/service.
type Movie struct {
	ID        int64
	Title     string
	Year      *int
	Genres    []string
	Reviews   []Review
	CreatedAt time.Time
}

// JoinGenres collapses a genre list into the single stored column value.
func JoinGenres(genres []string) string {
	return strings.Join(genres, ", ")
}

// SplitGenres expands the stored column value back into a list. Parts are
// trimmed and empty parts dropped; a nil or empty value yields an empty list.
func SplitGenres(stored *string) []string {
	genres := make([]string, 0)
	if stored == nil || *stored == "" {
		return genres
	}
	for _, part := range strings.Split(*stored, ",") {
		if g := strings.TrimSpace(part); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}
