package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

// Genres is the genres field of a create-movie request. Callers may send a
// list of strings or one pre-joined string; both are kept as given until
// Stored normalizes them.
type Genres struct {
	List   []string
	Joined *string
	isList bool
}

// GenresFromList builds Genres from a list.
func GenresFromList(list []string) Genres {
	return Genres{List: list, isList: true}
}

// GenresFromString builds Genres from a pre-joined string.
func GenresFromString(s string) Genres {
	return Genres{Joined: &s}
}

// UnmarshalJSON accepts null, a string or an array of strings.
func (g *Genres) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*g = Genres{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("genres must be a list of strings or a string")
		}
		*g = GenresFromList(list)
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("genres must be a list of strings or a string")
		}
		*g = GenresFromString(s)
		return nil
	}
}

// Stored returns the column value: a list joined with ", ", a string passed
// through unchanged, or nil when genres were not given.
func (g Genres) Stored() *string {
	if g.isList {
		joined := domain.JoinGenres(g.List)
		return &joined
	}
	return g.Joined
}
