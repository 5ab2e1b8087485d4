package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

type recordingCreator struct {
	seen   map[string]bool
	inputs []catalog.MovieInput
}

func (r *recordingCreator) CreateMovie(_ context.Context, in catalog.MovieInput) (domain.Movie, error) {
	if strings.TrimSpace(in.Title) == "" {
		return domain.Movie{}, &domain.ValidationError{Message: catalog.MsgTitleRequired}
	}
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	if r.seen[in.Title] {
		return domain.Movie{}, &domain.ConflictError{Message: catalog.MsgMovieConflict, Err: errors.New("duplicate")}
	}
	r.seen[in.Title] = true
	r.inputs = append(r.inputs, in)
	return domain.Movie{ID: int64(len(r.inputs)), Title: in.Title}, nil
}

const sample = `Title,Year,Genre
Heat,1995,"Crime, Thriller"
Alien,abc,
Heat,1995,Crime
,2001,Drama
Short
Up,0,Animation
`

func TestLoad(t *testing.T) {
	creator := &recordingCreator{}
	res, err := New(creator, nil).Load(context.Background(), strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Inserted != 3 || res.Skipped != 3 {
		t.Fatalf("result = %+v, want 3 inserted 3 skipped", res)
	}

	heat := creator.inputs[0]
	if heat.Year == nil || *heat.Year != 1995 {
		t.Fatalf("Heat year = %v", heat.Year)
	}
	if got := heat.Genres.Stored(); got == nil || *got != "Crime, Thriller" {
		t.Fatalf("Heat genres = %v", got)
	}

	alien := creator.inputs[1]
	if alien.Year != nil || alien.Genres.Stored() != nil {
		t.Fatalf("Alien should have no year or genres: %+v", alien)
	}

	up := creator.inputs[2]
	if up.Year != nil {
		t.Fatalf("year 0 should be absent, got %d", *up.Year)
	}
}

func TestLoadHeaderOrder(t *testing.T) {
	creator := &recordingCreator{}
	csv := "Genre,Title\nDrama,Stalker\n"
	res, err := New(creator, nil).Load(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Inserted != 1 || creator.inputs[0].Title != "Stalker" {
		t.Fatalf("unexpected result %+v %+v", res, creator.inputs)
	}
}

func TestLoadBadHeader(t *testing.T) {
	tests := map[string]string{
		"empty":    "",
		"no title": "Name,Year\nX,1999\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := New(&recordingCreator{}, nil).Load(context.Background(), strings.NewReader(input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := New(&recordingCreator{}, nil).LoadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res.Inserted != 3 {
		t.Fatalf("inserted = %d", res.Inserted)
	}

	_, err = New(&recordingCreator{}, nil).LoadFile(context.Background(), filepath.Join(dir, "missing.csv"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("missing file error = %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(&recordingCreator{}, nil).Load(ctx, strings.NewReader(sample))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
