// Package loader imports movies from a CSV file with Title, Year and Genre
// columns.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/domain"
)

const (
	colTitle = "Title"
	colYear  = "Year"
	colGenre = "Genre"
)

// MovieCreator is the write path rows go through.
type MovieCreator interface {
	CreateMovie(ctx context.Context, in catalog.MovieInput) (domain.Movie, error)
}

// Result counts the outcome of a run.
type Result struct {
	Inserted int
	Skipped  int
}

// Loader creates one movie per CSV row.
type Loader struct {
	creator MovieCreator
	log     *zap.Logger
}

// New returns a Loader writing through creator.
func New(creator MovieCreator, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{creator: creator, log: logger}
}

// LoadFile opens path and loads it. A missing file is an error; failing rows
// are not.
func (l *Loader) LoadFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, fmt.Errorf("%s not found", path)
		}
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := l.Load(ctx, f)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", path, err)
	}
	return res, nil
}

// Load reads a header row followed by movie rows from r.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("empty file")
		}
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				l.log.Warn("skipping row", zap.Int("line", line), zap.Error(err))
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		in, err := cols.movieInput(record)
		if err != nil {
			l.log.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			res.Skipped++
			continue
		}
		if _, err := l.creator.CreateMovie(ctx, in); err != nil {
			l.log.Warn("skipping row",
				zap.Int("line", line),
				zap.String("title", in.Title),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}
		res.Inserted++
	}

	l.log.Info("load finished", zap.Int("inserted", res.Inserted), zap.Int("skipped", res.Skipped))
	return res, nil
}

// columns holds header positions; -1 marks an absent optional column.
type columns struct {
	title, year, genre int
}

func mapColumns(header []string) (columns, error) {
	cols := columns{title: -1, year: -1, genre: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case colTitle:
			cols.title = i
		case colYear:
			cols.year = i
		case colGenre:
			cols.genre = i
		}
	}
	if cols.title < 0 {
		return cols, fmt.Errorf("header has no %s column", colTitle)
	}
	return cols, nil
}

func (c columns) movieInput(record []string) (catalog.MovieInput, error) {
	if c.title >= len(record) || c.year >= len(record) || c.genre >= len(record) {
		return catalog.MovieInput{}, fmt.Errorf("row has %d columns", len(record))
	}

	in := catalog.MovieInput{Title: record[c.title]}
	if c.year >= 0 {
		if year, err := strconv.Atoi(strings.TrimSpace(record[c.year])); err == nil && year != 0 {
			in.Year = &year
		}
	}
	if c.genre >= 0 {
		if genre := strings.TrimSpace(record[c.genre]); genre != "" {
			in.Genres = catalog.GenresFromString(genre)
		}
	}
	return in, nil
}
