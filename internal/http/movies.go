package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Clark-Hu/movie-reviews/internal/catalog"
	"github.com/Clark-Hu/movie-reviews/internal/domain"
	"github.com/Clark-Hu/movie-reviews/internal/rating"
)

const maxRequestBody = 1 << 20 // 1 MiB

const msgInvalidMovieID = "invalid movie id"

type errorResponse struct {
	Error string `json:"error"`
}

type movieCreateRequest struct {
	Title  string         `json:"title"`
	Year   *int           `json:"year"`
	Genres catalog.Genres `json:"genres"`
}

type reviewCreateRequest struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

type movieResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      *int      `json:"year"`
	Genres    []string  `json:"genres"`
	CreatedAt time.Time `json:"createdAt"`
}

type movieDetailResponse struct {
	movieResponse
	Reviews       []reviewResponse `json:"reviews"`
	AverageRating *float64         `json:"average_rating"`
}

type rankedMovieResponse struct {
	movieResponse
	AverageRating float64 `json:"average_rating"`
	ReviewsCount  int     `json:"reviews_count"`
}

type reviewResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movieId"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type ratingResponse struct {
	MovieID int64    `json:"movieId"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.catalog.CreateMovie(r.Context(), catalog.MovieInput{
		Title:  req.Title,
		Year:   req.Year,
		Genres: req.Genres,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.metrics.MovieCreated()

	w.Header().Set("Location", fmt.Sprintf("/movies/%d", movie.ID))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, msgInvalidMovieID)
		return
	}

	details, err := s.catalog.GetMovie(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	reviews := make([]reviewResponse, 0, len(details.Movie.Reviews))
	for _, rev := range details.Movie.Reviews {
		reviews = append(reviews, toReviewResponse(rev))
	}
	s.respondJSON(w, http.StatusOK, movieDetailResponse{
		movieResponse: toMovieResponse(details.Movie),
		Reviews:       reviews,
		AverageRating: details.Aggregate.Average,
	})
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, msgInvalidMovieID)
		return
	}

	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, err := s.catalog.SubmitReview(r.Context(), id, catalog.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.metrics.ReviewSubmitted()

	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := parseMovieID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, msgInvalidMovieID)
		return
	}

	agg, err := s.catalog.GetRating(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ratingResponse{
		MovieID: id,
		Average: agg.Average,
		Count:   agg.Count,
	})
}

func (s *Server) handleTopMovies(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.catalog.TopMovies(r.Context(), parseTopQuery(r.URL.Query()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	items := make([]rankedMovieResponse, 0, len(ranked))
	for _, rm := range ranked {
		items = append(items, rankedMovieResponse{
			movieResponse: toMovieResponse(rm.Movie),
			AverageRating: rm.AverageRating,
			ReviewsCount:  rm.ReviewsCount,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

// parseTopQuery reads limit and min_reviews. Values that are missing or not
// integers fall back to the ranking defaults.
func parseTopQuery(query url.Values) rating.RankOptions {
	var opts rating.RankOptions
	if v, err := strconv.Atoi(strings.TrimSpace(query.Get("limit"))); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(query.Get("min_reviews"))); err == nil {
		opts.MinReviews = v
	}
	return opts.Normalize()
}

func parseMovieID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return 0, fmt.Errorf("missing id parameter")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id parameter: %w", err)
	}
	return id, nil
}

// decodeJSONBody decodes a single JSON object. An empty body decodes as {} so
// that field validation reports what is missing.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("encode response", zap.Error(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError
	var conflictErr *domain.ConflictError
	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		s.respondError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		s.respondError(w, http.StatusBadRequest, conflictErr.Message)
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusBadRequest, "malformed JSON payload")
	case errors.As(err, &typeError) && typeError.Field == "":
		// Top-level value of the wrong kind, e.g. an array.
		s.respondError(w, http.StatusBadRequest, "malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid value for field %s", typeError.Field))
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusBadRequest, "request body too large")
	default:
		s.respondError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), "json: "))
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}
	return movieResponse{
		ID:        movie.ID,
		Title:     movie.Title,
		Year:      movie.Year,
		Genres:    genres,
		CreatedAt: movie.CreatedAt,
	}
}

func toReviewResponse(rev domain.Review) reviewResponse {
	return reviewResponse{
		ID:        rev.ID,
		MovieID:   rev.MovieID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
	}
}
