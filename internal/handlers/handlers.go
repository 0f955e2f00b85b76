// Package handlers wires HTTP routing and API handlers.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/logger"
)

// Gateway is the upstream catalog the handlers translate requests for.
type Gateway interface {
	SearchMovies(ctx context.Context, query string, page int) (catalog.Page, error)
	Popular(ctx context.Context, page int) (catalog.Page, error)
	NowPlaying(ctx context.Context, page int) (catalog.Page, error)
	Movie(ctx context.Context, id int) (catalog.Movie, error)
	Genres(ctx context.Context) ([]catalog.Genre, error)
}

const invalidRequest = "Invalid request"

type Handler struct {
	gateway  Gateway
	validate *validator.Validate
}

type Config struct {
	Gateway Gateway
}

type searchRequest struct {
	Query string `validate:"required"`
	Page  int    `validate:"min=1"`
}

type pageRequest struct {
	Page int `validate:"min=1"`
}

type movieRequest struct {
	ID int `validate:"min=1"`
}

func New(cfg *Config) (*Handler, error) {
	if cfg == nil || cfg.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	return &Handler{
		gateway:  cfg.Gateway,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/healthz", Adapt(h.getHealth))

	r.Route("/api/movies", func(r chi.Router) {
		r.Method(http.MethodGet, "/search", Adapt(h.getSearch))
		r.Method(http.MethodGet, "/popular", Adapt(h.getPopular))
		r.Method(http.MethodGet, "/now-playing", Adapt(h.getNowPlaying))
		r.Method(http.MethodGet, "/genres", Adapt(h.getGenres))
		r.Method(http.MethodGet, "/{id}", Adapt(h.getMovie))
	})
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := pageParam(r)
	if err != nil || page < 1 {
		return badRequest("page must be a positive integer")
	}
	req := searchRequest{
		Query: strings.TrimSpace(r.URL.Query().Get("query")),
		Page:  page,
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest("Search query is required")
	}

	result, err := h.gateway.SearchMovies(ctx, req.Query, req.Page)
	if err != nil {
		return upstreamFailure(ctx, "An error occurred while searching movies", err)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) getPopular(w http.ResponseWriter, r *http.Request) error {
	return h.listPage(w, r, h.gateway.Popular, "An error occurred while getting popular movies")
}

func (h *Handler) getNowPlaying(w http.ResponseWriter, r *http.Request) error {
	return h.listPage(w, r, h.gateway.NowPlaying, "An error occurred while getting now playing movies")
}

func (h *Handler) listPage(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, page int) (catalog.Page, error),
	failure string,
) error {
	ctx := r.Context()

	page, err := pageParam(r)
	if err != nil {
		return badRequest("page must be a positive integer")
	}
	req := pageRequest{Page: page}
	if err := h.validate.Struct(req); err != nil {
		return badRequest("page must be a positive integer")
	}

	result, err := fetch(ctx, req.Page)
	if err != nil {
		return upstreamFailure(ctx, failure, err)
	}
	writeJSON(w, http.StatusOK, result)
	return nil
}

func (h *Handler) getGenres(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	genres, err := h.gateway.Genres(ctx)
	if err != nil {
		return upstreamFailure(ctx, "An error occurred while getting genres", err)
	}
	if genres == nil {
		genres = []catalog.Genre{}
	}
	writeJSON(w, http.StatusOK, genres)
	return nil
}

func (h *Handler) getMovie(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := idParam(r, "id")
	if err != nil {
		return badRequest("movie id must be a positive integer")
	}
	if err := h.validate.Struct(movieRequest{ID: id}); err != nil {
		return badRequest("movie id must be a positive integer")
	}

	movie, err := h.gateway.Movie(ctx, id)
	if err != nil {
		// Not found stays a 500 to keep the documented contract; it is only
		// distinguished in the log.
		return upstreamFailure(ctx, "An error occurred while getting movie details", err)
	}
	writeJSON(w, http.StatusOK, movie)
	return nil
}

// upstreamFailure logs err with its kind and returns a generic 500, or a 400
// when the gateway rejected the input.
func upstreamFailure(ctx context.Context, msg string, err error) error {
	kind := "upstream_unavailable"
	switch {
	case errors.Is(err, catalog.ErrValidation):
		slog.InfoContext(ctx, "gateway rejected request",
			slog.String("request_id", middleware.GetReqID(ctx)),
			logger.Error(err))
		return badRequest(invalidRequest)
	case errors.Is(err, catalog.ErrNotFound):
		kind = "not_found"
	case errors.Is(err, catalog.ErrMalformedResponse):
		kind = "malformed_response"
	}
	slog.WarnContext(ctx, "gateway call failed",
		slog.String("kind", kind),
		slog.String("request_id", middleware.GetReqID(ctx)),
		logger.Error(err))
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

func pageParam(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	if raw == "" {
		return 1, nil
	}
	return strconv.Atoi(raw)
}
