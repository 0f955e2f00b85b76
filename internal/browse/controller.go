// Package browse implements the client side of movie discovery: the browse
// mode state machine, search input debouncing and the pagination window.
package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/logger"
)

// Catalog is the network client the controller fetches through.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (catalog.Page, error)
	Popular(ctx context.Context, page int) (catalog.Page, error)
	NowPlaying(ctx context.Context, page int) (catalog.Page, error)
	Movie(ctx context.Context, id int) (catalog.Movie, error)
	Genres(ctx context.Context) ([]catalog.Genre, error)
}

const (
	UnknownGenre = "Unknown"
	errorMessage = "Could not load movies. Please try again."
	detailError  = "Could not load movie details. Please try again."
)

type RequestKind int

const (
	KindList RequestKind = iota
	KindGenres
	KindMovie
)

// Request describes one fetch issued by a transition. Seq is unique and
// increasing per controller; completions are matched against it.
type Request struct {
	Seq     uint64
	Kind    RequestKind
	Mode    catalog.Mode
	Page    int
	Query   string
	MovieID int
}

func (r Request) String() string {
	switch r.Kind {
	case KindGenres:
		return fmt.Sprintf("#%d genres", r.Seq)
	case KindMovie:
		return fmt.Sprintf("#%d movie %d", r.Seq, r.MovieID)
	}
	if r.Mode == catalog.ModeSearch {
		return fmt.Sprintf("#%d %s %q page %d", r.Seq, r.Mode, r.Query, r.Page)
	}
	return fmt.Sprintf("#%d %s page %d", r.Seq, r.Mode, r.Page)
}

type Result struct {
	Request Request
	Page    catalog.Page
	Genres  []catalog.Genre
	Movie   catalog.Movie
	Err     error
}

type pageFetcher func(ctx context.Context, cat Catalog, req Request) (catalog.Page, error)

var fetchers = map[catalog.Mode]pageFetcher{
	catalog.ModePopular: func(ctx context.Context, cat Catalog, req Request) (catalog.Page, error) {
		return cat.Popular(ctx, req.Page)
	},
	catalog.ModeSearch: func(ctx context.Context, cat Catalog, req Request) (catalog.Page, error) {
		return cat.Search(ctx, req.Query, req.Page)
	},
	catalog.ModeNowPlaying: func(ctx context.Context, cat Catalog, req Request) (catalog.Page, error) {
		return cat.NowPlaying(ctx, req.Page)
	},
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithScrollReset registers the view hook called after each applied page.
func WithScrollReset(fn func()) Option {
	return func(c *Controller) { c.scrollTop = fn }
}

// Controller holds the session state of one browse view. All methods except
// Fetch must be called from the view's event loop; Fetch only reads the
// catalog and may run anywhere.
type Controller struct {
	cat       Catalog
	log       *slog.Logger
	scrollTop func()

	mode     catalog.Mode
	page     int
	query    string
	last     *catalog.Page
	movies   []catalog.Movie
	inflight bool
	err      error

	genres map[int]string

	detail        *catalog.Movie
	detailLoading bool
	detailErr     error

	seq       uint64
	listSeq   uint64
	genreSeq  uint64
	detailSeq uint64
}

func New(cat Catalog, opts ...Option) *Controller {
	c := &Controller{
		cat:    cat,
		log:    slog.Default(),
		mode:   catalog.ModePopular,
		page:   1,
		genres: map[int]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(slog.String("session", uuid.NewString()))
	return c
}

// Mount returns the requests issued when the view opens: the genre lookup
// and the first popular page.
func (c *Controller) Mount() []Request {
	c.seq++
	c.genreSeq = c.seq
	genres := Request{Seq: c.seq, Kind: KindGenres}
	return []Request{genres, c.issueList(catalog.ModePopular, 1, "")}
}

// SubmitSearch switches to search mode at page 1. A blank query is rejected
// with catalog.ErrValidation and leaves the state untouched.
func (c *Controller) SubmitSearch(query string) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: search query is required", catalog.ErrValidation)
	}
	return c.issueList(catalog.ModeSearch, 1, query), nil
}

func (c *Controller) ClearSearch() Request {
	return c.issueList(catalog.ModePopular, 1, "")
}

func (c *Controller) SelectPopular() Request {
	return c.issueList(catalog.ModePopular, 1, "")
}

func (c *Controller) SelectNowPlaying() Request {
	return c.issueList(catalog.ModeNowPlaying, 1, "")
}

// GoToPage refetches the current mode at page n. It reports false and
// issues nothing when n is the current page or not a valid page number.
func (c *Controller) GoToPage(n int) (Request, bool) {
	if n < 1 || n == c.page {
		return Request{}, false
	}
	return c.issueList(c.mode, n, c.query), true
}

func (c *Controller) NextPage() (Request, bool) {
	if c.last == nil || c.page >= c.last.TotalPages {
		return Request{}, false
	}
	return c.GoToPage(c.page + 1)
}

func (c *Controller) PreviousPage() (Request, bool) {
	if c.page <= 1 {
		return Request{}, false
	}
	return c.GoToPage(c.page - 1)
}

// Retry reissues the current mode and page, typically after a failure.
func (c *Controller) Retry() Request {
	return c.issueList(c.mode, c.page, c.query)
}

// OpenMovie starts loading one movie for the detail panel.
func (c *Controller) OpenMovie(id int) Request {
	c.seq++
	c.detailSeq = c.seq
	c.detail = nil
	c.detailErr = nil
	c.detailLoading = true
	return Request{Seq: c.seq, Kind: KindMovie, MovieID: id}
}

// CloseMovie leaves the detail panel; a late completion is discarded.
func (c *Controller) CloseMovie() {
	c.detailSeq = 0
	c.detail = nil
	c.detailErr = nil
	c.detailLoading = false
}

func (c *Controller) issueList(mode catalog.Mode, page int, query string) Request {
	if mode != catalog.ModeSearch {
		query = ""
	}
	c.mode = mode
	c.page = page
	c.query = query
	c.inflight = true
	c.seq++
	c.listSeq = c.seq
	req := Request{Seq: c.seq, Kind: KindList, Mode: mode, Page: page, Query: query}
	c.log.Debug("browse request issued", slog.String("request", req.String()))
	return req
}

// Fetch performs req against the catalog. It does not touch session state.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	res := Result{Request: req}
	switch req.Kind {
	case KindGenres:
		res.Genres, res.Err = c.cat.Genres(ctx)
	case KindMovie:
		res.Movie, res.Err = c.cat.Movie(ctx, req.MovieID)
	default:
		fetch, ok := fetchers[req.Mode]
		if !ok {
			res.Err = fmt.Errorf("%w: unknown browse mode %d", catalog.ErrValidation, int(req.Mode))
			return res
		}
		res.Page, res.Err = fetch(ctx, c.cat, req)
	}
	return res
}

// Apply folds a completed fetch into the session. Completions for requests
// that have since been superseded are dropped and Apply reports false.
func (c *Controller) Apply(res Result) bool {
	switch res.Request.Kind {
	case KindGenres:
		return c.applyGenres(res)
	case KindMovie:
		return c.applyMovie(res)
	}

	if res.Request.Seq != c.listSeq {
		c.log.Debug("stale browse result dropped",
			slog.String("request", res.Request.String()),
			slog.Uint64("current", c.listSeq))
		return false
	}
	c.inflight = false

	if res.Err != nil {
		c.movies = []catalog.Movie{}
		c.last = nil
		c.err = res.Err
		c.log.Warn("browse fetch failed",
			slog.String("request", res.Request.String()),
			slog.String("kind", Kind(res.Err)),
			logger.Error(res.Err))
		return true
	}

	page := res.Page
	page.Normalize()
	c.last = &page
	c.movies = page.Results
	if page.Page >= 1 {
		c.page = page.Page
	}
	c.err = nil
	if c.scrollTop != nil {
		c.scrollTop()
	}
	return true
}

func (c *Controller) applyGenres(res Result) bool {
	if res.Request.Seq != c.genreSeq {
		return false
	}
	lookup := make(map[int]string, len(res.Genres))
	if res.Err != nil {
		c.log.Warn("genre lookup unavailable", slog.String("kind", Kind(res.Err)), logger.Error(res.Err))
	}
	for _, g := range res.Genres {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		lookup[g.ID] = g.Name
	}
	c.genres = lookup
	return true
}

func (c *Controller) applyMovie(res Result) bool {
	if res.Request.Seq != c.detailSeq {
		return false
	}
	c.detailLoading = false
	if res.Err != nil {
		c.detailErr = res.Err
		c.log.Warn("movie detail failed",
			slog.Int("movie_id", res.Request.MovieID),
			slog.String("kind", Kind(res.Err)),
			logger.Error(res.Err))
		return true
	}
	movie := res.Movie
	c.detail = &movie
	return true
}

func (c *Controller) Mode() catalog.Mode { return c.mode }
func (c *Controller) Page() int          { return c.page }
func (c *Controller) Query() string      { return c.query }
func (c *Controller) Inflight() bool     { return c.inflight }
func (c *Controller) Err() error         { return c.err }

// Movies returns the movies to display; empty after a failure.
func (c *Controller) Movies() []catalog.Movie { return c.movies }

func (c *Controller) TotalPages() int {
	if c.last == nil {
		return 0
	}
	return c.last.TotalPages
}

func (c *Controller) TotalResults() int {
	if c.last == nil {
		return 0
	}
	return c.last.TotalResults
}

// Pages is the pagination window for the current result page.
func (c *Controller) Pages() []int {
	return Window(c.page, c.TotalPages())
}

// ErrorMessage is the user-facing text for the last failure, or "".
func (c *Controller) ErrorMessage() string {
	if c.err == nil {
		return ""
	}
	return errorMessage
}

func (c *Controller) GenreName(id int) string {
	if name, ok := c.genres[id]; ok {
		return name
	}
	return UnknownGenre
}

func (c *Controller) GenreNames(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, c.GenreName(id))
	}
	return names
}

func (c *Controller) Detail() (catalog.Movie, bool) {
	if c.detail == nil {
		return catalog.Movie{}, false
	}
	return *c.detail, true
}

func (c *Controller) DetailLoading() bool { return c.detailLoading }

func (c *Controller) DetailErrorMessage() string {
	if c.detailErr == nil {
		return ""
	}
	return detailError
}

// Kind names the failure class of err for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, catalog.ErrValidation):
		return "validation"
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, catalog.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "unknown"
}
