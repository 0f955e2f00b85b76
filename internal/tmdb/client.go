// Package tmdb wraps the TMDB API for movie search, discovery lists and genres.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/logger"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
	DefaultTimeout  = 10 * time.Second
)

type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is the only holder of the TMDB credential. It carries no mutable
// state, so concurrent calls are safe.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

type call struct {
	op     string
	path   string
	values url.Values
	// notFound reports 404 as catalog.ErrNotFound instead of an outage.
	notFound bool
}

type genreListResponse struct {
	Genres []catalog.Genre `json:"genres"`
}

func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tmdb base url: %w", err)
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = DefaultLanguage
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: language,
		http:     httpClient,
	}, nil
}

func (c *Client) SearchMovies(ctx context.Context, query string, page int) (catalog.Page, error) {
	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, call{op: "search movies", path: "search/movie", values: values})
}

func (c *Client) Popular(ctx context.Context, page int) (catalog.Page, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, call{op: "popular movies", path: "movie/popular", values: values})
}

func (c *Client) NowPlaying(ctx context.Context, page int) (catalog.Page, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalizePage(page)))
	return c.fetchPage(ctx, call{op: "now playing movies", path: "movie/now_playing", values: values})
}

func (c *Client) Movie(ctx context.Context, id int) (catalog.Movie, error) {
	var movie catalog.Movie
	cl := call{op: "movie details", path: fmt.Sprintf("movie/%d", id), notFound: true}
	if err := c.getJSON(ctx, cl, &movie); err != nil {
		return catalog.Movie{}, err
	}
	movie.Normalize()
	return movie, nil
}

func (c *Client) Genres(ctx context.Context) ([]catalog.Genre, error) {
	var payload genreListResponse
	if err := c.getJSON(ctx, call{op: "movie genres", path: "genre/movie/list"}, &payload); err != nil {
		return nil, err
	}
	if payload.Genres == nil {
		return []catalog.Genre{}, nil
	}
	return payload.Genres, nil
}

func (c *Client) fetchPage(ctx context.Context, cl call) (catalog.Page, error) {
	var payload catalog.Page
	if err := c.getJSON(ctx, cl, &payload); err != nil {
		return catalog.Page{}, err
	}
	payload.Normalize()
	slog.DebugContext(ctx, "tmdb page fetched",
		slog.String("op", cl.op),
		slog.Int("page", payload.Page),
		slog.Int("results", len(payload.Results)))
	return payload, nil
}

// getJSON issues exactly one GET and decodes the body into dst. Errors are
// reported in catalog terms and never contain the request URL.
func (c *Client) getJSON(ctx context.Context, cl call, dst any) error {
	op := cl.op
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(cl.path, cl.values), http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: tmdb %s: build request", catalog.ErrUpstreamUnavailable, op)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		err = redact(err)
		slog.WarnContext(ctx, "tmdb request failed", slog.String("op", op), logger.Error(err))
		return fmt.Errorf("%w: tmdb %s: %w", catalog.ErrUpstreamUnavailable, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := statusError(ctx, cl, resp)
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(statusErr, cerr)
		}
		return statusErr
	}

	if err := decodeJSON(resp.Body, dst); err != nil {
		decodeErr := fmt.Errorf("%w: tmdb %s: %w", catalog.ErrMalformedResponse, op, err)
		if errors.Is(err, io.EOF) {
			decodeErr = fmt.Errorf("%w: tmdb %s: empty body", catalog.ErrMalformedResponse, op)
		}
		slog.WarnContext(ctx, "tmdb decode failed", slog.String("op", op), logger.Error(err))
		if cerr := resp.Body.Close(); cerr != nil {
			return errors.Join(decodeErr, cerr)
		}
		return decodeErr
	}
	return resp.Body.Close()
}

// decodeJSON decodes exactly one JSON value; trailing data is an error.
func decodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected trailing json")
		}
		return fmt.Errorf("trailing data: %w", err)
	}
	return nil
}

func statusError(ctx context.Context, cl call, resp *http.Response) error {
	// Body is not read into the error: TMDB echoes request details there.
	slog.WarnContext(ctx, "tmdb returned error status", slog.String("op", cl.op), slog.Int("status", resp.StatusCode))
	if cl.notFound && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: tmdb %s: %s", catalog.ErrNotFound, cl.op, resp.Status)
	}
	return fmt.Errorf("%w: tmdb %s: %s", catalog.ErrUpstreamUnavailable, cl.op, resp.Status)
}

func (c *Client) endpoint(path string, values url.Values) string {
	q := url.Values{}
	for k, v := range values {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	return c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()
}

// redact strips the *url.Error wrapper, whose message embeds the full URL
// including the api_key parameter.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%s: timeout", urlErr.Op)
		}
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
