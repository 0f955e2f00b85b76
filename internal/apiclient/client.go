// Package apiclient calls the movie explorer backend over HTTP.
package apiclient

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

	"github.com/google/uuid"

	"github.com/handsomefox/movie-explorer/internal/catalog"
)

const (
	basePath       = "/api/movies"
	requestIDKey   = "X-Request-Id"
	defaultTimeout = 15 * time.Second
)

type Client struct {
	baseURL string
	http    *http.Client
}

type errorResponse struct {
	Error string `json:"error"`
}

// New returns a client for the backend at baseURL (scheme and host, without
// the /api/movies prefix).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Search(ctx context.Context, query string, page int) (catalog.Page, error) {
	if strings.TrimSpace(query) == "" {
		return catalog.Page{}, fmt.Errorf("%w: search query is required", catalog.ErrValidation)
	}
	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(page))
	return c.page(ctx, "/search", values)
}

func (c *Client) Popular(ctx context.Context, page int) (catalog.Page, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	return c.page(ctx, "/popular", values)
}

func (c *Client) NowPlaying(ctx context.Context, page int) (catalog.Page, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	return c.page(ctx, "/now-playing", values)
}

func (c *Client) Movie(ctx context.Context, id int) (catalog.Movie, error) {
	var movie catalog.Movie
	if err := c.get(ctx, "/"+strconv.Itoa(id), nil, &movie); err != nil {
		return catalog.Movie{}, err
	}
	movie.Normalize()
	return movie, nil
}

func (c *Client) Genres(ctx context.Context) ([]catalog.Genre, error) {
	var genres []catalog.Genre
	if err := c.get(ctx, "/genres", nil, &genres); err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []catalog.Genre{}
	}
	return genres, nil
}

func (c *Client) page(ctx context.Context, path string, values url.Values) (catalog.Page, error) {
	var p catalog.Page
	if err := c.get(ctx, path, values, &p); err != nil {
		return catalog.Page{}, err
	}
	p.Normalize()
	return p, nil
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dst any) error {
	endpoint := c.baseURL + basePath + path
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", catalog.ErrUpstreamUnavailable, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDKey, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrUpstreamUnavailable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("close response body failed", slog.String("request_id", requestID), slog.Any("err", cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		msg := readError(resp.Body)
		slog.Debug("backend returned error",
			slog.String("request_id", requestID),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg))
		if resp.StatusCode == http.StatusBadRequest {
			return fmt.Errorf("%w: %s", catalog.ErrValidation, msg)
		}
		return fmt.Errorf("%w: %s: %s", catalog.ErrUpstreamUnavailable, resp.Status, msg)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", catalog.ErrMalformedResponse, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after json body", catalog.ErrMalformedResponse)
	}
	return nil
}

func readError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil {
		return ""
	}
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// IsValidation reports whether err was a rejected request rather than an outage.
func IsValidation(err error) bool {
	return errors.Is(err, catalog.ErrValidation)
}
