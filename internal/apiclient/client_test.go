package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/handsomefox/movie-explorer/internal/catalog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost", "://x"} {
		if _, err := New(raw, 0); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSearchSendsQueryAndRequestID(t *testing.T) {
	var gotPath, gotQuery, gotPage, gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotPage = r.URL.Query().Get("page")
		gotID = r.Header.Get(requestIDKey)
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"Heat","genre_ids":[80]}],"page":2,"total_pages":3,"total_results":41}`))
	})

	page, err := c.Search(context.Background(), "heat", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/api/movies/search" || gotQuery != "heat" || gotPage != "2" {
		t.Fatalf("unexpected request: %s query=%q page=%q", gotPath, gotQuery, gotPage)
	}
	if gotID == "" {
		t.Fatal("expected request id header")
	}
	if page.Page != 2 || page.TotalPages != 3 || len(page.Results) != 1 || page.Results[0].Title != "Heat" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestSearchBlankQueryNeverLeavesClient(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	if _, err := c.Search(context.Background(), "  ", 1); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Fatal("blank query must not reach the backend")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad request", http.StatusBadRequest, `{"error":"query is required"}`, catalog.ErrValidation},
		{"server error", http.StatusInternalServerError, `{"error":"An error occurred"}`, catalog.ErrUpstreamUnavailable},
		{"bad gateway text", http.StatusBadGateway, `oops`, catalog.ErrUpstreamUnavailable},
		{"malformed", http.StatusOK, `{"results":`, catalog.ErrMalformedResponse},
		{"trailing data", http.StatusOK, `{"results":[],"page":1}<html>oops</html>`, catalog.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Popular(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMovieAndGenres(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/movies/603":
			_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136}`))
		case "/api/movies/genres":
			_, _ = w.Write([]byte(`[{"id":28,"name":"Action"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	movie, err := c.Movie(context.Background(), 603)
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}
	if movie.Title != "The Matrix" || movie.Runtime == nil || *movie.Runtime != 136 || movie.GenreIDs == nil {
		t.Fatalf("unexpected movie %+v", movie)
	}

	genres, err := c.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Action" {
		t.Fatalf("unexpected genres %+v", genres)
	}
}

func TestNowPlayingEmptyPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/movies/now-playing" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	})
	page, err := c.NowPlaying(context.Background(), 1)
	if err != nil {
		t.Fatalf("NowPlaying: %v", err)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("expected empty results, got %#v", page.Results)
	}
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()
	c, err := New(base, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Popular(context.Background(), 1); !errors.Is(err, catalog.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
