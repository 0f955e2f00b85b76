package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/handsomefox/movie-explorer/internal/catalog"
)

type fakeGateway struct {
	lastQuery string
	lastPage  int
	lastID    int
	calls     int
	err       error
}

func (g *fakeGateway) page(page int) (catalog.Page, error) {
	g.calls++
	g.lastPage = page
	if g.err != nil {
		return catalog.Page{}, g.err
	}
	p := catalog.Page{Results: []catalog.Movie{{ID: 1, Title: "Heat"}}, Page: page, TotalPages: 3, TotalResults: 41}
	p.Normalize()
	return p, nil
}

func (g *fakeGateway) SearchMovies(_ context.Context, query string, page int) (catalog.Page, error) {
	g.lastQuery = query
	return g.page(page)
}

func (g *fakeGateway) Popular(_ context.Context, page int) (catalog.Page, error) {
	return g.page(page)
}

func (g *fakeGateway) NowPlaying(_ context.Context, page int) (catalog.Page, error) {
	return g.page(page)
}

func (g *fakeGateway) Movie(_ context.Context, id int) (catalog.Movie, error) {
	g.calls++
	g.lastID = id
	if g.err != nil {
		return catalog.Movie{}, g.err
	}
	runtime := 170
	return catalog.Movie{ID: id, Title: "Heat", Runtime: &runtime}, nil
}

func (g *fakeGateway) Genres(context.Context) ([]catalog.Genre, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []catalog.Genre{{ID: 80, Name: "Crime"}}, nil
}

func newTestRouter(t *testing.T, gw *fakeGateway) http.Handler {
	t.Helper()
	h, err := New(&Config{Gateway: gw})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	router, err := NewRouter(h, RouterOptions{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		CORSOrigins: []string{"http://localhost:4200"},
		Static: fstest.MapFS{
			"index.html":             {Data: []byte("<html>index</html>")},
			"images/no-poster.svg":   {Data: []byte("<svg/>")},
			"images/no-backdrop.svg": {Data: []byte("<svg/>")},
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return router
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestNewRequiresGateway(t *testing.T) {
	if _, err := New(&Config{}); err == nil {
		t.Fatal("expected error without gateway")
	}
}

func TestSearch(t *testing.T) {
	gw := &fakeGateway{}
	router := newTestRouter(t, gw)

	rec := do(t, router, "/api/movies/search?query=%20heat%20&page=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gw.lastQuery != "heat" || gw.lastPage != 2 {
		t.Fatalf("unexpected gateway call: query=%q page=%d", gw.lastQuery, gw.lastPage)
	}
	body := rec.Body.String()
	for _, key := range []string{`"results"`, `"total_pages":3`, `"total_results":41`, `"genre_ids":[]`, `"poster_path"`} {
		if !strings.Contains(body, key) {
			t.Fatalf("missing %s in %s", key, body)
		}
	}
}

func TestSearchDefaultsPageToOne(t *testing.T) {
	gw := &fakeGateway{}
	rec := do(t, newTestRouter(t, gw), "/api/movies/search?query=heat")
	if rec.Code != http.StatusOK || gw.lastPage != 1 {
		t.Fatalf("expected page 1, got status %d page %d", rec.Code, gw.lastPage)
	}
}

func TestSearchValidation(t *testing.T) {
	for _, target := range []string{
		"/api/movies/search",
		"/api/movies/search?query=",
		"/api/movies/search?query=%20%20",
		"/api/movies/search?query=heat&page=0",
		"/api/movies/search?query=heat&page=abc",
	} {
		gw := &fakeGateway{}
		rec := do(t, newTestRouter(t, gw), target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		if gw.calls != 0 {
			t.Fatalf("%s: gateway must not be called", target)
		}
	}
}

func TestListEndpoints(t *testing.T) {
	for _, target := range []string{"/api/movies/popular?page=3", "/api/movies/now-playing?page=3"} {
		gw := &fakeGateway{}
		rec := do(t, newTestRouter(t, gw), target)
		if rec.Code != http.StatusOK || gw.lastPage != 3 {
			t.Fatalf("%s: status %d page %d", target, rec.Code, gw.lastPage)
		}
	}
}

func TestGenres(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeGateway{}), "/api/movies/genres")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var genres []catalog.Genre
	if err := json.NewDecoder(rec.Body).Decode(&genres); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Crime" {
		t.Fatalf("unexpected genres %+v", genres)
	}
}

func TestMovie(t *testing.T) {
	gw := &fakeGateway{}
	router := newTestRouter(t, gw)

	rec := do(t, router, "/api/movies/949")
	if rec.Code != http.StatusOK || gw.lastID != 949 {
		t.Fatalf("expected movie 949, got status %d id %d", rec.Code, gw.lastID)
	}
	if !strings.Contains(rec.Body.String(), `"runtime":170`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	for _, target := range []string{"/api/movies/abc", "/api/movies/-4", "/api/movies/0"} {
		rec := do(t, router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestGatewayFailuresAreGeneric500(t *testing.T) {
	for _, gwErr := range []error{
		fmt.Errorf("%w: tmdb popular movies: 503 Service Unavailable", catalog.ErrUpstreamUnavailable),
		fmt.Errorf("%w: tmdb movie details: 404 Not Found", catalog.ErrNotFound),
		fmt.Errorf("%w: tmdb genres: invalid character", catalog.ErrMalformedResponse),
		errors.New("something else"),
	} {
		gw := &fakeGateway{err: gwErr}
		router := newTestRouter(t, gw)
		for _, target := range []string{
			"/api/movies/popular",
			"/api/movies/now-playing",
			"/api/movies/search?query=x",
			"/api/movies/genres",
			"/api/movies/999999",
		} {
			rec := do(t, router, target)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("%s with %v: expected 500, got %d", target, gwErr, rec.Code)
			}
			msg := decodeError(t, rec)
			if !strings.HasPrefix(msg, "An error occurred") || strings.Contains(msg, "tmdb") {
				t.Fatalf("%s: expected generic message, got %q", target, msg)
			}
		}
	}
}

func TestGatewayValidationIsFixed400(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("%w: tmdb search movies: query=secret internal detail", catalog.ErrValidation)}
	router := newTestRouter(t, gw)
	for _, target := range []string{"/api/movies/search?query=x", "/api/movies/popular", "/api/movies/603"} {
		rec := do(t, router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		if msg := decodeError(t, rec); msg != invalidRequest {
			t.Fatalf("%s: expected fixed message, got %q", target, msg)
		}
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeGateway{}), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestStaticAndFallback(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})

	rec := do(t, router, "/images/no-poster.svg")
	if rec.Code != http.StatusOK || rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected cached placeholder, got %d %v", rec.Code, rec.Header())
	}

	rec = do(t, router, "/movie/603")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "index") {
		t.Fatalf("expected index fallback, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, "/api/unknown")
	if rec.Code != http.StatusNotFound || decodeError(t, rec) != "not found" {
		t.Fatalf("expected json 404, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{})
	req := httptest.NewRequest(http.MethodOptions, "/api/movies/popular", http.NoBody)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestAdaptHidesUnexpectedErrors(t *testing.T) {
	h := Adapt(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("db password is hunter2")
	})
	rec := do(t, h, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); strings.Contains(msg, "hunter2") {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
