// Package catalog holds the movie types and error kinds shared by the gateway,
// the HTTP surface and the browse client.
package catalog

import "errors"

var (
	// ErrValidation marks a request rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamUnavailable covers non-success statuses, transport failures and timeouts.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrMalformedResponse marks a success status with a body that does not decode.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrNotFound marks a single movie lookup the upstream does not know.
	ErrNotFound = errors.New("not found")
)

// Movie is a movie summary as listed by search and the discovery endpoints.
// Genres and Runtime are only filled for single-movie lookups.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids"`
	Genres           []Genre `json:"genres"`
	Runtime          *int    `json:"runtime"`
	OriginalLanguage string  `json:"original_language"`
}

// Genre pairs an upstream genre id with its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Page is one page of movie results. Page may exceed TotalPages when a
// request overshoots; Results is then empty.
type Page struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Normalize replaces nil slices with empty ones so that the page always
// encodes as a list.
func (p *Page) Normalize() {
	if p.Results == nil {
		p.Results = []Movie{}
	}
	for i := range p.Results {
		p.Results[i].Normalize()
	}
}

// Normalize replaces nil genre slices with empty ones.
func (m *Movie) Normalize() {
	if m.GenreIDs == nil {
		m.GenreIDs = []int{}
	}
	if m.Genres == nil {
		m.Genres = []Genre{}
	}
}

// Mode is the active browse flavour; exactly one is active per session.
type Mode int

const (
	ModePopular Mode = iota
	ModeSearch
	ModeNowPlaying
)

func (m Mode) String() string {
	switch m {
	case ModePopular:
		return "popular"
	case ModeSearch:
		return "search"
	case ModeNowPlaying:
		return "now-playing"
	}
	return "unknown"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	switch m {
	case ModePopular, ModeSearch, ModeNowPlaying:
		return true
	}
	return false
}
