package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/handsomefox/movie-explorer/internal/browse"
	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/format"
	"github.com/handsomefox/movie-explorer/internal/media"
)

type listKind int

const (
	listPopular listKind = iota
	listNowPlaying
	listSearch
)

func newSearchCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printList(cmd.Context(), listSearch, strings.Join(args, " "), page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

func newPopularCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printList(cmd.Context(), listPopular, "", page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

func newNowPlayingCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "now-playing",
		Short: "List movies now in theaters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printList(cmd.Context(), listNowPlaying, "", page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	return cmd
}

func newGenresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List movie genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			genres, err := a.client.Genres(cmd.Context())
			if err != nil {
				return describe(err)
			}
			for _, g := range genres {
				fmt.Fprintf(a.out, "%6d  %s\n", g.ID, g.Name)
			}
			return nil
		},
	}
}

func newMovieCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "movie [id]",
		Short: "Show details for one movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return fmt.Errorf("movie id must be a positive integer, got %q", args[0])
			}
			movie, err := a.client.Movie(cmd.Context(), id)
			if err != nil {
				return describe(err)
			}
			printMovie(a.out, movie, a.images)
			return nil
		},
	}
}

// printList fetches one page through a browse controller, so plain output
// gets the same genre lookup and page handling as the interactive view. The
// genre lookup and the page are fetched concurrently.
func (a *app) printList(ctx context.Context, kind listKind, query string, page int) error {
	if page < 1 {
		return fmt.Errorf("page must be a positive integer, got %d", page)
	}
	ctrl := browse.New(a.client, browse.WithLogger(slog.New(slog.DiscardHandler)))

	var genres, req browse.Request
	for _, r := range ctrl.Mount() {
		if r.Kind == browse.KindGenres {
			genres = r
		} else {
			req = r
		}
	}

	switch kind {
	case listSearch:
		r, err := ctrl.SubmitSearch(query)
		if err != nil {
			return err
		}
		req = r
	case listNowPlaying:
		req = ctrl.SelectNowPlaying()
	}
	if r, ok := ctrl.GoToPage(page); ok {
		req = r
	}

	p := pool.NewWithResults[browse.Result]().WithMaxGoroutines(2)
	for _, r := range []browse.Request{genres, req} {
		p.Go(func() browse.Result { return ctrl.Fetch(ctx, r) })
	}
	for _, res := range p.Wait() {
		ctrl.Apply(res)
	}

	if err := ctrl.Err(); err != nil {
		return describe(err)
	}
	printPage(a.out, ctrl)
	return nil
}

func printPage(w io.Writer, ctrl *browse.Controller) {
	movies := ctrl.Movies()
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return
	}
	for i, m := range movies {
		title := m.Title
		if year := format.Year(m.ReleaseDate); year != "" {
			title += " (" + year + ")"
		}
		fmt.Fprintf(w, "%2d. %-60s %5s  #%d\n", i+1, format.Truncate(title, 60), format.Rating(m.VoteAverage), m.ID)
		fmt.Fprintf(w, "    %s\n", strings.Join(ctrl.GenreNames(m.GenreIDs), ", "))
	}

	pages := make([]string, 0, len(ctrl.Pages()))
	for _, p := range ctrl.Pages() {
		if p == ctrl.Page() {
			pages = append(pages, "["+strconv.Itoa(p)+"]")
			continue
		}
		pages = append(pages, strconv.Itoa(p))
	}
	fmt.Fprintf(w, "\n%s  page %d of %d, %d results\n",
		strings.Join(pages, " "), ctrl.Page(), ctrl.TotalPages(), ctrl.TotalResults())
}

func printMovie(w io.Writer, m catalog.Movie, images media.Resolver) {
	title := m.Title
	if year := format.Year(m.ReleaseDate); year != "" {
		title += " (" + year + ")"
	}
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	genres := strings.Join(names, ", ")
	if genres == "" {
		genres = browse.UnknownGenre
	}

	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "Rating:   %s (%d votes)\n", format.Rating(m.VoteAverage), m.VoteCount)
	fmt.Fprintf(w, "Runtime:  %s\n", format.Runtime(m.Runtime))
	fmt.Fprintf(w, "Genres:   %s\n", genres)
	fmt.Fprintf(w, "Poster:   %s\n", images.Poster(m.PosterPath, media.TierDetail))
	fmt.Fprintf(w, "Backdrop: %s\n", images.Backdrop(m.BackdropPath, media.TierDetail))
	if overview := strings.TrimSpace(m.Overview); overview != "" {
		fmt.Fprintf(w, "\n%s\n", overview)
	}
}

// describe turns a catalog error into a message fit for the terminal.
func describe(err error) error {
	switch browse.Kind(err) {
	case "validation":
		return fmt.Errorf("request rejected: %w", err)
	case "malformed_response":
		return fmt.Errorf("backend returned an unreadable response: %w", err)
	case "canceled":
		return err
	}
	return fmt.Errorf("could not reach the movie backend: %w", err)
}
