package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handsomefox/movie-explorer/internal/catalog"
	"github.com/handsomefox/movie-explorer/internal/format"
	"github.com/handsomefox/movie-explorer/internal/media"
)

func (m Model) View() string {
	if m.showDetail {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Movie Explorer"))
	b.WriteString("  ")
	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewBody())
	b.WriteString("\n")
	b.WriteString(m.viewPager())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusBarText.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := []struct {
		mode  catalog.Mode
		label string
	}{
		{catalog.ModePopular, "Popular"},
		{catalog.ModeNowPlaying, "Now Playing"},
		{catalog.ModeSearch, "Search"},
	}
	out := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := tabStyle
		if t.mode == m.ctrl.Mode() {
			style = activeTab
		}
		out = append(out, style.Render(t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewBody() string {
	if m.ctrl.Inflight() {
		return m.spinner.View() + " Loading movies..."
	}
	if msg := m.ctrl.ErrorMessage(); msg != "" {
		return errorStyle.Render(msg) + mutedStyle.Render("  (r to retry)")
	}
	movies := m.ctrl.Movies()
	if len(movies) == 0 {
		if m.ctrl.Mode() == catalog.ModeSearch {
			return mutedStyle.Render(fmt.Sprintf("No movies found for %q.", m.ctrl.Query()))
		}
		return mutedStyle.Render("No movies found.")
	}

	end := min(m.list.offset+m.visibleRows(), len(movies))
	rows := make([]string, 0, 2*(end-m.list.offset))
	for i := m.list.offset; i < end; i++ {
		rows = append(rows, m.viewRow(movies[i], i == m.list.cursor)...)
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewRow(movie catalog.Movie, selected bool) []string {
	prefix := "  "
	title := movie.Title
	if year := format.Year(movie.ReleaseDate); year != "" {
		title += " (" + year + ")"
	}
	title = format.Truncate(title, max(m.width-16, 20))
	if selected {
		prefix = cursorStyle.Render("> ")
		title = cursorStyle.Render(title)
	}
	genres := strings.Join(m.ctrl.GenreNames(movie.GenreIDs), ", ")
	return []string{
		prefix + title + "  " + renderRating(movie.VoteAverage),
		"    " + mutedStyle.Render(format.Truncate(genres, max(m.width-6, 20))),
	}
}

func (m Model) viewPager() string {
	pages := m.ctrl.Pages()
	if len(pages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		label := strconv.Itoa(p)
		if p == m.ctrl.Page() {
			label = currentPage.Render(label)
		}
		parts = append(parts, label)
	}
	summary := fmt.Sprintf("  page %d of %d, %d results", m.ctrl.Page(), m.ctrl.TotalPages(), m.ctrl.TotalResults())
	return strings.Join(parts, " ") + mutedStyle.Render(summary)
}

func (m Model) viewDetail() string {
	if m.ctrl.DetailLoading() {
		return m.spinner.View() + " Loading details..."
	}
	if msg := m.ctrl.DetailErrorMessage(); msg != "" {
		return errorStyle.Render(msg) + mutedStyle.Render("  (r to retry, esc to go back)")
	}
	movie, ok := m.ctrl.Detail()
	if !ok {
		return ""
	}

	names := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		names = append(names, g.Name)
	}
	genres := strings.Join(names, ", ")
	if genres == "" {
		genres = strings.Join(m.ctrl.GenreNames(movie.GenreIDs), ", ")
	}

	title := movie.Title
	if year := format.Year(movie.ReleaseDate); year != "" {
		title += " (" + year + ")"
	}
	width := max(m.width-4, 30)
	lines := []string{
		titleStyle.Render(title),
		renderRating(movie.VoteAverage) + mutedStyle.Render(fmt.Sprintf("  %d votes  %s", movie.VoteCount, format.Runtime(movie.Runtime))),
		mutedStyle.Render(genres),
		"",
		lipgloss.NewStyle().Width(width - 4).Render(movie.Overview),
		"",
		mutedStyle.Render("Poster:   " + m.images.Poster(movie.PosterPath, media.TierDetail)),
		mutedStyle.Render("Backdrop: " + m.images.Backdrop(movie.BackdropPath, media.TierDetail)),
	}
	return detailBox.Width(width).Render(strings.Join(lines, "\n")) + "\n" + mutedStyle.Render("esc to go back")
}
