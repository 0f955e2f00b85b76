package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/handsomefox/movie-explorer/internal/format"
)

var (
	colorAccent = lipgloss.Color("#F5C518")
	colorMuted  = lipgloss.Color("#6C7086")
	colorError  = lipgloss.Color("#F38BA8")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeTab     = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#1E1E2E")).Background(colorAccent)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	currentPage   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	detailBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	statusBarText = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	ratingStyles = map[format.RatingTier]lipgloss.Style{
		format.RatingNone: lipgloss.NewStyle().Foreground(colorMuted),
		format.RatingLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		format.RatingMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		format.RatingHigh: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	}
)

func renderRating(avg float64) string {
	return ratingStyles[format.TierOf(avg)].Render("★ " + format.Rating(avg))
}
