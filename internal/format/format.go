// Package format renders movie fields for display.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

type RatingTier int

const (
	RatingNone RatingTier = iota
	RatingLow
	RatingMid
	RatingHigh
)

func Rating(avg float64) string {
	if avg <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

func TierOf(avg float64) RatingTier {
	switch {
	case avg <= 0:
		return RatingNone
	case avg >= 7.5:
		return RatingHigh
	case avg >= 6.0:
		return RatingMid
	default:
		return RatingLow
	}
}

// Runtime formats minutes as "2h 16m"; nil or zero is "Unknown".
func Runtime(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%dh %dm", *minutes/60, *minutes%60)
}

// Year returns the leading year of a release date, or "" when it has none.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
