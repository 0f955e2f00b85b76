package web

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/handsomefox/movie-explorer/internal/media"
)

func TestDistContainsPlaceholders(t *testing.T) {
	dist, err := Dist()
	if err != nil {
		t.Fatalf("Dist: %v", err)
	}
	for _, p := range []string{"index.html", media.PosterPlaceholder, media.BackdropPlaceholder} {
		if _, err := fs.Stat(dist, strings.TrimPrefix(p, "/")); err != nil {
			t.Fatalf("missing embedded asset %s: %v", p, err)
		}
	}
}
