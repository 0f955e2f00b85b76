// Package web embeds the static client assets served by the gateway, including
// the poster and backdrop placeholders.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist
var dist embed.FS

func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}
