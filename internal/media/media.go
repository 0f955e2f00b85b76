// Package media builds TMDB image URLs from the relative paths in movie payloads.
package media

import "strings"

const (
	DefaultBase = "https://image.tmdb.org/t/p"

	PosterPlaceholder   = "/images/no-poster.svg"
	BackdropPlaceholder = "/images/no-backdrop.svg"
)

// Tier selects the image size for where the image is rendered.
type Tier int

const (
	TierListing Tier = iota
	TierDetail
)

var (
	posterSizes   = map[Tier]string{TierListing: "w342", TierDetail: "w500"}
	backdropSizes = map[Tier]string{TierListing: "w780", TierDetail: "w1280"}
)

// Resolver is a pure function of its inputs; URLs are rebuilt on every call.
type Resolver struct {
	Base string
}

func (r Resolver) Poster(path string, tier Tier) string {
	return r.resolve(path, posterSizes, tier, PosterPlaceholder)
}

func (r Resolver) Backdrop(path string, tier Tier) string {
	return r.resolve(path, backdropSizes, tier, BackdropPlaceholder)
}

func (r Resolver) resolve(path string, sizes map[Tier]string, tier Tier, placeholder string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return placeholder
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	size, ok := sizes[tier]
	if !ok {
		size = sizes[TierListing]
	}
	base := strings.TrimRight(r.Base, "/")
	if base == "" {
		base = DefaultBase
	}
	return base + "/" + size + path
}
