package types

import (
	"fmt"
	"html"
)

// Bounds is a geographic bounding box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() LatLng {
	return LatLng{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
}

// BadgeBucket is the discrete size class of a cluster badge.
type BadgeBucket int

const (
	// BadgeSmall is used for fewer than 10 members (by default).
	BadgeSmall BadgeBucket = iota
	// BadgeMedium is used for fewer than 30 members (by default).
	BadgeMedium
	// BadgeLarge is used for fewer than 100 members (by default).
	BadgeLarge
	// BadgeExtraLarge is used for 100 members or more (by default).
	BadgeExtraLarge
)

// String returns the string representation of the bucket.
func (b BadgeBucket) String() string {
	switch b {
	case BadgeSmall:
		return "small"
	case BadgeMedium:
		return "medium"
	case BadgeLarge:
		return "large"
	case BadgeExtraLarge:
		return "extra-large"
	default:
		return "unknown"
	}
}

// Badge is the rendered appearance of a cluster.
type Badge struct {
	Bucket     BadgeBucket
	SizePx     int
	FontSizePx int
	Label      string
	Fill       string
	Stroke     string
	TextColor  string
	Theme      Theme
}

// ClusterGroup is a derived aggregate computed by the clustering layer.
//
// It is never stored by the engine.
type ClusterGroup struct {
	ID        uint64
	Bounds    Bounds
	Center    LatLng
	MemberIDs []string
	Count     int
	Badge     Badge
}

// SVG renders the badge as a standalone SVG document: a stroked circle with
// the label centered on it.
func (b Badge) SVG() string {
	r := b.SizePx/2 - 1
	if r < 1 {
		r = 1
	}
	c := b.SizePx / 2

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="2"/>`+
		`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="central" font-size="%d" font-weight="bold" fill="%s">%s</text>`+
		`</svg>`,
		b.SizePx, b.SizePx, b.SizePx, b.SizePx,
		c, c, r, b.Fill, b.Stroke,
		b.FontSizePx, b.TextColor, html.EscapeString(b.Label))
}
