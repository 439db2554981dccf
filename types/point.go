package types

import (
	"fmt"
	"math"
)

// LatLng is a WGS84 coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Validate reports whether the coordinate is finite and inside the WGS84 range.
//
// Returns:
//   - error: ErrInvalidCoordinates (wrapped with the offending values), nil if valid
func (c LatLng) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidCoordinates, c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: lat=%v lng=%v out of range", ErrInvalidCoordinates, c.Lat, c.Lng)
	}

	return nil
}

// Point is a single geographic item with a stable identity.
//
// Points are owned by the external data source. The engine copies and reads
// them but never mutates them.
type Point struct {
	// ID uniquely and stably identifies the point across updates.
	ID string `json:"id" yaml:"id"`

	// Position is the point location. A nil Position means the source did not
	// provide coordinates; such points are skipped during reconciliation.
	Position *LatLng `json:"position,omitempty" yaml:"position,omitempty"`

	// Label is a human-readable caption shown with the marker.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Validate checks that the point can be rendered.
//
// Returns:
//   - error: ErrEmptyPointID, ErrMissingCoordinates or ErrInvalidCoordinates; nil if valid
func (p Point) Validate() error {
	if p.ID == "" {
		return ErrEmptyPointID
	}
	if p.Position == nil {
		return fmt.Errorf("point %q: %w", p.ID, ErrMissingCoordinates)
	}
	if err := p.Position.Validate(); err != nil {
		return fmt.Errorf("point %q: %w", p.ID, err)
	}

	return nil
}

// Clone returns a deep copy of the point so callers may keep mutating their input.
func (p Point) Clone() Point {
	out := p
	if p.Position != nil {
		pos := *p.Position
		out.Position = &pos
	}

	return out
}

// At is a convenience constructor for a point with coordinates.
func At(id string, lat, lng float64, label string) Point {
	return Point{ID: id, Position: &LatLng{Lat: lat, Lng: lng}, Label: label}
}
