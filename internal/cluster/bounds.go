package cluster

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/arloliu/pinmark/types"
)

// BoundsOf returns the bounding box of positions.
//
// Returns:
//   - types.Bounds: Envelope of all positions (X = longitude, Y = latitude)
//   - bool: false if positions holds no finite coordinate
func BoundsOf(positions []types.LatLng) (types.Bounds, bool) {
	var env geom.Envelope
	for _, p := range positions {
		next, err := env.ExtendToIncludeXY(geom.XY{X: p.Lng, Y: p.Lat})
		if err != nil {
			// non-finite coordinate; sanitized points never get here
			continue
		}
		env = next
	}

	minXY, maxXY, ok := env.MinMaxXYs()
	if !ok {
		return types.Bounds{}, false
	}

	return types.Bounds{
		South: minXY.Y,
		West:  minXY.X,
		North: maxXY.Y,
		East:  maxXY.X,
	}, true
}
