package surface

import (
	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON exports the surface as a FeatureCollection at zoom.
//
// Every cluster becomes one Point feature at its center with properties
// cluster=true, cluster_id, point_count, badge and badge_size. Every marker
// not absorbed by a cluster becomes a Point feature with id, label, icon and
// opacity properties.
//
// Returns:
//   - []byte: Encoded FeatureCollection
//   - error: Encoding error
func (m *Memory) GeoJSON(zoom int) ([]byte, error) {
	return m.FeatureCollection(zoom).MarshalJSON()
}

// FeatureCollection builds the collection GeoJSON encodes.
func (m *Memory) FeatureCollection(zoom int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	clustered := make(map[string]struct{})
	for _, g := range m.Clusters(zoom) {
		f := geojson.NewPointFeature([]float64{g.Center.Lng, g.Center.Lat})
		f.SetProperty("cluster", true)
		f.SetProperty("cluster_id", g.ID)
		f.SetProperty("point_count", g.Count)
		f.SetProperty("badge", g.Badge.Bucket.String())
		f.SetProperty("badge_size", g.Badge.SizePx)
		f.SetProperty("bbox", []float64{g.Bounds.West, g.Bounds.South, g.Bounds.East, g.Bounds.North})
		fc.AddFeature(f)

		for _, id := range g.MemberIDs {
			clustered[id] = struct{}{}
		}
	}

	for _, mk := range m.Markers() {
		if _, ok := clustered[mk.ID]; ok {
			continue
		}
		f := geojson.NewPointFeature([]float64{mk.Position.Lng, mk.Position.Lat})
		f.SetProperty("cluster", false)
		f.SetProperty("id", mk.ID)
		f.SetProperty("label", mk.Label)
		f.SetProperty("icon", mk.Icon.Variant)
		f.SetProperty("opacity", mk.Opacity)
		fc.AddFeature(f)
	}

	return fc
}
