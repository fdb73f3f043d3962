// Package geo holds the GeoJSON geometry model and the coordinate codec.
package geo

// Geometry is a typed GeoJSON geometry. Coordinates is nil for a
// GeometryCollection, whose members are kept in Geometries.
type Geometry struct {
	Coordinates Coordinates
	Geometries  []Geometry
	Type        GeometryType
}

// Feature is a GeoJSON Feature. ID is nil, a string or a float64.
type Feature struct {
	ID         any
	Geometry   *Geometry
	Properties map[string]any
	BBox       []float64
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	BBox     []float64
	Features []Feature
}

// Project converts the geometry into host containers.
func (g Geometry) Project(shape Shape) map[string]any {
	out := map[string]any{"type": g.Type.String()}
	if g.Type == TypeGeometryCollection {
		geoms := make([]any, len(g.Geometries))
		for i, child := range g.Geometries {
			geoms[i] = child.Project(shape)
		}
		out["geometries"] = geoms
		return out
	}

	out["coordinates"] = Project(g.Coordinates, shape)
	return out
}

// Project converts the feature into host containers. Members that were
// absent from the input are left out.
func (f Feature) Project(shape Shape) map[string]any {
	out := map[string]any{"type": KindFeature}
	if f.ID != nil {
		out["id"] = f.ID
	}
	if f.BBox != nil {
		out["bbox"] = f.BBox
	}
	if f.Geometry != nil {
		out["geometry"] = f.Geometry.Project(shape)
	}
	if f.Properties != nil {
		out["properties"] = f.Properties
	}
	return out
}

// Project converts the collection into host containers.
func (fc FeatureCollection) Project(shape Shape) map[string]any {
	out := map[string]any{"type": KindFeatureCollection}
	if fc.BBox != nil {
		out["bbox"] = fc.BBox
	}

	features := make([]any, len(fc.Features))
	for i, f := range fc.Features {
		features[i] = f.Project(shape)
	}
	out["features"] = features
	return out
}
