// Package geojson recognizes the outer GeoJSON object kind and assembles
// features, collections and geometries from the decoded JSON value.
package geojson

import (
	"github.com/woozymasta/geocodec/internal/geo"
)

// Kind is the outer object kind of a decoded document.
type Kind int

// Document kinds.
const (
	KindGeometry Kind = iota
	KindGeometryCollection
	KindFeature
	KindFeatureCollection
	KindSchemaFeature
	KindSchemaCollection
	KindSchemaObject
)

var kindNames = [...]string{
	KindGeometry:           "geometry",
	KindGeometryCollection: "geometry_collection",
	KindFeature:            "feature",
	KindFeatureCollection:  "feature_collection",
	KindSchemaFeature:      "schema_feature",
	KindSchemaCollection:   "schema_collection",
	KindSchemaObject:       "schema_object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Options control decoding.
type Options struct {
	// Shape selects the host container for rings in Result.Value.
	Shape geo.Shape
	// Flatten skips the properties member of strict features.
	Flatten bool
	// Average computes the centroid and keeps a dump of the input.
	Average bool
}

// Result is a decoded document. Exactly one of the typed fields matching
// Kind is set; Value is the host projection of the same document.
type Result struct {
	Geometry   *geo.Geometry
	Feature    *geo.Feature
	Collection *geo.FeatureCollection

	SchemaFeature    *SchemaFeature
	SchemaCollection *SchemaCollection
	SchemaObject     *SchemaObject

	Value map[string]any

	// Centroid and Dump are only set when Options.Average is on. Dump is the
	// canonical text of the input the centroid was computed from.
	Centroid *geo.Coord
	Dump     string

	Kind Kind
}

// SchemaFeature is a feature read without RFC 7946 member names: every
// member other than geometry is projected as is.
type SchemaFeature struct {
	Geometry *geo.Geometry
	Members  map[string]any
}

// SchemaCollection is a feature collection read without RFC 7946 member
// names.
type SchemaCollection struct {
	Members  map[string]any
	Features []SchemaFeature
}

// SchemaObject is an arbitrary keyed document with one designated member
// holding a geometry.
type SchemaObject struct {
	Geometry *geo.Geometry
	Members  map[string]any
	Key      string
}

// Project converts the feature into host containers.
func (f SchemaFeature) Project(shape geo.Shape) map[string]any {
	out := make(map[string]any, len(f.Members)+1)
	for k, v := range f.Members {
		out[k] = v
	}
	if f.Geometry != nil {
		out["geometry"] = f.Geometry.Project(shape)
	}
	return out
}

// Project converts the collection into host containers.
func (c SchemaCollection) Project(shape geo.Shape) map[string]any {
	out := make(map[string]any, len(c.Members)+1)
	for k, v := range c.Members {
		out[k] = v
	}

	features := make([]any, len(c.Features))
	for i, f := range c.Features {
		features[i] = f.Project(shape)
	}
	out["features"] = features
	return out
}

// Project converts the object into host containers.
func (o SchemaObject) Project(shape geo.Shape) map[string]any {
	out := make(map[string]any, len(o.Members)+1)
	for k, v := range o.Members {
		out[k] = v
	}
	if o.Geometry != nil {
		out[o.Key] = o.Geometry.Project(shape)
	}
	return out
}

// project fills Value from the typed field matching Kind.
func (r *Result) project(shape geo.Shape) {
	switch r.Kind {
	case KindGeometry, KindGeometryCollection:
		r.Value = r.Geometry.Project(shape)
	case KindFeature:
		r.Value = r.Feature.Project(shape)
	case KindFeatureCollection:
		r.Value = r.Collection.Project(shape)
	case KindSchemaFeature:
		r.Value = r.SchemaFeature.Project(shape)
	case KindSchemaCollection:
		r.Value = r.SchemaCollection.Project(shape)
	case KindSchemaObject:
		r.Value = r.SchemaObject.Project(shape)
	}
}
