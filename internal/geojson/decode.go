package geojson

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/document"
	"github.com/woozymasta/geocodec/internal/geo"
)

// Decode reads a GeoJSON document from a file path or literal text and
// assembles it according to its outer type.
func Decode(input string, opts Options) (*Result, error) {
	v, err := document.Load(input)
	if err != nil {
		return nil, err
	}
	return DecodeValue(v, opts)
}

// DecodeValue assembles an already parsed GeoJSON document. Accepted outer
// types are Feature, FeatureCollection, GeometryCollection and the six bare
// geometries.
func DecodeValue(v any, opts Options) (*Result, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(geo.ErrInvalidGeometryType, "document must be an object, got %s", geo.KindOf(v))
	}

	var (
		res      = &Result{}
		centroid *geo.Coord
		err      error
	)

	name, _ := obj["type"].(string)
	switch name {
	case geo.KindFeature:
		var f geo.Feature
		f, centroid, err = decodeFeature(obj, opts.Flatten)
		res.Kind, res.Feature = KindFeature, &f

	case geo.KindFeatureCollection:
		var fc geo.FeatureCollection
		fc, centroid, err = decodeFeatureCollection(obj, opts.Flatten)
		res.Kind, res.Collection = KindFeatureCollection, &fc

	case geo.TypeGeometryCollection.String():
		var g geo.Geometry
		g, centroid, err = decodeGeometryCollection(obj)
		res.Kind, res.Geometry = KindGeometryCollection, &g

	default:
		var (
			g geo.Geometry
			c geo.Coord
		)
		g, c, err = geo.DecodeGeometry(obj)
		if err == nil {
			centroid = &c
		}
		res.Kind, res.Geometry = KindGeometry, &g
	}
	if err != nil {
		return nil, err
	}
	res.project(opts.Shape)

	if opts.Average {
		if err := res.withCentroid(v, centroid); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Str("kind", res.Kind.String()).
		Bool("average", opts.Average).
		Msg("Document decoded")

	return res, nil
}

func (r *Result) withCentroid(v any, centroid *geo.Coord) error {
	dump, err := document.Dump(v)
	if err != nil {
		return err
	}
	r.Centroid = centroid
	r.Dump = dump
	return nil
}

// decodeFeature reads a strict feature. Either id or _id is accepted as
// the identifier; id wins when both are present.
func decodeFeature(obj map[string]any, flatten bool) (geo.Feature, *geo.Coord, error) {
	var (
		f        geo.Feature
		centroid *geo.Coord
	)

	for _, key := range []string{"_id", "id"} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		switch id := raw.(type) {
		case string:
			f.ID = id
		default:
			n, ok := geo.Number(raw)
			if !ok {
				return geo.Feature{}, nil, errors.Wrapf(geo.ErrInvalidIdType, "%s is %s", key, geo.KindOf(raw))
			}
			f.ID = n
		}
	}

	if raw, ok := obj["bbox"]; ok {
		bbox, err := geo.DecodeBBox(raw)
		if err != nil {
			return geo.Feature{}, nil, err
		}
		f.BBox = bbox
	}

	if raw, ok := obj["geometry"]; ok {
		g, c, err := geo.DecodeGeometry(raw)
		if err != nil {
			return geo.Feature{}, nil, errors.WithMessage(err, "geometry")
		}
		f.Geometry = &g
		centroid = &c
	}

	if raw, ok := obj["properties"]; ok && !flatten {
		props, _ := raw.(map[string]any)
		f.Properties = document.ProjectObject(props)
	}

	return f, centroid, nil
}

func decodeFeatureCollection(obj map[string]any, flatten bool) (geo.FeatureCollection, *geo.Coord, error) {
	var fc geo.FeatureCollection

	if raw, ok := obj["bbox"]; ok {
		bbox, err := geo.DecodeBBox(raw)
		if err != nil {
			return geo.FeatureCollection{}, nil, err
		}
		fc.BBox = bbox
	}

	items, _ := obj["features"].([]any)
	fc.Features = make([]geo.Feature, 0, len(items))
	centroids := make([]geo.Coord, 0, len(items))

	for i, item := range items {
		fobj, ok := item.(map[string]any)
		if !ok {
			return geo.FeatureCollection{}, nil, errors.Wrapf(geo.ErrInvalidGeometryType, "features[%d] is %s", i, geo.KindOf(item))
		}

		f, c, err := decodeFeature(fobj, flatten)
		if err != nil {
			return geo.FeatureCollection{}, nil, errors.WithMessagef(err, "features[%d]", i)
		}
		fc.Features = append(fc.Features, f)
		if c != nil {
			centroids = append(centroids, *c)
		}
	}

	return fc, meanOf(centroids), nil
}

func decodeGeometryCollection(obj map[string]any) (geo.Geometry, *geo.Coord, error) {
	items, _ := obj["geometries"].([]any)
	g := geo.Geometry{
		Type:       geo.TypeGeometryCollection,
		Geometries: make([]geo.Geometry, 0, len(items)),
	}
	centroids := make([]geo.Coord, 0, len(items))

	for i, item := range items {
		child, c, err := geo.DecodeGeometry(item)
		if err != nil {
			return geo.Geometry{}, nil, errors.WithMessagef(err, "geometries[%d]", i)
		}
		g.Geometries = append(g.Geometries, child)
		centroids = append(centroids, c)
	}

	return g, meanOf(centroids), nil
}

// DecodeAnyGeometry accepts a bare geometry or a GeometryCollection.
func DecodeAnyGeometry(v any) (geo.Geometry, *geo.Coord, error) {
	if obj, ok := v.(map[string]any); ok && obj["type"] == geo.TypeGeometryCollection.String() {
		return decodeGeometryCollection(obj)
	}

	g, c, err := geo.DecodeGeometry(v)
	if err != nil {
		return geo.Geometry{}, nil, err
	}
	return g, &c, nil
}

func meanOf(cs []geo.Coord) *geo.Coord {
	m, ok := geo.Mean(cs)
	if !ok {
		return nil
	}
	return &m
}
