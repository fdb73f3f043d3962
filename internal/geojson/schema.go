package geojson

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/document"
	"github.com/woozymasta/geocodec/internal/geo"
)

// DecodeSchema reads a document whose member names need not follow RFC 7946,
// such as database query results.
//
// When the outer type is a known GeoJSON kind, features keep every member
// other than geometry (and collections every member other than features)
// as projected JSON. Otherwise the document is treated as a keyed bag: the
// member named geometryKey is decoded as a geometry or GeometryCollection
// and every other member is projected.
func DecodeSchema(input, geometryKey string, opts Options) (*Result, error) {
	v, err := document.Load(input)
	if err != nil {
		return nil, err
	}
	return DecodeSchemaValue(v, geometryKey, opts)
}

// DecodeSchemaValue is DecodeSchema for an already parsed document.
// Options.Flatten does not apply to schema documents.
func DecodeSchemaValue(v any, geometryKey string, opts Options) (*Result, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(geo.ErrInvalidGeometryType, "document must be an object, got %s", geo.KindOf(v))
	}

	name, _ := obj["type"].(string)
	if !geo.IsKnownKind(name) {
		return decodeSchemaObject(obj, geometryKey, opts)
	}

	var (
		res      = &Result{}
		centroid *geo.Coord
		err      error
	)

	switch name {
	case geo.KindFeature:
		var f SchemaFeature
		f, centroid, err = decodeSchemaFeature(obj)
		res.Kind, res.SchemaFeature = KindSchemaFeature, &f

	case geo.KindFeatureCollection:
		var c SchemaCollection
		c, centroid, err = decodeSchemaCollection(obj)
		res.Kind, res.SchemaCollection = KindSchemaCollection, &c

	default:
		var g geo.Geometry
		g, centroid, err = DecodeAnyGeometry(obj)
		res.Kind, res.Geometry = KindGeometry, &g
		if g.Type == geo.TypeGeometryCollection {
			res.Kind = KindGeometryCollection
		}
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

	return res, nil
}

func decodeSchemaFeature(obj map[string]any) (SchemaFeature, *geo.Coord, error) {
	f := SchemaFeature{Members: make(map[string]any, len(obj))}
	var centroid *geo.Coord

	for k, v := range obj {
		if k != "geometry" {
			f.Members[k] = document.Project(v)
			continue
		}

		g, c, err := geo.DecodeGeometry(v)
		if err != nil {
			return SchemaFeature{}, nil, errors.WithMessage(err, "geometry")
		}
		f.Geometry = &g
		centroid = &c
	}

	return f, centroid, nil
}

func decodeSchemaCollection(obj map[string]any) (SchemaCollection, *geo.Coord, error) {
	c := SchemaCollection{Members: make(map[string]any, len(obj))}
	var centroids []geo.Coord

	for k, v := range obj {
		if k != "features" {
			c.Members[k] = document.Project(v)
			continue
		}

		items, _ := v.([]any)
		c.Features = make([]SchemaFeature, 0, len(items))
		for i, item := range items {
			fobj, ok := item.(map[string]any)
			if !ok {
				return SchemaCollection{}, nil, errors.Wrapf(geo.ErrInvalidGeometryType, "features[%d] is %s", i, geo.KindOf(item))
			}

			f, fc, err := decodeSchemaFeature(fobj)
			if err != nil {
				return SchemaCollection{}, nil, errors.WithMessagef(err, "features[%d]", i)
			}
			c.Features = append(c.Features, f)
			if fc != nil {
				centroids = append(centroids, *fc)
			}
		}
	}

	return c, meanOf(centroids), nil
}

// decodeSchemaObject handles the keyed bag form. The centroid and dump
// describe the designated geometry member only.
func decodeSchemaObject(obj map[string]any, key string, opts Options) (*Result, error) {
	o := SchemaObject{Key: key, Members: make(map[string]any, len(obj))}
	res := &Result{Kind: KindSchemaObject, SchemaObject: &o}

	for k, v := range obj {
		if k != key {
			o.Members[k] = document.Project(v)
			continue
		}

		g, c, err := DecodeAnyGeometry(v)
		if err != nil {
			return nil, errors.WithMessage(err, k)
		}
		o.Geometry = &g

		if opts.Average {
			if err := res.withCentroid(v, c); err != nil {
				return nil, err
			}
		}
	}

	if o.Geometry == nil {
		log.Debug().
			Str("key", key).
			Msg("Designated geometry member not found, document projected as plain json")
	}

	res.project(opts.Shape)
	return res, nil
}
