package geojson

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/geo"
)

// NormalizeOptions control Normalize.
type NormalizeOptions struct {
	// Flatten drops feature properties.
	Flatten bool
	// Rewind orients polygon rings by the right-hand rule.
	Rewind bool
	// BBox fills in the bbox of features and collections that have none.
	BBox bool
}

// Normalize decodes a strict GeoJSON document and writes it back through
// the encoders. The output holds only the members the codec knows, in
// lexical order.
func Normalize(input string, opts NormalizeOptions) (string, error) {
	res, err := Decode(input, Options{Flatten: opts.Flatten})
	if err != nil {
		return "", err
	}

	var v map[string]any
	switch res.Kind {
	case KindGeometry, KindGeometryCollection:
		g, err := normalizeGeometry(*res.Geometry, opts)
		if err != nil {
			return "", err
		}
		v, err = geo.EncodeGeometry(g)
		if err != nil {
			return "", err
		}

	case KindFeature:
		f, err := normalizeFeature(*res.Feature, opts)
		if err != nil {
			return "", err
		}
		v, err = geo.EncodeFeature(f)
		if err != nil {
			return "", err
		}

	case KindFeatureCollection:
		fc, err := normalizeCollection(*res.Collection, opts)
		if err != nil {
			return "", err
		}
		v, err = geo.EncodeFeatureCollection(fc)
		if err != nil {
			return "", err
		}

	default:
		return "", errors.Wrapf(geo.ErrInvalidGeometryType, "cannot normalize a %s", res.Kind)
	}

	out, err := geo.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshal normalized document")
	}

	log.Debug().
		Str("kind", res.Kind.String()).
		Bool("rewind", opts.Rewind).
		Bool("bbox", opts.BBox).
		Msg("Document normalized")

	return string(out), nil
}

func normalizeGeometry(g geo.Geometry, opts NormalizeOptions) (geo.Geometry, error) {
	if !opts.Rewind {
		return g, nil
	}
	return geo.Rewind(g)
}

func normalizeFeature(f geo.Feature, opts NormalizeOptions) (geo.Feature, error) {
	if f.Geometry == nil {
		return f, nil
	}

	g, err := normalizeGeometry(*f.Geometry, opts)
	if err != nil {
		return geo.Feature{}, errors.WithMessage(err, "geometry")
	}
	f.Geometry = &g

	if opts.BBox && f.BBox == nil {
		if f.BBox, err = geo.Bounds(g); err != nil {
			return geo.Feature{}, err
		}
	}
	return f, nil
}

func normalizeCollection(fc geo.FeatureCollection, opts NormalizeOptions) (geo.FeatureCollection, error) {
	features := make([]geo.Feature, len(fc.Features))
	geoms := make([]geo.Geometry, 0, len(fc.Features))

	for i, f := range fc.Features {
		nf, err := normalizeFeature(f, opts)
		if err != nil {
			return geo.FeatureCollection{}, errors.WithMessagef(err, "features[%d]", i)
		}
		features[i] = nf
		if nf.Geometry != nil {
			geoms = append(geoms, *nf.Geometry)
		}
	}
	fc.Features = features

	if opts.BBox && fc.BBox == nil {
		bbox, err := geo.Bounds(geoms...)
		if err != nil {
			return geo.FeatureCollection{}, err
		}
		fc.BBox = bbox
	}
	return fc, nil
}
