package batch

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/geocodec/internal/document"
	"github.com/woozymasta/geocodec/internal/geo"
	"github.com/woozymasta/geocodec/internal/geojson"
)

// Collect reads Feature documents and wraps them, unchanged, into one
// FeatureCollection text. Only a parse failure or a document that is not a
// Feature aborts the call. When bbox is empty it is computed from the
// feature geometries that decode; the others are left out of the bounds. A
// collection without usable geometries gets no bbox.
func Collect(ctx context.Context, files []string, bbox []float64) (string, error) {
	features := make([]any, len(files))
	geoms := make([]*geo.Geometry, len(files))
	computeBBox := len(bbox) == 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			v, err := document.Load(path)
			if err != nil {
				return errors.WithMessage(err, path)
			}

			obj, _ := v.(map[string]any)
			if kind, _ := obj["type"].(string); kind != geo.KindFeature {
				return errors.Wrapf(geo.ErrInvalidGeometryType, "%s holds a %s, want a feature", path, describe(v, obj))
			}
			features[i] = v

			if computeBBox {
				geoms[i] = featureGeometry(path, obj)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	if computeBBox {
		present := make([]geo.Geometry, 0, len(geoms))
		for _, gm := range geoms {
			if gm != nil {
				present = append(present, *gm)
			}
		}

		var err error
		if bbox, err = geo.Bounds(present...); err != nil {
			return "", err
		}
	}

	fc := map[string]any{
		"type":     geo.KindFeatureCollection,
		"features": features,
	}
	if bbox != nil {
		fc["bbox"] = bbox
	}

	out, err := document.Dump(fc)
	if err != nil {
		return "", err
	}

	log.Debug().
		Int("features", len(files)).
		Floats64("bbox", bbox).
		Msg("Features collected")

	return out, nil
}

// featureGeometry decodes the geometry member of a feature for the bounds.
// A missing, null or undecodable geometry yields nil.
func featureGeometry(path string, obj map[string]any) *geo.Geometry {
	raw, ok := obj["geometry"]
	if !ok || raw == nil {
		return nil
	}

	gm, _, err := geojson.DecodeAnyGeometry(raw)
	if err != nil {
		log.Debug().
			Err(err).
			Str("path", path).
			Msg("Geometry left out of bbox")
		return nil
	}
	return &gm
}

func describe(v any, obj map[string]any) string {
	if kind, ok := obj["type"].(string); ok && kind != "" {
		return kind
	}
	return geo.KindOf(v)
}
