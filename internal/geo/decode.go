package geo

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// DecodeGeometry decodes a bare geometry object (every kind except
// GeometryCollection) and returns it together with its centroid.
func DecodeGeometry(v any) (Geometry, Coord, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Geometry{}, Coord{}, errors.Wrapf(ErrInvalidGeometryType, "geometry must be an object, got %s", KindOf(v))
	}

	name, _ := obj["type"].(string)
	t, ok := ParseGeometryType(name)
	if !ok || t == TypeGeometryCollection {
		return Geometry{}, Coord{}, errors.Wrapf(ErrInvalidGeometryType, "%q is not a bare geometry", name)
	}

	raw := obj["coordinates"]
	arr, _ := raw.([]any)

	coords, centroid, err := DecodeCoordinates(t, raw, len(arr))
	if err != nil {
		return Geometry{}, Coord{}, errors.WithMessagef(err, "decode %s", t)
	}

	return Geometry{Type: t, Coordinates: coords}, centroid, nil
}

// DecodeCoordinates converts the coordinates member of a geometry of type t
// into a coordinate tree. ringCount is the length of the top level
// coordinates array and separates a Polygon without holes (1) from a
// Polygon with interior rings (> 1).
//
// The returned centroid is the point itself for a Point, the column mean for
// a single ring, and the mean of the children's centroids for every deeper
// level.
func DecodeCoordinates(t GeometryType, v any, ringCount int) (Coordinates, Coord, error) {
	switch {
	case ringCount == 0:
		return nil, Coord{}, errors.Wrapf(ErrInvalidGeometryType, "%s with empty coordinates", t)

	case t == TypePoint:
		p, _, err := decodeCoord(v)
		if err != nil {
			return nil, Coord{}, err
		}
		return p, p, nil

	case t == TypeLineString, t == TypeMultiPoint:
		r, c, err := decodeRing(v)
		if err != nil {
			return nil, Coord{}, err
		}
		return r, c, nil

	case t == TypePolygon && ringCount == 1:
		rings, _ := v.([]any)
		if len(rings) == 0 {
			return nil, Coord{}, errors.Wrapf(ErrInvalidCoordinates, "polygon must be an array of rings, got %s", KindOf(v))
		}
		r, c, err := decodeRing(rings[0])
		if err != nil {
			return nil, Coord{}, err
		}
		return r, c, nil

	case t == TypePolygon, t == TypeMultiLineString:
		rs, c, err := decodeRingSet(v)
		if err != nil {
			return nil, Coord{}, err
		}
		return rs, c, nil

	case t == TypeMultiPolygon:
		polys, c, err := decodeArray(v, decodePolygon)
		if err != nil {
			return nil, Coord{}, err
		}
		return RingSetList(polys), c, nil
	}

	return nil, Coord{}, errors.Wrapf(ErrInvalidGeometryType, "%q", t.String())
}

// decodeArray decodes every element of a JSON array with elem and folds the
// element centroids into their mean.
func decodeArray[T any](v any, elem func(any) (T, Coord, error)) ([]T, Coord, error) {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, Coord{}, errors.Wrapf(ErrInvalidCoordinates, "expected a non-empty array, got %s", KindOf(v))
	}

	out := make([]T, len(items))
	centroids := make([]Coord, len(items))
	for i, item := range items {
		val, c, err := elem(item)
		if err != nil {
			return nil, Coord{}, errors.WithMessagef(err, "index %d", i)
		}
		out[i] = val
		centroids[i] = c
	}

	mean, _ := Mean(centroids)
	return out, mean, nil
}

func decodeRing(v any) (Ring, Coord, error) {
	pts, c, err := decodeArray(v, decodeCoord)
	return Ring(pts), c, err
}

func decodeRingSet(v any) (RingSet, Coord, error) {
	rings, c, err := decodeArray(v, decodeRing)
	return RingSet(rings), c, err
}

// decodePolygon decodes one MultiPolygon member: a single ring stays a Ring,
// several rings become a RingSet.
func decodePolygon(v any) (Coordinates, Coord, error) {
	rings, _ := v.([]any)
	if len(rings) == 1 {
		r, c, err := decodeRing(rings[0])
		if err != nil {
			return nil, Coord{}, err
		}
		return r, c, nil
	}

	rs, c, err := decodeRingSet(v)
	if err != nil {
		return nil, Coord{}, err
	}
	return rs, c, nil
}

func decodeCoord(v any) (Coord, Coord, error) {
	items, ok := v.([]any)
	if !ok || len(items) != 2 {
		return Coord{}, Coord{}, errors.Wrapf(ErrInvalidCoordinates, "position must be an array of 2 numbers, got %s", KindOf(v))
	}

	lon, okLon := Number(items[0])
	lat, okLat := Number(items[1])
	if !okLon || !okLat {
		return Coord{}, Coord{}, errors.Wrapf(ErrInvalidCoordinates, "position components must be numbers, got [%s, %s]", KindOf(items[0]), KindOf(items[1]))
	}

	c := Coord{lon, lat}
	return c, c, nil
}

// DecodeBBox reads a bbox member as a list of numbers.
func DecodeBBox(v any) ([]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidCoordinates, "bbox must be an array, got %s", KindOf(v))
	}

	out := make([]float64, len(items))
	for i, item := range items {
		n, ok := Number(item)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidCoordinates, "bbox[%d] must be a number, got %s", i, KindOf(item))
		}
		out[i] = n
	}
	return out, nil
}

// Number reads a JSON number as float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// KindOf names the JSON kind of a decoded value for error messages.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}
