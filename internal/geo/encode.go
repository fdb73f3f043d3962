package geo

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// FormatCoord renders a coordinate component as the shortest decimal that
// round-trips to the same float64, never in exponent form. Both output
// paths use it.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AppendCoord appends the FormatCoord rendering of v to b.
func AppendCoord(b []byte, v float64) []byte {
	return strconv.AppendFloat(b, v, 'f', -1, 64)
}

// Encode builds the JSON value of a bare geometry.
func Encode(t GeometryType, c Coordinates) (map[string]any, error) {
	if err := check(t, c); err != nil {
		return nil, err
	}

	return map[string]any{
		"type":        t.String(),
		"coordinates": CoordinatesValue(t, c),
	}, nil
}

// CoordinatesValue builds the JSON value of a coordinates member. The tree
// must already be valid for t. A Polygon held as a single Ring is wrapped
// into its one-ring array.
func CoordinatesValue(t GeometryType, c Coordinates) any {
	if t == TypePolygon {
		return polygonValue(c)
	}
	return value(c)
}

func value(c Coordinates) any {
	switch v := c.(type) {
	case Coord:
		return []any{json.Number(FormatCoord(v[0])), json.Number(FormatCoord(v[1]))}
	case Ring:
		return wrap(v, func(p Coord) any { return value(p) })
	case RingSet:
		return wrap(v, func(r Ring) any { return value(r) })
	case RingSetList:
		return wrap(v, polygonValue)
	}
	return nil
}

func polygonValue(c Coordinates) any {
	if r, ok := c.(Ring); ok {
		return []any{value(r)}
	}
	return value(c)
}

// wrap turns a slice of one nesting level into a JSON array, encoding each
// element one level shallower.
func wrap[T any](items []T, f func(T) any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = f(item)
	}
	return out
}

// AppendCoordinates writes the coordinates member of a geometry straight to
// text, without building a JSON value. The output is byte-identical to
// marshaling CoordinatesValue.
func AppendCoordinates(b []byte, t GeometryType, c Coordinates) ([]byte, error) {
	if err := check(t, c); err != nil {
		return b, err
	}
	if t == TypePolygon {
		return appendPolygonCoords(b, c), nil
	}
	return appendCoords(b, c), nil
}

// AppendRing writes a ring as [[lon,lat],[lon,lat],...].
func AppendRing(b []byte, r Ring) []byte {
	return appendArray(b, r, appendPosition)
}

// AppendPolygon writes a polygon without holes as [ring].
func AppendPolygon(b []byte, r Ring) []byte {
	b = append(b, '[')
	b = AppendRing(b, r)
	return append(b, ']')
}

// AppendPolygonWithHoles writes a polygon with interior rings as
// [exterior,hole,...].
func AppendPolygonWithHoles(b []byte, rs RingSet) []byte {
	return appendArray(b, rs, AppendRing)
}

func appendPosition(b []byte, p Coord) []byte {
	b = append(b, '[')
	b = AppendCoord(b, p[0])
	b = append(b, ',')
	b = AppendCoord(b, p[1])
	return append(b, ']')
}

func appendCoords(b []byte, c Coordinates) []byte {
	switch v := c.(type) {
	case Coord:
		return appendPosition(b, v)
	case Ring:
		return AppendRing(b, v)
	case RingSet:
		return AppendPolygonWithHoles(b, v)
	case RingSetList:
		return appendArray(b, v, appendPolygonCoords)
	}
	return b
}

func appendPolygonCoords(b []byte, c Coordinates) []byte {
	if r, ok := c.(Ring); ok {
		return AppendPolygon(b, r)
	}
	return appendCoords(b, c)
}

func appendArray[T any](b []byte, items []T, f func([]byte, T) []byte) []byte {
	b = append(b, '[')
	for i, item := range items {
		if i > 0 {
			b = append(b, ',')
		}
		b = f(b, item)
	}
	return append(b, ']')
}

// check verifies that c has a shape t can hold and that every component
// is finite.
func check(t GeometryType, c Coordinates) error {
	if c == nil {
		return errors.Wrapf(ErrInvalidCoordinates, "%s without coordinates", t)
	}
	if !t.accepts(c.Depth()) {
		return errors.Wrapf(ErrInvalidGeometryType, "%q cannot hold coordinates of depth %d", t.String(), c.Depth())
	}
	return checkFinite(c)
}

func checkFinite(c Coordinates) error {
	switch v := c.(type) {
	case Coord:
		if math.IsNaN(v[0]) || math.IsInf(v[0], 0) || math.IsNaN(v[1]) || math.IsInf(v[1], 0) {
			return errors.Wrapf(ErrInvalidCoordinates, "position %v is not finite", [2]float64(v))
		}
	case Ring:
		for _, p := range v {
			if err := checkFinite(p); err != nil {
				return err
			}
		}
	case RingSet:
		for _, r := range v {
			if err := checkFinite(r); err != nil {
				return err
			}
		}
	case RingSetList:
		for i, p := range v {
			if _, ok := p.(Ring); !ok {
				if _, ok := p.(RingSet); !ok {
					return errors.Wrapf(ErrInvalidCoordinates, "multipolygon member %d must be a ring or a ring set", i)
				}
			}
			if err := checkFinite(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// EncodeGeometry builds the JSON value of any geometry, including a
// GeometryCollection of bare geometries.
func EncodeGeometry(g Geometry) (map[string]any, error) {
	if g.Type != TypeGeometryCollection {
		return Encode(g.Type, g.Coordinates)
	}

	geoms := make([]any, len(g.Geometries))
	for i, child := range g.Geometries {
		if child.Type == TypeGeometryCollection {
			return nil, errors.Wrapf(ErrInvalidGeometryType, "geometries[%d]: nested GeometryCollection", i)
		}
		v, err := Encode(child.Type, child.Coordinates)
		if err != nil {
			return nil, errors.WithMessagef(err, "geometries[%d]", i)
		}
		geoms[i] = v
	}

	return map[string]any{
		"type":       TypeGeometryCollection.String(),
		"geometries": geoms,
	}, nil
}

// EncodeFeature builds the JSON value of a feature.
func EncodeFeature(f Feature) (map[string]any, error) {
	out := map[string]any{"type": KindFeature}

	switch id := f.ID.(type) {
	case nil:
	case string, float64:
		out["id"] = id
	case int:
		out["id"] = id
	case int64:
		out["id"] = id
	default:
		return nil, errors.Wrapf(ErrInvalidIdType, "%T", f.ID)
	}

	if f.BBox != nil {
		out["bbox"] = f.BBox
	}

	if f.Geometry != nil {
		g, err := EncodeGeometry(*f.Geometry)
		if err != nil {
			return nil, errors.WithMessage(err, "geometry")
		}
		out["geometry"] = g
	}

	if f.Properties != nil {
		if err := CheckProperties(f.Properties); err != nil {
			return nil, err
		}
		out["properties"] = f.Properties
	}

	return out, nil
}

// EncodeFeatureCollection builds the JSON value of a feature collection.
func EncodeFeatureCollection(fc FeatureCollection) (map[string]any, error) {
	features := make([]any, len(fc.Features))
	for i, f := range fc.Features {
		v, err := EncodeFeature(f)
		if err != nil {
			return nil, errors.WithMessagef(err, "features[%d]", i)
		}
		features[i] = v
	}

	out := map[string]any{
		"type":     KindFeatureCollection,
		"features": features,
	}
	if fc.BBox != nil {
		out["bbox"] = fc.BBox
	}
	return out, nil
}

// Marshal dumps a JSON value built by the encoders. Object members are
// written in lexical order.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// CheckProperties verifies that a properties mapping holds only JSON-shaped
// values.
func CheckProperties(props map[string]any) error {
	for k, v := range props {
		if err := checkProperty(v); err != nil {
			return errors.WithMessagef(err, "properties.%s", k)
		}
	}
	return nil
}

func checkProperty(v any) error {
	switch p := v.(type) {
	case nil, bool, string, float64, float32, int, int32, int64, json.Number,
		[]float64, []int, []string, []bool:
		return nil
	case []any:
		for i, item := range p {
			if err := checkProperty(item); err != nil {
				return errors.WithMessagef(err, "[%d]", i)
			}
		}
		return nil
	case map[string]any:
		return CheckProperties(p)
	}
	return errors.Wrapf(ErrUnsupportedPropertyType, "%T", v)
}
