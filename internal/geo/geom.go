package geo

import (
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// ToGeom converts a geometry into its go-geom counterpart (XY layout).
func ToGeom(g Geometry) (geom.T, error) {
	if g.Type == TypeGeometryCollection {
		gc := geom.NewGeometryCollection()
		for i, child := range g.Geometries {
			t, err := ToGeom(child)
			if err != nil {
				return nil, errors.WithMessagef(err, "geometries[%d]", i)
			}
			if err := gc.Push(t); err != nil {
				return nil, errors.Wrapf(err, "geometries[%d]", i)
			}
		}
		return gc, nil
	}

	if err := check(g.Type, g.Coordinates); err != nil {
		return nil, err
	}

	switch g.Type {
	case TypePoint:
		return geom.NewPoint(geom.XY).MustSetCoords(toGeomCoord(g.Coordinates.(Coord))), nil
	case TypeLineString:
		return geom.NewLineString(geom.XY).MustSetCoords(toGeomRing(g.Coordinates.(Ring))), nil
	case TypeMultiPoint:
		return geom.NewMultiPoint(geom.XY).MustSetCoords(toGeomRing(g.Coordinates.(Ring))), nil
	case TypePolygon:
		return geom.NewPolygon(geom.XY).MustSetCoords(toGeomPolygon(g.Coordinates)), nil
	case TypeMultiLineString:
		return geom.NewMultiLineString(geom.XY).MustSetCoords(toGeomRingSet(g.Coordinates.(RingSet))), nil
	case TypeMultiPolygon:
		list := g.Coordinates.(RingSetList)
		polys := make([][][]geom.Coord, len(list))
		for i, p := range list {
			polys[i] = toGeomPolygon(p)
		}
		return geom.NewMultiPolygon(geom.XY).MustSetCoords(polys), nil
	}

	return nil, errors.Wrapf(ErrInvalidGeometryType, "%q", g.Type.String())
}

// FromGeom converts a go-geom geometry back into the codec model. Only the
// first two ordinates of every position are kept.
func FromGeom(t geom.T) (Geometry, error) {
	switch v := t.(type) {
	case *geom.Point:
		return Geometry{Type: TypePoint, Coordinates: fromGeomCoord(v.Coords())}, nil
	case *geom.LineString:
		return Geometry{Type: TypeLineString, Coordinates: fromGeomRing(v.Coords())}, nil
	case *geom.MultiPoint:
		return Geometry{Type: TypeMultiPoint, Coordinates: fromGeomRing(v.Coords())}, nil
	case *geom.Polygon:
		return Geometry{Type: TypePolygon, Coordinates: fromGeomPolygon(v.Coords())}, nil
	case *geom.MultiLineString:
		return Geometry{Type: TypeMultiLineString, Coordinates: fromGeomRingSet(v.Coords())}, nil
	case *geom.MultiPolygon:
		coords := v.Coords()
		list := make(RingSetList, len(coords))
		for i, p := range coords {
			list[i] = fromGeomPolygon(p)
		}
		return Geometry{Type: TypeMultiPolygon, Coordinates: list}, nil
	case *geom.GeometryCollection:
		out := Geometry{Type: TypeGeometryCollection}
		for i, child := range v.Geoms() {
			g, err := FromGeom(child)
			if err != nil {
				return Geometry{}, errors.WithMessagef(err, "geometries[%d]", i)
			}
			out.Geometries = append(out.Geometries, g)
		}
		return out, nil
	}

	return Geometry{}, errors.Wrapf(ErrInvalidGeometryType, "%T", t)
}

// Bounds returns the [minLon, minLat, maxLon, maxLat] box around all given
// geometries, or nil when there is nothing to bound.
func Bounds(geoms ...Geometry) ([]float64, error) {
	b := geom.NewBounds(geom.XY)
	for i, g := range geoms {
		if err := extendBounds(b, g); err != nil {
			return nil, errors.WithMessagef(err, "geometry %d", i)
		}
	}

	if b.IsEmpty() {
		return nil, nil
	}
	return []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}, nil
}

// extendBounds walks collections member by member; go-geom collections
// have no flat coordinates of their own.
func extendBounds(b *geom.Bounds, g Geometry) error {
	if g.Type == TypeGeometryCollection {
		for _, child := range g.Geometries {
			if err := extendBounds(b, child); err != nil {
				return err
			}
		}
		return nil
	}

	t, err := ToGeom(g)
	if err != nil {
		return err
	}
	b.Extend(t)
	return nil
}

func toGeomCoord(c Coord) geom.Coord {
	return geom.Coord{c[0], c[1]}
}

func toGeomRing(r Ring) []geom.Coord {
	out := make([]geom.Coord, len(r))
	for i, p := range r {
		out[i] = toGeomCoord(p)
	}
	return out
}

func toGeomRingSet(rs RingSet) [][]geom.Coord {
	out := make([][]geom.Coord, len(rs))
	for i, r := range rs {
		out[i] = toGeomRing(r)
	}
	return out
}

func toGeomPolygon(c Coordinates) [][]geom.Coord {
	if r, ok := c.(Ring); ok {
		return [][]geom.Coord{toGeomRing(r)}
	}
	return toGeomRingSet(c.(RingSet))
}

func fromGeomCoord(c geom.Coord) Coord {
	var out Coord
	copy(out[:], c)
	return out
}

func fromGeomRing(cs []geom.Coord) Ring {
	out := make(Ring, len(cs))
	for i, c := range cs {
		out[i] = fromGeomCoord(c)
	}
	return out
}

func fromGeomRingSet(css [][]geom.Coord) RingSet {
	out := make(RingSet, len(css))
	for i, cs := range css {
		out[i] = fromGeomRing(cs)
	}
	return out
}

// fromGeomPolygon mirrors the decoder: one ring stays a Ring.
func fromGeomPolygon(css [][]geom.Coord) Coordinates {
	if len(css) == 1 {
		return fromGeomRing(css[0])
	}
	return fromGeomRingSet(css)
}
