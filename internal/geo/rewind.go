package geo

import (
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Rewind orients polygon rings by the right-hand rule of RFC 7946:
// exterior rings counterclockwise, holes clockwise. Rings that are not
// closed or hold fewer than four positions keep their order. Kinds without
// rings are returned as is.
func Rewind(g Geometry) (Geometry, error) {
	switch g.Type {
	case TypeGeometryCollection:
		out := Geometry{Type: TypeGeometryCollection, Geometries: make([]Geometry, len(g.Geometries))}
		for i, child := range g.Geometries {
			c, err := Rewind(child)
			if err != nil {
				return Geometry{}, errors.WithMessagef(err, "geometries[%d]", i)
			}
			out.Geometries[i] = c
		}
		return out, nil
	case TypePolygon, TypeMultiPolygon:
	default:
		return g, nil
	}

	t, err := ToGeom(g)
	if err != nil {
		return Geometry{}, err
	}

	switch p := t.(type) {
	case *geom.Polygon:
		if t, err = rewindPolygon(p); err != nil {
			return Geometry{}, err
		}
	case *geom.MultiPolygon:
		mp := geom.NewMultiPolygon(geom.XY)
		for i := 0; i < p.NumPolygons(); i++ {
			poly, err := rewindPolygon(p.Polygon(i))
			if err != nil {
				return Geometry{}, errors.WithMessagef(err, "polygon %d", i)
			}
			if err := mp.Push(poly); err != nil {
				return Geometry{}, errors.Wrapf(err, "polygon %d", i)
			}
		}
		t = mp
	}

	return FromGeom(t)
}

func rewindPolygon(p *geom.Polygon) (*geom.Polygon, error) {
	out := geom.NewPolygon(geom.XY)
	for i := 0; i < p.NumLinearRings(); i++ {
		lr := p.LinearRing(i).Clone()
		if orientable(lr) && xy.IsRingCounterClockwise(geom.XY, lr.FlatCoords()) != (i == 0) {
			lr.Reverse()
		}
		if err := out.Push(lr); err != nil {
			return nil, errors.Wrapf(err, "ring %d", i)
		}
	}
	return out, nil
}

// orientable reports whether the ring is closed and long enough to have an
// orientation.
func orientable(lr *geom.LinearRing) bool {
	n := lr.NumCoords()
	if n < 4 {
		return false
	}
	first, last := lr.Coord(0), lr.Coord(n-1)
	return first.X() == last.X() && first.Y() == last.Y()
}
