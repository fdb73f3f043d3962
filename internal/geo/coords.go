package geo

// Coordinates is the decoded form of a geometry's coordinates member.
// It is one of Coord, Ring, RingSet or RingSetList.
type Coordinates interface {
	// Depth is the array nesting level: 0 for Coord up to 3 for RingSetList.
	Depth() int
	isCoordinates()
}

// Coord is a single [lon, lat] position.
type Coord [2]float64

// Ring is a LineString, a MultiPoint or the only ring of a Polygon.
type Ring []Coord

// RingSet is a Polygon with interior rings or a MultiLineString.
type RingSet []Ring

// RingSetList is a MultiPolygon. Each element is a Ring for a polygon
// without holes or a RingSet for a polygon with interior rings.
type RingSetList []Coordinates

func (Coord) Depth() int       { return 0 }
func (Ring) Depth() int        { return 1 }
func (RingSet) Depth() int     { return 2 }
func (RingSetList) Depth() int { return 3 }

func (Coord) isCoordinates()       {}
func (Ring) isCoordinates()        {}
func (RingSet) isCoordinates()     {}
func (RingSetList) isCoordinates() {}

// Lon returns the longitude.
func (c Coord) Lon() float64 { return c[0] }

// Lat returns the latitude.
func (c Coord) Lat() float64 { return c[1] }

// Shape selects the host container used for rings when projecting.
type Shape int

const (
	// ShapeMatrix emits rings as fixed width tables ([][2]float64).
	ShapeMatrix Shape = iota
	// ShapeList emits every position as its own []float64.
	ShapeList
)

// ParseShape maps "matrix" and "list" to a Shape.
func ParseShape(s string) (Shape, bool) {
	switch s {
	case "", "matrix":
		return ShapeMatrix, true
	case "list":
		return ShapeList, true
	}
	return ShapeMatrix, false
}

// Project converts a coordinate tree into host containers. A Point is
// always a []float64; nested levels become []any.
func Project(c Coordinates, shape Shape) any {
	switch v := c.(type) {
	case Coord:
		return []float64{v[0], v[1]}
	case Ring:
		if shape == ShapeList {
			return emitRing(v, func(p Coord) []float64 { return []float64{p[0], p[1]} })
		}
		return emitRing(v, func(p Coord) [2]float64 { return p })
	case RingSet:
		out := make([]any, len(v))
		for i, r := range v {
			out[i] = Project(r, shape)
		}
		return out
	case RingSetList:
		out := make([]any, len(v))
		for i, p := range v {
			out[i] = Project(p, shape)
		}
		return out
	}
	return nil
}

// emitRing is the single ring emitter shared by both output shapes.
func emitRing[T any](r Ring, row func(Coord) T) []T {
	out := make([]T, len(r))
	for i, p := range r {
		out[i] = row(p)
	}
	return out
}
