package geo

// GeometryType enumerates the GeoJSON geometry kinds.
type GeometryType int

// Geometry kinds. The zero value is not a valid type.
const (
	TypeInvalid GeometryType = iota
	TypePoint
	TypeLineString
	TypeMultiPoint
	TypePolygon
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection
)

// Top level object kinds that are not geometries.
const (
	KindFeature           = "Feature"
	KindFeatureCollection = "FeatureCollection"
)

var typeNames = [...]string{
	TypeInvalid:            "",
	TypePoint:              "Point",
	TypeLineString:         "LineString",
	TypeMultiPoint:         "MultiPoint",
	TypePolygon:            "Polygon",
	TypeMultiLineString:    "MultiLineString",
	TypeMultiPolygon:       "MultiPolygon",
	TypeGeometryCollection: "GeometryCollection",
}

// String returns the GeoJSON name of the type.
func (t GeometryType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return ""
	}
	return typeNames[t]
}

// ParseGeometryType maps a GeoJSON type name to its GeometryType.
// Names are case sensitive.
func ParseGeometryType(name string) (GeometryType, bool) {
	for t, n := range typeNames {
		if t != int(TypeInvalid) && n == name {
			return GeometryType(t), true
		}
	}
	return TypeInvalid, false
}

// IsKnownKind reports whether name is one of the seven geometry kinds or
// one of Feature and FeatureCollection.
func IsKnownKind(name string) bool {
	if _, ok := ParseGeometryType(name); ok {
		return true
	}
	return name == KindFeature || name == KindFeatureCollection
}

// accepts reports whether a coordinate tree of the given depth is valid for t.
// Polygons accept a single ring (depth 1) or a ring set (depth 2).
func (t GeometryType) accepts(depth int) bool {
	switch t {
	case TypePoint:
		return depth == 0
	case TypeLineString, TypeMultiPoint:
		return depth == 1
	case TypePolygon:
		return depth == 1 || depth == 2
	case TypeMultiLineString:
		return depth == 2
	case TypeMultiPolygon:
		return depth == 3
	}
	return false
}
