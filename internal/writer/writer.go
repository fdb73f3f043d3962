package writer

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/geo"
)

// allowlist is the sorted member set every record must have.
var allowlist = []string{"geometry", "id", "properties", "type"}

// geometryTypes are the accepted geometry type spellings. They are written
// back verbatim.
var geometryTypes = map[string]geo.GeometryType{
	"Polygon":      geo.TypePolygon,
	"POLYGON":      geo.TypePolygon,
	"MultiPolygon": geo.TypeMultiPolygon,
	"MULTIPOLYGON": geo.TypeMultiPolygon,
}

const (
	header = `{"type":"FeatureCollection","features":[` + "\n"
	footer = "\n]}"
)

// Write serializes records into one FeatureCollection. Members of each
// feature are written as type, id, properties, geometry; id and properties
// are left out when null.
func Write(records []Record) (string, error) {
	b := make([]byte, 0, 256*len(records)+len(header)+len(footer))
	b = append(b, header...)

	for i, r := range records {
		if i > 0 {
			b = append(b, ",\n"...)
		}

		var err error
		if b, err = appendFeature(b, r); err != nil {
			return "", errors.WithMessagef(err, "record %d", i)
		}
	}

	b = append(b, footer...)
	return string(b), nil
}

// WriteFile writes the FeatureCollection to path, creating or truncating
// it, and also returns the text.
func WriteFile(path string, records []Record) (string, error) {
	out, err := Write(records)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrapf(geo.ErrIoUnavailable, "create %s: %v", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(geo.ErrIoUnavailable, "create %s: %v", path, err)
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if _, err := f.WriteString(out); err != nil {
		return "", errors.Wrapf(geo.ErrIoUnavailable, "write %s: %v", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("features", len(records)).
		Msg("FeatureCollection written")

	return out, nil
}

func appendFeature(b []byte, r Record) ([]byte, error) {
	names := make([]string, len(r))
	for i, m := range r {
		names[i] = m.Name
	}
	slices.Sort(names)
	if !slices.Equal(names, allowlist) {
		return b, errors.Wrapf(geo.ErrMissingRequiredMember, "members %v, want %v", names, allowlist)
	}

	typ, _ := r.Get("type")
	if typ.Kind() != KindString || typ.Str() != geo.KindFeature {
		return b, errors.Wrapf(geo.ErrInvalidGeometryType, "record type must be %q", geo.KindFeature)
	}
	b = append(b, `{"type":"Feature"`...)

	id, _ := r.Get("id")
	switch id.Kind() {
	case KindNull:
	case KindString:
		b = append(b, `,"id":`...)
		b = appendString(b, id.s)
	case KindInt:
		b = append(b, `,"id":`...)
		b = strconv.AppendInt(b, id.i, 10)
	default:
		return b, errors.Wrapf(geo.ErrInvalidIdType, "id is %s", id.Kind())
	}

	props, _ := r.Get("properties")
	switch props.Kind() {
	case KindNull:
	case KindMapping:
		var err error
		b = append(b, `,"properties":`...)
		if b, err = appendProperties(b, props.mapping); err != nil {
			return b, err
		}
	default:
		return b, errors.Wrapf(geo.ErrUnsupportedPropertyType, "properties is %s", props.Kind())
	}

	g, _ := r.Get("geometry")
	b = append(b, `,"geometry":`...)
	b, err := appendGeometry(b, g)
	if err != nil {
		return b, errors.WithMessage(err, "geometry")
	}

	return append(b, '}'), nil
}

func appendProperties(b []byte, members []Member) ([]byte, error) {
	b = append(b, '{')
	for i, m := range members {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendString(b, m.Name)
		b = append(b, ':')

		var err error
		if m.Value.Kind() == KindList {
			b, err = appendScalarList(b, m.Value.list)
		} else {
			b, err = appendScalar(b, m.Value)
		}
		if err != nil {
			return b, errors.WithMessagef(err, "properties.%s", m.Name)
		}
	}
	return append(b, '}'), nil
}

func appendScalarList(b []byte, items []Value) ([]byte, error) {
	b = append(b, '[')
	for i, item := range items {
		if i > 0 {
			b = append(b, ',')
		}
		var err error
		if b, err = appendScalar(b, item); err != nil {
			return b, errors.WithMessagef(err, "[%d]", i)
		}
	}
	return append(b, ']'), nil
}

// appendScalar writes a string, float or integer property value.
func appendScalar(b []byte, v Value) ([]byte, error) {
	switch v.Kind() {
	case KindString:
		return appendString(b, v.s), nil
	case KindInt:
		return strconv.AppendInt(b, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return b, errors.Wrapf(geo.ErrUnsupportedPropertyType, "%v is not a json number", v.f)
		}
		return geo.AppendCoord(b, v.f), nil
	}
	return b, errors.Wrapf(geo.ErrUnsupportedPropertyType, "%s", v.Kind())
}

func appendGeometry(b []byte, g Value) ([]byte, error) {
	if g.Kind() != KindMapping {
		return b, errors.Wrapf(geo.ErrInvalidGeometryType, "geometry is %s", g.Kind())
	}

	typ, _ := g.Get("type")
	t, ok := geometryTypes[typ.s]
	if typ.Kind() != KindString || !ok {
		return b, errors.Wrapf(geo.ErrInvalidGeometryType, "%q is not a polygon type", typ.s)
	}

	raw, ok := g.Get("coordinates")
	if !ok {
		return b, errors.Wrap(geo.ErrMissingRequiredMember, "coordinates")
	}

	var (
		c   geo.Coordinates
		err error
	)
	if t == geo.TypePolygon {
		c, err = polygonCoords(raw)
	} else {
		c, err = multiPolygonCoords(raw)
	}
	if err != nil {
		return b, err
	}

	b = append(b, `{"type":`...)
	b = appendString(b, typ.s)
	b = append(b, `,"coordinates":`...)
	if b, err = geo.AppendCoordinates(b, t, c); err != nil {
		return b, err
	}
	return append(b, '}'), nil
}

// polygonCoords reads a table as a polygon without holes and a list of
// tables as a polygon with interior rings.
func polygonCoords(v Value) (geo.Coordinates, error) {
	switch v.Kind() {
	case KindTable:
		return tableRing(v.table)
	case KindList:
		rs := make(geo.RingSet, len(v.list))
		for i, item := range v.list {
			if item.Kind() != KindTable {
				return nil, errors.Wrapf(geo.ErrInvalidCoordinates, "ring %d is %s, want table", i, item.Kind())
			}
			r, err := tableRing(item.table)
			if err != nil {
				return nil, errors.WithMessagef(err, "ring %d", i)
			}
			rs[i] = r
		}
		return rs, nil
	}
	return nil, errors.Wrapf(geo.ErrInvalidCoordinates, "polygon coordinates are %s", v.Kind())
}

func multiPolygonCoords(v Value) (geo.Coordinates, error) {
	if v.Kind() != KindList {
		return nil, errors.Wrapf(geo.ErrInvalidCoordinates, "multipolygon coordinates are %s", v.Kind())
	}

	out := make(geo.RingSetList, len(v.list))
	for i, item := range v.list {
		c, err := polygonCoords(item)
		if err != nil {
			return nil, errors.WithMessagef(err, "polygon %d", i)
		}
		out[i] = c
	}
	return out, nil
}

func tableRing(rows [][]float64) (geo.Ring, error) {
	r := make(geo.Ring, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, errors.Wrapf(geo.ErrInvalidCoordinates, "row %d has %d columns, want 2", i, len(row))
		}
		r[i] = geo.Coord{row[0], row[1]}
	}
	return r, nil
}

func appendString(b []byte, s string) []byte {
	// marshaling a string cannot fail
	q, _ := json.Marshal(s)
	return append(b, q...)
}
