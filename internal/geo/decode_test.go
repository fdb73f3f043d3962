package geo

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T, text string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func TestDecodeGeometry(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Geometry
		centroid Coord
	}{
		{
			name:     "point",
			input:    `{"type":"Point","coordinates":[30.5,-10]}`,
			want:     Geometry{Type: TypePoint, Coordinates: Coord{30.5, -10}},
			centroid: Coord{30.5, -10},
		},
		{
			name:     "linestring",
			input:    `{"type":"LineString","coordinates":[[0,0],[2,0],[2,2],[0,2]]}`,
			want:     Geometry{Type: TypeLineString, Coordinates: Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}},
			centroid: Coord{1, 1},
		},
		{
			name:     "multipoint",
			input:    `{"type":"MultiPoint","coordinates":[[1,1],[3,5]]}`,
			want:     Geometry{Type: TypeMultiPoint, Coordinates: Ring{{1, 1}, {3, 5}}},
			centroid: Coord{2, 3},
		},
		{
			name:     "polygon without holes",
			input:    `{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4]]]}`,
			want:     Geometry{Type: TypePolygon, Coordinates: Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}}},
			centroid: Coord{2, 2},
		},
		{
			name:  "multilinestring",
			input: `{"type":"MultiLineString","coordinates":[[[0,0],[2,2]],[[10,10],[10,20],[10,30]]]}`,
			want: Geometry{Type: TypeMultiLineString, Coordinates: RingSet{
				{{0, 0}, {2, 2}},
				{{10, 10}, {10, 20}, {10, 30}},
			}},
			centroid: Coord{5.5, 10.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, c, err := DecodeGeometry(mustValue(t, tt.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, g); diff != "" {
				t.Errorf("geometry mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.centroid, c)
		})
	}
}

func TestDecodeCentroidMeanOfMeans(t *testing.T) {
	// exterior mean is [1,1] over 4 points, hole mean is [0.5,0.5] over 5 points
	input := `{"type":"Polygon","coordinates":[
		[[0,0],[2,0],[2,2],[0,2]],
		[[0,0],[1,0],[1,1],[0,1],[0.5,0.5]]
	]}`

	g, c, err := DecodeGeometry(mustValue(t, input))
	require.NoError(t, err)
	require.IsType(t, RingSet{}, g.Coordinates)
	assert.Equal(t, Coord{0.75, 0.75}, c)

	var all []Coord
	for _, r := range g.Coordinates.(RingSet) {
		all = append(all, r...)
	}
	pointMean, ok := Mean(all)
	require.True(t, ok)
	assert.NotEqual(t, pointMean, c)
}

func TestDecodePolygonHoleDetection(t *testing.T) {
	input := `{"type":"Polygon","coordinates":[
		[[0,0],[10,0],[10,10],[0,10],[0,0]],
		[[2,2],[4,2],[3,4],[2,2]]
	]}`

	g, _, err := DecodeGeometry(mustValue(t, input))
	require.NoError(t, err)

	rs, ok := g.Coordinates.(RingSet)
	require.True(t, ok, "got %T", g.Coordinates)
	require.Len(t, rs, 2)
	assert.Len(t, rs[0], 5)
	assert.Len(t, rs[1], 4)
}

func TestDecodeMultiPolygonMixedHoles(t *testing.T) {
	input := `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[2,0],[2,2],[0,2]]],
		[
			[[0,0],[2,0],[2,2],[0,2]],
			[[0,0],[1,0],[1,1],[0,1],[0.5,0.5]]
		]
	]}`

	g, c, err := DecodeGeometry(mustValue(t, input))
	require.NoError(t, err)

	list, ok := g.Coordinates.(RingSetList)
	require.True(t, ok, "got %T", g.Coordinates)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Depth())
	assert.Equal(t, 2, list[1].Depth())

	// [1,1] for the plain polygon, [0.75,0.75] for the one with a hole
	assert.Equal(t, Coord{0.875, 0.875}, c)
}

func TestDecodeGeometryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"unknown type", `{"type":"Curve","coordinates":[1,2]}`, ErrInvalidGeometryType},
		{"missing type", `{"coordinates":[1,2]}`, ErrInvalidGeometryType},
		{"collection is not bare", `{"type":"GeometryCollection","geometries":[]}`, ErrInvalidGeometryType},
		{"not an object", `[1,2]`, ErrInvalidGeometryType},
		{"empty polygon", `{"type":"Polygon","coordinates":[]}`, ErrInvalidGeometryType},
		{"empty linestring", `{"type":"LineString","coordinates":[]}`, ErrInvalidGeometryType},
		{"empty point", `{"type":"Point","coordinates":[]}`, ErrInvalidGeometryType},
		{"point without coordinates", `{"type":"Point"}`, ErrInvalidGeometryType},
		{"three dimensions", `{"type":"Point","coordinates":[1,2,3]}`, ErrInvalidCoordinates},
		{"string component", `{"type":"LineString","coordinates":[[1,2],["a",2]]}`, ErrInvalidCoordinates},
		{"empty ring", `{"type":"MultiLineString","coordinates":[[[1,2]],[]]}`, ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeGeometry(mustValue(t, tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "unexpected error: %v", err)
		})
	}
}

func TestDecodeCoordinatesRingCountHint(t *testing.T) {
	coords := mustValue(t, `[[[0,0],[1,0],[1,1]]]`)

	c, _, err := DecodeCoordinates(TypePolygon, coords, 1)
	require.NoError(t, err)
	assert.IsType(t, Ring{}, c)

	_, _, err = DecodeCoordinates(TypePolygon, coords, 0)
	assert.True(t, errors.Is(err, ErrInvalidGeometryType))

	_, _, err = DecodeCoordinates(TypeInvalid, coords, 1)
	assert.True(t, errors.Is(err, ErrInvalidGeometryType))

	_, _, err = DecodeCoordinates(TypePoint, mustValue(t, `[1,2]`), 0)
	assert.True(t, errors.Is(err, ErrInvalidGeometryType))
}

func TestProjectShapes(t *testing.T) {
	ring := Ring{{1, 2}, {3, 4}}

	assert.Equal(t, [][2]float64{{1, 2}, {3, 4}}, Project(ring, ShapeMatrix))
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, Project(ring, ShapeList))
	assert.Equal(t, []float64{1, 2}, Project(Coord{1, 2}, ShapeList))

	nested := Project(RingSetList{ring, RingSet{ring, ring}}, ShapeList)
	require.IsType(t, []any{}, nested)
	items := nested.([]any)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, items[0])
	assert.Len(t, items[1], 2)
}

func TestParseGeometryType(t *testing.T) {
	for _, name := range []string{"Point", "LineString", "MultiPoint", "Polygon", "MultiLineString", "MultiPolygon", "GeometryCollection"} {
		gt, ok := ParseGeometryType(name)
		require.True(t, ok, name)
		assert.Equal(t, name, gt.String())
	}

	_, ok := ParseGeometryType("POLYGON")
	assert.False(t, ok)
	assert.True(t, IsKnownKind("Feature"))
	assert.True(t, IsKnownKind("FeatureCollection"))
	assert.False(t, IsKnownKind("MyThing"))
}
