package geojson

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geocodec/internal/geo"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts NormalizeOptions
		want string
	}{
		{
			name: "geometry members sorted",
			in:   `{"coordinates":[1.5,2],"type":"Point","extra":true}`,
			want: `{"coordinates":[1.5,2],"type":"Point"}`,
		},
		{
			name: "geometry collection",
			in:   `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`,
			want: `{"geometries":[{"coordinates":[1,2],"type":"Point"}],"type":"GeometryCollection"}`,
		},
		{
			name: "feature with underscore id",
			in:   `{"type":"Feature","_id":"a","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":1}}`,
			want: `{"geometry":{"coordinates":[1,2],"type":"Point"},"id":"a","properties":{"n":1},"type":"Feature"}`,
		},
		{
			name: "flatten drops properties",
			in:   `{"type":"Feature","id":7,"properties":{"n":1}}`,
			opts: NormalizeOptions{Flatten: true},
			want: `{"id":7,"type":"Feature"}`,
		},
		{
			name: "rewind and bbox",
			in: `{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[1,0],[0,0]]]}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[3,-2]},"bbox":[9,9,9,9]}
			]}`,
			opts: NormalizeOptions{Rewind: true, BBox: true},
			want: `{"bbox":[0,-2,3,1],"features":[` +
				`{"bbox":[0,0,1,1],"geometry":{"coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]],"type":"Polygon"},"type":"Feature"},` +
				`{"bbox":[9,9,9,9],"geometry":{"coordinates":[3,-2],"type":"Point"},"type":"Feature"}` +
				`],"type":"FeatureCollection"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	_, err := Normalize(`{"type":"Point","coordinates":[1,2,3]}`, NormalizeOptions{})
	assert.True(t, errors.Is(err, geo.ErrInvalidCoordinates), "%v", err)

	_, err = Normalize(`{"type":"Feature",`, NormalizeOptions{})
	assert.True(t, errors.Is(err, geo.ErrMalformedInput), "%v", err)
}
