package preview

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geocodec/internal/geo"
)

func square() geo.Geometry {
	return geo.Geometry{
		Type:        geo.TypePolygon,
		Coordinates: geo.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
	}
}

func opaque(opts Options) Options {
	opts.Fill = color.RGBA{0xff, 0, 0, 0xff}
	return opts
}

// assertNear compares colors allowing for resampling rounding.
func assertNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	for i, pair := range [][2]uint8{{want.R, got.R}, {want.G, got.G}, {want.B, got.B}, {want.A, got.A}} {
		assert.InDelta(t, float64(pair[0]), float64(pair[1]), 4, "channel %d: want %v got %v", i, want, got)
	}
}

func TestRenderFillsPolygon(t *testing.T) {
	opts := opaque(DefaultOptions())
	opts.Size = 64

	img, err := Render([]geo.Geometry{square()}, opts)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	center := img.RGBAAt(32, 32)
	assert.Greater(t, int(center.R), 200)
	assert.Less(t, int(center.G), 50)

	assertNear(t, opts.Background, img.RGBAAt(0, 0))
}

func TestRenderHoleStaysEmpty(t *testing.T) {
	opts := opaque(DefaultOptions())
	opts.Size = 64
	opts.StrokeWidth = 0.5

	donut := geo.Geometry{
		Type: geo.TypePolygon,
		Coordinates: geo.RingSet{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{3, 3}, {3, 7}, {7, 7}, {7, 3}, {3, 3}},
		},
	}

	img, err := Render([]geo.Geometry{donut}, opts)
	require.NoError(t, err)

	assertNear(t, opts.Background, img.RGBAAt(32, 32))
	ring := img.RGBAAt(10, 32)
	assert.Greater(t, int(ring.R), 200)
	assert.Less(t, int(ring.G), 50)
}

func TestRenderEmptyAndInvalid(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 8

	img, err := Render(nil, opts)
	require.NoError(t, err)
	assertNear(t, opts.Background, img.RGBAAt(4, 4))

	opts.Size = 0
	_, err = Render(nil, opts)
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 32
	opts.Lossless = true

	img, err := Render([]geo.Geometry{
		square(),
		{Type: geo.TypePoint, Coordinates: geo.Coord{5, 5}},
		{Type: geo.TypeLineString, Coordinates: geo.Ring{{0, 0}, {10, 10}}},
	}, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	decoded, err := webp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestWriteTiles(t *testing.T) {
	opts := DefaultOptions()
	opts.Size = 64

	img, err := Render([]geo.Geometry{square()}, opts)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteTiles(context.Background(), img, dir, 1, 16, false, opts))

	for _, p := range []string{"0/0/0.webp", "1/0/0.webp", "1/1/1.webp"} {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p)))
		require.NoError(t, err, p)
		assert.Positive(t, info.Size())
	}
}
