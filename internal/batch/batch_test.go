package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geocodec/internal/geo"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0644))
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.json": "2",
		"a.json": "1",
		"10.txt": "3",
		"_-_":    "skipped",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	names, err := ListFiles(dir, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.txt", "a.json", "b.json"}, names)

	paths, err := ListFiles(dir, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "10.txt"), paths[0])

	_, err = ListFiles(filepath.Join(dir, "missing"), true)
	assert.True(t, errors.Is(err, geo.ErrIoUnavailable))
}

func TestMergeOrderAndAppend(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"c.json": `{"c":3}`,
		"a.json": `{"a":1}`,
		"b.json": `{"b":2}`,
	})

	output := filepath.Join(t.TempDir(), "merged.json")
	require.NoError(t, os.WriteFile(output, []byte("head\n"), 0644))

	n, err := Merge(context.Background(), dir, output, "\n")
	require.NoError(t, err)
	assert.Equal(t, int64(len(`{"a":1}`)*3+2), n)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "head\n{\"a\":1}\n{\"b\":2}\n{\"c\":3}", string(data))
}

func TestMergeEmptyFolder(t *testing.T) {
	_, err := Merge(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out"), "\n")
	assert.ErrorContains(t, err, "is empty")
}

func TestMergeCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Merge(ctx, dir, filepath.Join(t.TempDir(), "out"), "\n")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1.geojson": `{"type":"Feature","id":1,"geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":"a"}}`,
		"2.geojson": `{"type":"Feature","id":2,"geometry":{"type":"LineString","coordinates":[[-3,0],[5,8]]}}`,
		"3.geojson": `{"type":"Feature","id":3,"properties":{}}`,
	})
	files, err := ListFiles(dir, true)
	require.NoError(t, err)

	out, err := Collect(context.Background(), files, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","bbox":[-3,0,5,8],"features":[
		{"type":"Feature","id":1,"geometry":{"type":"Point","coordinates":[1,2]},"properties":{"n":"a"}},
		{"type":"Feature","id":2,"geometry":{"type":"LineString","coordinates":[[-3,0],[5,8]]}},
		{"type":"Feature","id":3,"properties":{}}
	]}`, out)

	out, err = Collect(context.Background(), files[:1], []float64{0, 0, 10, 10})
	require.NoError(t, err)
	assert.Contains(t, out, `"bbox":[0,0,10,10]`)
}

func TestCollectRejectsNonFeature(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"p.geojson": `{"type":"Point","coordinates":[1,2]}`})

	_, err := Collect(context.Background(), []string{filepath.Join(dir, "p.geojson")}, nil)
	assert.True(t, errors.Is(err, geo.ErrInvalidGeometryType), "%v", err)
}

func TestCollectWrapsUndecodableGeometries(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"1.geojson": `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2,30]},"properties":{}}`,
		"2.geojson": `{"type":"Feature","geometry":null,"properties":{}}`,
		"3.geojson": `{"type":"Feature","geometry":{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[4,6]}]}}`,
	})
	files, err := ListFiles(dir, true)
	require.NoError(t, err)

	out, err := Collect(context.Background(), files[:2], []float64{0, 0, 1, 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","bbox":[0,0,1,1],"features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2,30]},"properties":{}},
		{"type":"Feature","geometry":null,"properties":{}}
	]}`, out)

	// only the collection member contributes to the computed bbox
	out, err = Collect(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `"bbox":[4,6,4,6]`)
	assert.Contains(t, out, `"coordinates":[1,2,30]`)
}

func TestCollectMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"bad.geojson": `{"type":"Feature",`})

	_, err := Collect(context.Background(), []string{filepath.Join(dir, "bad.geojson")}, []float64{0, 0, 1, 1})
	assert.True(t, errors.Is(err, geo.ErrMalformedInput), "%v", err)
}
