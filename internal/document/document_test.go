package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geocodec/internal/geo"
)

func TestResolveFileOrLiteral(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "point.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Point","coordinates":[1,2]}`), 0644))

	data, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"Point","coordinates":[1,2]}`, string(data))

	literal := `{"type":"Point","coordinates":[3,4]}`
	data, err = Resolve(literal)
	require.NoError(t, err)
	assert.Equal(t, literal, string(data))

	// a missing path is not an error, it is literal (and here invalid) json
	data, err = Resolve(filepath.Join(dir, "missing.geojson"))
	require.NoError(t, err)
	_, err = Parse(data)
	assert.True(t, errors.Is(err, geo.ErrMalformedInput))
}

func TestParseComments(t *testing.T) {
	text := `{
		// line comment
		"type": "Point", /* block
		comment */ "coordinates": [1, 2]
	}`

	v, err := Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "Point", "coordinates": []any{1.0, 2.0}}, v)
}

func TestParseMalformed(t *testing.T) {
	for _, text := range []string{`{not json`, ``, `null`, `[1,`} {
		_, err := Parse([]byte(text))
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, geo.ErrMalformedInput), "%q: %v", text, err)
	}
}

func TestDumpSortsMembers(t *testing.T) {
	v, err := Parse([]byte(`{"type":"Feature","properties":{"b":1,"a":[true,null,"x"]},"geometry":null}`))
	require.NoError(t, err)

	out, err := Dump(v)
	require.NoError(t, err)
	assert.Equal(t, `{"geometry":null,"properties":{"a":[true,null,"x"],"b":1},"type":"Feature"}`, out)
}

func TestProject(t *testing.T) {
	v, err := Parse([]byte(`{"s":"x","b":false,"n":null,"f":1.5,"a":[1,{"deep":[["y"]]}],"o":{"k":{}}}`))
	require.NoError(t, err)

	got := Project(v)
	assert.Equal(t, map[string]any{
		"s": "x",
		"b": false,
		"n": nil,
		"f": 1.5,
		"a": []any{1.0, map[string]any{"deep": []any{[]any{"y"}}}},
		"o": map[string]any{"k": map[string]any{}},
	}, got)
}

func TestProjectPanicsOutsideValueModel(t *testing.T) {
	assert.Panics(t, func() { Project(struct{}{}) })
	assert.Panics(t, func() { Project([]any{int64(1)}) })
}
