// Package document is the boundary between raw JSON text and the decoded
// JSON value model (nil, bool, float64, string, []any, map[string]any).
package document

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/jsonc"

	"github.com/woozymasta/geocodec/internal/geo"
)

// Resolve returns the text behind input. An existing regular file is read;
// anything else is taken as literal JSON text.
func Resolve(input string) ([]byte, error) {
	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return []byte(input), nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, errors.Wrapf(geo.ErrIoUnavailable, "read %s: %v", input, err)
	}

	log.Trace().
		Str("path", input).
		Int("bytes", len(data)).
		Msg("Input read from file")

	return data, nil
}

// Parse decodes JSON text into the value model. Line and block comments
// are accepted. A document that decodes to null is rejected like any other
// unparsable input.
func Parse(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
		return nil, errors.Wrapf(geo.ErrMalformedInput, "%v", err)
	}
	if v == nil {
		return nil, errors.Wrap(geo.ErrMalformedInput, "document is null")
	}
	return v, nil
}

// Load resolves input and parses it.
func Load(input string) (any, error) {
	data, err := Resolve(input)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Dump writes a value back to compact JSON text with object members in
// lexical order.
func Dump(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "dump json")
	}
	return string(b), nil
}
