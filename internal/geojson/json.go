package geojson

import (
	"github.com/woozymasta/geocodec/internal/document"
)

// FromJSON reads any JSON document from a file path or literal text and
// projects it into host values without interpreting geometries.
func FromJSON(input string) (any, error) {
	v, err := document.Load(input)
	if err != nil {
		return nil, err
	}
	return document.Project(v), nil
}

// Dump reads a JSON document and returns its canonical compact text.
func Dump(input string) (string, error) {
	v, err := document.Load(input)
	if err != nil {
		return "", err
	}
	return document.Dump(v)
}
