// Package output renders command results as JSON or YAML and writes them
// to a file or stdout.
package output

import (
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geocodec/internal/geo"
)

// Format options.
type Format struct {
	Name   string // json or yaml
	Indent string
	Pretty bool
}

// Marshal renders v. JSON object members are written in lexical order.
func Marshal(v any, f Format) ([]byte, error) {
	switch f.Name {
	case "", "json":
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshal json")
		}
		if f.Pretty {
			data = Pretty(data, f.Indent)
		}
		return data, nil

	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, "marshal yaml")
		}
		return data, nil
	}

	return nil, errors.Errorf("unknown output format %q", f.Name)
}

// Pretty indents JSON text.
func Pretty(data []byte, indent string) []byte {
	if indent == "" {
		indent = "  "
	}
	return pretty.PrettyOptions(data, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   indent,
		SortKeys: false,
	})
}

// Write writes data to path, or to stdout when path is empty. Text written
// to stdout always ends with a newline.
func Write(path string, data []byte) error {
	if path == "" {
		return writeTo(os.Stdout, data)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(geo.ErrIoUnavailable, "write %s: %v", path, err)
	}
	return nil
}

func writeTo(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// ReadInput returns the input argument, or all of stdin when it is empty.
// The result is a path or literal text for the document loaders.
func ReadInput(input string) (string, error) {
	if input != "" {
		return input, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrapf(geo.ErrIoUnavailable, "read stdin: %v", err)
	}
	return string(data), nil
}
