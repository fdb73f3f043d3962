// Package config handles configuration loading for the command line tools.
package config

import (
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geocodec/internal/geo"
	"github.com/woozymasta/geocodec/internal/geojson"
	"github.com/woozymasta/geocodec/internal/preview"
)

// Config represents the root configuration file structure. Every section
// is optional; command line flags override the loaded values.
type Config struct {
	Decode  Decode  `yaml:"decode"`
	Output  Output  `yaml:"output"`
	Merge   Merge   `yaml:"merge"`
	Preview Preview `yaml:"preview"`
}

// Decode configures reading GeoJSON documents.
type Decode struct {
	Shape       string `yaml:"shape,omitempty"`        // matrix or list
	GeometryKey string `yaml:"geometry_key,omitempty"` // schema documents only
	Flatten     bool   `yaml:"flatten,omitempty"`
	Average     bool   `yaml:"average,omitempty"`
	Rewind      bool   `yaml:"rewind,omitempty"`    // normalize only
	FillBBox    bool   `yaml:"fill_bbox,omitempty"` // normalize only
}

// Output configures how results are written.
type Output struct {
	Format string `yaml:"format,omitempty"` // json or yaml
	Indent string `yaml:"indent,omitempty"`
	Pretty bool   `yaml:"pretty,omitempty"`
	Minify bool   `yaml:"minify,omitempty"`
}

// Merge configures folder merging and feature collection.
type Merge struct {
	Delimiter string    `yaml:"delimiter,omitempty"`
	BBox      []float64 `yaml:"bbox,omitempty"`
}

// Preview configures the raster preview.
type Preview struct {
	Background  string  `yaml:"background,omitempty"` // #rrggbb or #rrggbbaa
	Fill        string  `yaml:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty"`
	Size        int     `yaml:"size,omitempty"`
	Supersample int     `yaml:"supersample,omitempty"`
	TileSize    int     `yaml:"tile_size,omitempty"`
	ZoomLimit   int     `yaml:"zoom,omitempty"`
	StrokeWidth float32 `yaml:"stroke_width,omitempty"`
	Quality     float32 `yaml:"quality,omitempty"`
	Lossless    bool    `yaml:"lossless,omitempty"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Decode: Decode{Shape: "matrix"},
		Output: Output{Format: "json", Indent: "  "},
		Merge:  Merge{Delimiter: "\n"},
	}
}

// Load reads and parses the YAML configuration file from the specified path
// on top of Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(geo.ErrIoUnavailable, "read config %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, nil
}

// Options converts the section into decoder options.
func (d Decode) Options() (geojson.Options, error) {
	shape, ok := geo.ParseShape(d.Shape)
	if !ok {
		return geojson.Options{}, errors.Errorf("unknown shape %q, want matrix or list", d.Shape)
	}
	return geojson.Options{Shape: shape, Flatten: d.Flatten, Average: d.Average}, nil
}

// NormalizeOptions converts the section into normalizer options.
func (d Decode) NormalizeOptions() geojson.NormalizeOptions {
	return geojson.NormalizeOptions{Flatten: d.Flatten, Rewind: d.Rewind, BBox: d.FillBBox}
}

// Options converts the section into preview options. Unset values keep
// the preview defaults.
func (p Preview) Options() (preview.Options, error) {
	opts := preview.DefaultOptions()

	for _, c := range []struct {
		dst *color.RGBA
		src string
	}{
		{&opts.Background, p.Background},
		{&opts.Fill, p.Fill},
		{&opts.Stroke, p.Stroke},
	} {
		if c.src == "" {
			continue
		}
		v, err := ParseColor(c.src)
		if err != nil {
			return preview.Options{}, err
		}
		*c.dst = v
	}

	if p.Size > 0 {
		opts.Size = p.Size
	}
	if p.Supersample > 0 {
		opts.Supersample = p.Supersample
	}
	if p.StrokeWidth > 0 {
		opts.StrokeWidth = p.StrokeWidth
	}
	if p.Quality > 0 {
		opts.Quality = p.Quality
	}
	opts.Lossless = p.Lossless

	return opts, nil
}

// ParseColor reads #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, errors.Errorf("color %q must be #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "color %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
