package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/config"
	"github.com/woozymasta/geocodec/internal/geo"
	"github.com/woozymasta/geocodec/internal/geojson"
	"github.com/woozymasta/geocodec/internal/logger"
	"github.com/woozymasta/geocodec/internal/output"
	"github.com/woozymasta/geocodec/internal/preview"
)

const defaultZoomLimit = 2

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"     env:"CONFIG_FILE" description:"Path to configuration file"`
	Input       string `short:"i" long:"in"         description:"Input file path or literal GeoJSON text. Reads from stdin if empty"`
	Output      string `short:"o" long:"out"        description:"Output WebP file" default:"preview.webp"`
	TilesDir    string `short:"t" long:"tiles-dir"  description:"Also slice the preview into a z/x/y tile pyramid in this folder"`
	GeometryKey string `short:"k" long:"key"        description:"Read the input as a schema document with the geometry under this member"`
	Size        int    `short:"s" long:"size"       description:"Image width and height in pixels"`
	ZoomLimit   *int   `short:"z" long:"zoom-limit" description:"Tiles zoom limit (default 2)"`
	Force       bool   `short:"f" long:"force"      description:"Force overwrite of existing tiles"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	applyFlags(cfg, opts)

	popts, err := cfg.Preview.Options()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid preview configuration")
	}

	input, err := output.ReadInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	var res *geojson.Result
	if opts.GeometryKey != "" {
		res, err = geojson.DecodeSchema(input, opts.GeometryKey, geojson.Options{Flatten: true})
	} else {
		res, err = geojson.Decode(input, geojson.Options{Flatten: true})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode input")
	}

	geoms := geometries(res)
	img, err := preview.Render(geoms, popts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render preview")
	}

	if err := preview.WriteFile(opts.Output, img, popts); err != nil {
		log.Fatal().Err(err).Msg("Failed to write preview")
	}

	log.Info().
		Str("out", opts.Output).
		Int("geometries", len(geoms)).
		Int("size", popts.Size).
		Msg("Preview written")

	if opts.TilesDir == "" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := preview.WriteTiles(ctx, img, opts.TilesDir, cfg.Preview.ZoomLimit, cfg.Preview.TileSize, opts.Force, popts); err != nil {
		log.Fatal().Err(err).Msg("Failed to write tiles")
	}

	log.Info().
		Str("dir", opts.TilesDir).
		Int("zoom", cfg.Preview.ZoomLimit).
		Msg("Tiles written")
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(cfg *config.Config, opts Options) {
	if opts.Size > 0 {
		cfg.Preview.Size = opts.Size
	}
	switch {
	case opts.ZoomLimit != nil:
		cfg.Preview.ZoomLimit = *opts.ZoomLimit
	case cfg.Preview.ZoomLimit <= 0:
		cfg.Preview.ZoomLimit = defaultZoomLimit
	}
}

// geometries gathers every geometry held by a decoded document.
func geometries(res *geojson.Result) []geo.Geometry {
	var out []geo.Geometry
	add := func(g *geo.Geometry) {
		if g != nil {
			out = append(out, *g)
		}
	}

	switch res.Kind {
	case geojson.KindGeometry, geojson.KindGeometryCollection:
		add(res.Geometry)
	case geojson.KindFeature:
		add(res.Feature.Geometry)
	case geojson.KindFeatureCollection:
		for _, f := range res.Collection.Features {
			add(f.Geometry)
		}
	case geojson.KindSchemaFeature:
		add(res.SchemaFeature.Geometry)
	case geojson.KindSchemaCollection:
		for _, f := range res.SchemaCollection.Features {
			add(f.Geometry)
		}
	case geojson.KindSchemaObject:
		add(res.SchemaObject.Geometry)
	}
	return out
}
