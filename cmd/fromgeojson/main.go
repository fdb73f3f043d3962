package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/config"
	"github.com/woozymasta/geocodec/internal/geojson"
	"github.com/woozymasta/geocodec/internal/logger"
	"github.com/woozymasta/geocodec/internal/output"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to configuration file"`
	Input       string `short:"i" long:"in"      description:"Input file path or literal GeoJSON text. Reads from stdin if empty"`
	Output      string `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	Mode        string `short:"m" long:"mode"    description:"Decoding mode" choice:"strict" choice:"schema" choice:"json" choice:"dump" choice:"normalize" default:"strict"`
	GeometryKey string `short:"k" long:"key"     description:"Member holding the geometry of schema documents with an unknown type"`
	Shape       string `short:"s" long:"shape"   description:"Host container for rings" choice:"matrix" choice:"list"`
	Format      string `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml"`
	Flatten     bool   `long:"flatten"           description:"Skip feature properties"`
	Average     bool   `short:"a" long:"average" description:"Compute the centroid and include a dump of the input"`
	Pretty      bool   `short:"p" long:"pretty"  description:"Indent JSON output"`
	Rewind      bool   `long:"rewind"            description:"Normalize mode: orient polygon rings by the right-hand rule"`
	FillBBox    bool   `long:"fill-bbox"         description:"Normalize mode: compute missing feature and collection bboxes"`
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

	input, err := output.ReadInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	result, err := run(cfg, opts.Mode, input)
	if err != nil {
		log.Fatal().Err(err).Str("mode", opts.Mode).Msg("Failed to decode input")
	}

	var data []byte
	if text, ok := result.(string); ok {
		data = []byte(text)
		if cfg.Output.Pretty {
			data = output.Pretty(data, cfg.Output.Indent)
		}
	} else {
		data, err = output.Marshal(result, output.Format{
			Name:   cfg.Output.Format,
			Indent: cfg.Output.Indent,
			Pretty: cfg.Output.Pretty,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to marshal result")
		}
	}

	if err := output.Write(opts.Output, data); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}

	if opts.Output != "" {
		log.Info().
			Str("out", opts.Output).
			Str("mode", opts.Mode).
			Str("format", cfg.Output.Format).
			Msg("Document converted")
	}
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(cfg *config.Config, opts Options) {
	if opts.Shape != "" {
		cfg.Decode.Shape = opts.Shape
	}
	if opts.GeometryKey != "" {
		cfg.Decode.GeometryKey = opts.GeometryKey
	}
	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	cfg.Decode.Flatten = cfg.Decode.Flatten || opts.Flatten
	cfg.Decode.Average = cfg.Decode.Average || opts.Average
	cfg.Output.Pretty = cfg.Output.Pretty || opts.Pretty
	cfg.Decode.Rewind = cfg.Decode.Rewind || opts.Rewind
	cfg.Decode.FillBBox = cfg.Decode.FillBBox || opts.FillBBox
}

// run decodes input according to mode. The dump and normalize modes return
// text, the others a value to marshal.
func run(cfg *config.Config, mode, input string) (any, error) {
	switch mode {
	case "json":
		return geojson.FromJSON(input)
	case "dump":
		return geojson.Dump(input)
	case "normalize":
		return geojson.Normalize(input, cfg.Decode.NormalizeOptions())
	}

	dopts, err := cfg.Decode.Options()
	if err != nil {
		return nil, err
	}

	var res *geojson.Result
	if mode == "schema" {
		res, err = geojson.DecodeSchema(input, cfg.Decode.GeometryKey, dopts)
	} else {
		res, err = geojson.Decode(input, dopts)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().Str("kind", res.Kind.String()).Msg("Document decoded")

	if !dopts.Average {
		return res.Value, nil
	}

	out := map[string]any{
		"result":    res.Value,
		"json_dump": res.Dump,
	}
	if res.Centroid != nil {
		out["centroid"] = []float64{res.Centroid.Lon(), res.Centroid.Lat()}
	}
	return out, nil
}
