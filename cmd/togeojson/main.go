package main

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/config"
	"github.com/woozymasta/geocodec/internal/logger"
	"github.com/woozymasta/geocodec/internal/output"
	"github.com/woozymasta/geocodec/internal/writer"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file"`
	Input      string `short:"i" long:"in"     description:"YAML feature records file. Reads from stdin if empty"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Minify     bool   `short:"m" long:"minify" description:"Strip the newlines between features"`
	Pretty     bool   `short:"p" long:"pretty" description:"Indent the output"`
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

	var data []byte
	if opts.Input != "" {
		data, err = os.ReadFile(opts.Input)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read records")
	}

	records, err := writer.LoadYAML(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse records")
	}

	transform := opts.Minify || cfg.Output.Minify || opts.Pretty || cfg.Output.Pretty

	if opts.Output != "" && !transform {
		if _, err := writer.WriteFile(opts.Output, records); err != nil {
			log.Fatal().Err(err).Msg("Failed to write features")
		}
		log.Info().
			Int("features", len(records)).
			Str("out", opts.Output).
			Msg("FeatureCollection written")
		return
	}

	text, err := writer.Write(records)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write features")
	}

	switch {
	case opts.Minify || cfg.Output.Minify:
		if text, err = writer.Minify(text); err != nil {
			log.Fatal().Err(err).Msg("Failed to minify output")
		}
	case opts.Pretty || cfg.Output.Pretty:
		text = string(output.Pretty([]byte(text), cfg.Output.Indent))
	}

	if err := output.Write(opts.Output, []byte(text)); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
