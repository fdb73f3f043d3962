package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geocodec/internal/batch"
	"github.com/woozymasta/geocodec/internal/config"
	"github.com/woozymasta/geocodec/internal/logger"
	"github.com/woozymasta/geocodec/internal/output"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string    `short:"c" long:"config"    env:"CONFIG_FILE" description:"Path to configuration file"`
	Dir        string    `short:"d" long:"dir"       description:"Folder with the files to merge" required:"true"`
	Output     string    `short:"o" long:"out"       description:"Output file path. Merge appends to it; collect writes to stdout if empty"`
	Delimiter  *string   `short:"D" long:"delimiter" description:"Text placed between merged files (default newline)"`
	BBox       []float64 `short:"b" long:"bbox"      description:"Collection bbox value, repeat four times (computed when omitted)"`
	Collect    bool      `short:"C" long:"collect"   description:"Wrap Feature files into one FeatureCollection instead of concatenating"`
	List       bool      `short:"l" long:"list"      description:"Only print the files that would be processed"`
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
	if opts.Delimiter != nil {
		cfg.Merge.Delimiter = *opts.Delimiter
	}
	if len(opts.BBox) > 0 {
		cfg.Merge.BBox = opts.BBox
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := batch.ListFiles(opts.Dir, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list folder")
	}

	log.Info().
		Str("dir", opts.Dir).
		Int("files", len(files)).
		Bool("collect", opts.Collect).
		Msg("Starting merge")

	switch {
	case opts.List:
		for _, f := range files {
			if err := output.Write("", []byte(f)); err != nil {
				log.Fatal().Err(err).Msg("Failed to write output")
			}
		}

	case opts.Collect:
		if n := len(cfg.Merge.BBox); n != 0 && n != 4 {
			log.Fatal().Int("values", n).Msg("Bbox needs exactly four values")
		}

		text, err := batch.Collect(ctx, files, cfg.Merge.BBox)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to collect features")
		}
		if err := output.Write(opts.Output, []byte(text)); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}

	default:
		if opts.Output == "" {
			log.Fatal().Msg("Merge needs --out")
		}

		n, err := batch.Merge(ctx, opts.Dir, opts.Output, cfg.Merge.Delimiter)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to merge folder")
		}

		log.Info().
			Str("out", opts.Output).
			Str("written", humanize.IBytes(uint64(n))).
			Msg("Merge finished successfully")
	}
}
