package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"
	"github.com/woozymasta/wolfmap/internal/logger"
	"github.com/woozymasta/wolfmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file"`
	Input      string `short:"i" long:"in"     description:"Wolf feed file path or URL. Fetches the configured feed if empty"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
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

	projector, err := geo.NewProjector(cfg.Projection)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize projection")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	feed, err := readFeed(ctx, cfg, opts.Input)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read wolf feed")
	}

	sightings, err := processor.ExtractSightings(feed, projector)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract sightings")
	}

	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(processor.Records(sightings))
	} else {
		outputData, err = json.MarshalIndent(processor.FeatureCollection(sightings), "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal sightings")
	}

	if opts.Output == "" {
		fmt.Println(string(outputData))
		return
	}

	if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
	}

	log.Info().
		Int("sightings", len(sightings)).
		Str("path", opts.Output).
		Str("format", opts.Format).
		Msg("Sightings exported")
}

// readFeed loads the feed from a local file, a URL, or the configured source.
func readFeed(ctx context.Context, cfg *config.Config, input string) (*processor.SightingFeed, error) {
	if input != "" && !isURL(input) {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return processor.DecodeSightings(data)
	}

	url := cfg.Sightings.URL
	if input != "" {
		url = input
	}

	return processor.FetchSightings(ctx, processor.NewClient(cfg.Timeout), url)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
