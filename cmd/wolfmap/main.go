package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"
	"github.com/woozymasta/wolfmap/internal/logger"
	"github.com/woozymasta/wolfmap/internal/processor"
	"github.com/woozymasta/wolfmap/internal/render"
	"github.com/woozymasta/wolfmap/internal/report"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile   string   `short:"c" long:"config"        env:"CONFIG_FILE"   description:"Path to configuration file"`
	Countries    []string `short:"C" long:"countries"     env:"COUNTRIES"     env-delim:"," description:"Country to check, repeatable (read from stdin if empty)"`
	Format       string   `short:"f" long:"format"        env:"REPORT_FORMAT" description:"Report format" choice:"text" choice:"markdown" default:"text"`
	SnapshotDir  string   `short:"s" long:"snapshot-dir"  env:"SNAPSHOT_DIR"  description:"Write a WebP snapshot per country into this directory"`
	SnapshotSize int      `long:"snapshot-size" env:"SNAPSHOT_SIZE" description:"Snapshot longest side in pixels" default:"1024"`
	Refresh      bool     `short:"r" long:"refresh"       description:"Fetch boundaries even if the cache file exists"`
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

	// built once, reused for every sighting
	projector, err := geo.NewProjector(cfg.Projection)
	if err != nil {
		log.Fatal().Err(err).Str("projection", cfg.Projection).Msg("Failed to initialize projection")
	}

	countries := processor.ParseCountries(strings.Join(opts.Countries, ","))
	if len(countries) == 0 {
		countries, err = readCountries(os.Stdin, os.Stderr)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read countries")
		}
	}
	if len(countries) == 0 {
		log.Warn().Msg("No countries given, nothing to do")
		return
	}

	var reporter processor.Reporter = report.NewText(os.Stdout)
	if opts.Format == "markdown" {
		reporter = report.NewMarkdown(os.Stdout)
	}

	pipeline := &processor.Pipeline{
		Client:    processor.NewClient(cfg.Timeout),
		Config:    cfg,
		Projector: projector,
		Reporter:  reporter,
		Refresh:   opts.Refresh,
	}
	if opts.SnapshotDir != "" {
		pipeline.Snapshotter = render.New(opts.SnapshotDir, opts.SnapshotSize)
	}

	log.Debug().
		Strs("countries", countries).
		Str("cache", cfg.Boundaries.CachePath()).
		Bool("refresh", opts.Refresh).
		Msg("Starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = pipeline.Run(ctx, countries)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Run failed")
	}
}

// readCountries prompts on prompt and reads one comma separated line from in.
func readCountries(in io.Reader, prompt io.Writer) ([]string, error) {
	_, _ = fmt.Fprint(prompt, "Enter country names separated by commas: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return processor.ParseCountries(line), nil
}
