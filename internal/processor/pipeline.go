package processor

import (
	"context"
	"net/http"
	"strings"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// Reporter receives the outcome for every requested country.
type Reporter interface {
	// NotFound is called when the boundary dataset has no such country.
	NotFound(country string) error
	// Unusable is called when the country boundary cannot form a valid region.
	Unusable(country string, err error) error
	// Found opens the results of a country, Result calls for it follow.
	Found(country string) error
	Result(country string, r Result) error
	Flush() error
}

// Snapshotter renders a region with its checked sightings.
type Snapshotter interface {
	Snapshot(country string, region geo.Region, results []Result) error
}

// Pipeline ties the feeds, the projector and the output together for one run.
type Pipeline struct {
	Client    *http.Client
	Config    *config.Config
	Projector Projector
	Reporter  Reporter

	// optional
	Snapshotter Snapshotter

	// ignore the boundary cache and fetch again
	Refresh bool
}

// Run fetches both feeds once and reports every country in input order.
// Fetch, decode and projection errors abort the run.
func (p *Pipeline) Run(ctx context.Context, countries []string) error {
	boundaries, err := LoadBoundaries(ctx, p.Client, p.Config.Boundaries, p.Refresh)
	if err != nil {
		return err
	}

	feed, err := FetchSightings(ctx, p.Client, p.Config.Sightings.URL)
	if err != nil {
		return err
	}

	sightings, err := ExtractSightings(feed, p.Projector)
	if err != nil {
		return err
	}

	log.Info().
		Int("countries", len(countries)).
		Int("boundaries", len(boundaries.Collection.Features)).
		Int("sightings", len(sightings)).
		Msg("Checking sightings")

	for _, country := range countries {
		region, ok, err := boundaries.Region(country)
		if err != nil {
			log.Warn().Err(err).Str("country", country).Msg("Country boundary unusable")
			if err := p.Reporter.Unusable(country, err); err != nil {
				return err
			}
			continue
		}
		if !ok {
			if err := p.Reporter.NotFound(country); err != nil {
				return err
			}
			continue
		}

		if err := p.Reporter.Found(country); err != nil {
			return err
		}

		results := CheckSightings(region, sightings)
		for _, r := range results {
			if err := p.Reporter.Result(country, r); err != nil {
				return err
			}
		}

		if p.Snapshotter != nil {
			if err := p.Snapshotter.Snapshot(country, region, results); err != nil {
				log.Error().Err(err).Str("country", country).Msg("Failed to render snapshot")
			}
		}
	}

	return p.Reporter.Flush()
}

// ParseCountries splits a comma separated list, trimming whitespace and
// dropping empty entries. Order and duplicates are kept.
func ParseCountries(line string) []string {
	parts := strings.Split(line, ",")
	countries := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			countries = append(countries, name)
		}
	}

	return countries
}
