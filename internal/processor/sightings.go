package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// SightingFeed is the wolf observation grid feed.
type SightingFeed struct {
	Features []SightingFeature `json:"features"`
}

// SightingFeature is one observation cell of the feed.
type SightingFeature struct {
	Properties SightingProperties `json:"properties"`
	Geometry   *geojson.Geometry  `json:"geometry"`
}

// SightingProperties lists the individuals seen in a cell.
// The live feed names the list "yksilot" with a "Nimi" field.
type SightingProperties struct {
	Individuals []Individual `json:"individuals,omitempty"`
	Yksilot     []yksilo     `json:"yksilot,omitempty"`
}

// Individual is a tracked wolf.
type Individual struct {
	Name string `json:"name"`
}

type yksilo struct {
	Nimi string `json:"Nimi"`
}

// Name returns the name of the first listed individual.
func (p SightingProperties) Name() (string, bool) {
	if len(p.Individuals) > 0 {
		return p.Individuals[0].Name, true
	}
	if len(p.Yksilot) > 0 {
		return p.Yksilot[0].Nimi, true
	}

	return "", false
}

// Center averages the first and third corner of the cell, floored to whole
// grid units.
func (f SightingFeature) Center() (x, y float64, ok bool) {
	if f.Geometry == nil {
		return 0, 0, false
	}

	poly, isPoly := f.Geometry.Geometry().(orb.Polygon)
	if !isPoly || len(poly) == 0 || len(poly[0]) < 3 {
		return 0, 0, false
	}

	c0, c2 := poly[0][0], poly[0][2]
	x = math.Floor((c0[0] + c2[0]) / 2)
	y = math.Floor((c0[1] + c2[1]) / 2)

	return x, y, true
}

// FetchSightings downloads and parses the wolf feed. It is never cached.
func FetchSightings(ctx context.Context, client *http.Client, url string) (*SightingFeed, error) {
	log.Info().Str("source", url).Msg("Fetching wolf sightings")

	data, err := fetch(ctx, client, url)
	if err != nil {
		return nil, fmt.Errorf("fetch sightings: %w", err)
	}

	return DecodeSightings(data)
}

// DecodeSightings parses a wolf feed document.
func DecodeSightings(data []byte) (*SightingFeed, error) {
	var feed SightingFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode sightings: %w", err)
	}

	return &feed, nil
}

// Projector converts grid coordinates to latitude and longitude.
type Projector interface {
	Project(x, y float64) (lat, lon float64, err error)
}

// Sighting is a named wolf at a geographic point, X is longitude and Y latitude.
type Sighting struct {
	Name  string
	Point orb.Point
}

// ExtractSightings reduces every feed cell to its projected center.
// Cells without an individual or without corners are skipped.
func ExtractSightings(feed *SightingFeed, p Projector) ([]Sighting, error) {
	out := make([]Sighting, 0, len(feed.Features))

	for i, f := range feed.Features {
		name, ok := f.Properties.Name()
		if !ok {
			log.Debug().Int("feature", i).Msg("Skipping sighting without individuals")
			continue
		}

		x, y, ok := f.Center()
		if !ok {
			log.Debug().Int("feature", i).Str("name", name).Msg("Skipping sighting without cell corners")
			continue
		}

		lat, lon, err := p.Project(x, y)
		if err != nil {
			return nil, fmt.Errorf("project sighting %q: %w", name, err)
		}

		out = append(out, Sighting{Name: name, Point: orb.Point{lon, lat}})
	}

	return out, nil
}
