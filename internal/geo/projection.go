// Package geo handles country regions, containment tests and coordinate conversions.
package geo

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

// WGS84 is the geographic destination of every projection.
const WGS84 = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"

// Projector converts planar grid coordinates (easting, northing) into
// WGS 84 latitude and longitude.
//
// Building the transform parses both definitions and resolves datum shifts,
// so one Projector is created per run and reused for every point.
type Projector struct {
	transform proj.Transformer
}

// NewProjector builds a Projector from a proj4 definition of the source grid.
func NewProjector(source string) (*Projector, error) {
	src, err := proj.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse source projection: %w", err)
	}

	dst, err := proj.Parse(WGS84)
	if err != nil {
		return nil, fmt.Errorf("parse WGS84 projection: %w", err)
	}

	transform, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("build transform: %w", err)
	}

	return &Projector{transform: transform}, nil
}

// Project converts a grid coordinate to latitude and longitude in degrees.
// Coordinates outside the grid's domain are extrapolated, not rejected.
func (p *Projector) Project(x, y float64) (lat, lon float64, err error) {
	lon, lat, err = p.transform(x, y)
	if err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}
