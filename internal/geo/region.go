package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrInvalidGeometry is returned when a boundary stays invalid after repair.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrUnsupportedGeometry is returned for geometries that are not (multi)polygons.
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
)

// Region is the area of one country, one polygon per administrative part.
type Region struct {
	Polygons orb.MultiPolygon
}

// BuildRegion constructs a Region from a boundary geometry.
//
// A multipolygon with several parts yields one polygon per part built from
// the part's outer ring. A polygon, or a multipolygon with a single part,
// yields one polygon from its outer ring. Holes are not carried over.
// Parts that are not simple are repaired and the result is validated again.
func BuildRegion(g orb.Geometry) (Region, error) {
	rings, err := outerRings(g)
	if err != nil {
		return Region{}, err
	}

	var region Region
	for i, ring := range rings {
		if IsSimple(ring) {
			region.Polygons = append(region.Polygons, orb.Polygon{closeRing(openRing(ring))})
			continue
		}

		repaired := Repair(ring)
		if len(repaired) == 0 {
			return Region{}, fmt.Errorf("%w: part %d has no area", ErrInvalidGeometry, i)
		}
		for _, poly := range repaired {
			for _, r := range poly {
				if !IsSimple(r) {
					return Region{}, fmt.Errorf("%w: part %d is not simple after repair", ErrInvalidGeometry, i)
				}
			}
		}
		region.Polygons = append(region.Polygons, repaired...)
	}

	if len(region.Polygons) == 0 {
		return Region{}, fmt.Errorf("%w: no rings", ErrInvalidGeometry)
	}

	return region, nil
}

func outerRings(g orb.Geometry) ([]orb.Ring, error) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, nil
		}
		return []orb.Ring{g[0]}, nil

	case orb.MultiPolygon:
		rings := make([]orb.Ring, 0, len(g))
		for _, part := range g {
			if len(part) == 0 {
				continue
			}
			rings = append(rings, part[0])
		}
		return rings, nil

	case nil:
		return nil, fmt.Errorf("%w: missing geometry", ErrUnsupportedGeometry)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

// Within reports whether the point lies strictly inside the region.
// Points on any edge or vertex are outside.
func (r Region) Within(p orb.Point) bool {
	for _, poly := range r.Polygons {
		if polygonWithin(poly, p) {
			return true
		}
	}

	return false
}

// Bound returns the bounding box of all parts.
func (r Region) Bound() orb.Bound {
	return r.Polygons.Bound()
}

func polygonWithin(poly orb.Polygon, p orb.Point) bool {
	if len(poly) == 0 || !poly.Bound().Contains(p) {
		return false
	}

	for _, ring := range poly {
		if onRing(ring, p) {
			return false
		}
	}

	return planar.PolygonContains(poly, p)
}

// onRing reports whether p lies on any edge of the ring.
func onRing(r orb.Ring, p orb.Point) bool {
	pts := openRing(r)
	n := len(pts)
	for i := 0; i < n; i++ {
		if onSegment(pts[i], pts[(i+1)%n], p) {
			return true
		}
	}

	return false
}
