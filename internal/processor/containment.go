package processor

import "github.com/woozymasta/wolfmap/internal/geo"

// Result is a sighting annotated with whether it lies inside a region.
type Result struct {
	Sighting
	Inside bool
}

// CheckSightings tests every sighting against the region, keeping input order.
func CheckSightings(region geo.Region, sightings []Sighting) []Result {
	results := make([]Result, 0, len(sightings))
	for _, s := range sightings {
		results = append(results, Result{Sighting: s, Inside: region.Within(s.Point)})
	}

	return results
}
