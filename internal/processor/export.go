package processor

import (
	"github.com/paulmach/orb/geojson"
)

// SightingRecord is the flat form of a sighting used for YAML export.
type SightingRecord struct {
	Name string  `yaml:"name" json:"name"`
	Lon  float64 `yaml:"lon" json:"lon"`
	Lat  float64 `yaml:"lat" json:"lat"`
}

// FeatureCollection converts sightings into point features with a name property.
func FeatureCollection(sightings []Sighting) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range sightings {
		f := geojson.NewFeature(s.Point)
		f.Properties["name"] = s.Name
		fc.Append(f)
	}

	return fc
}

// Records flattens sightings into name/lon/lat rows.
func Records(sightings []Sighting) []SightingRecord {
	out := make([]SightingRecord, len(sightings))
	for i, s := range sightings {
		out[i] = SightingRecord{Name: s.Name, Lon: s.Point.Lon(), Lat: s.Point.Lat()}
	}

	return out
}
