// Package config handles configuration loading and shared data structures.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for the XDG cache directory.
const AppName = "wolfmap"

const (
	// DefaultBoundariesURL serves the Natural Earth admin 0 countries as GeoJSON.
	DefaultBoundariesURL = "http://moredata.pythonhelp.ru/countries/countries.geojson"

	// DefaultSightingsURL serves the wolf observation grid covering Finland.
	DefaultSightingsURL = "http://riistahavainnot.fi/json/grid?bbox=-1176112,6272256,2076112,8127744"

	// DefaultCacheFile is the boundary cache path relative to the working directory.
	DefaultCacheFile = ".country.json"

	// DefaultProjection is ETRS89 / TM35FIN(E,N), EPSG:3067.
	DefaultProjection = "+proj=tmerc +lat_0=0 +lon_0=27 +k=0.9996 +x_0=500000 +y_0=0 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs"
)

// Config represents the root configuration file structure.
type Config struct {
	Boundaries Boundaries `yaml:"boundaries"`
	Sightings  Sightings  `yaml:"sightings"`

	// proj4 definition of the grid the sightings feed is expressed in
	Projection string `yaml:"projection,omitempty"`

	// HTTP client timeout, zero waits forever
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Boundaries configures the country boundary source.
type Boundaries struct {
	URL   string `yaml:"url"`
	Cache string `yaml:"cache"` // empty means the XDG cache dir

	// Cache expiry, zero keeps the cache file forever
	MaxAge time.Duration `yaml:"max_age,omitempty"`

	// Feature property keys holding the country name, first present key wins
	NameProperties []string `yaml:"name_properties,omitempty"`
}

// Sightings configures the wolf observation feed.
type Sightings struct {
	URL string `yaml:"url"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Boundaries: Boundaries{
			URL:            DefaultBoundariesURL,
			Cache:          DefaultCacheFile,
			NameProperties: []string{"ADMIN", "admin_name"},
		},
		Sightings: Sightings{
			URL: DefaultSightingsURL,
		},
		Projection: DefaultProjection,
	}
}

// Load reads and parses the YAML configuration file from the specified path.
// Values missing from the file keep their defaults, an empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if len(cfg.Boundaries.NameProperties) == 0 {
		cfg.Boundaries.NameProperties = Default().Boundaries.NameProperties
	}
	if cfg.Projection == "" {
		cfg.Projection = DefaultProjection
	}

	return cfg, nil
}

// CachePath resolves the boundary cache file location.
func (b Boundaries) CachePath() string {
	if b.Cache != "" {
		return b.Cache
	}

	return filepath.Join(xdg.CacheHome, AppName, "countries.json")
}
