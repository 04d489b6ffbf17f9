// Package processor fetches the boundary and sighting feeds and runs the
// country containment pipeline over them.
package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

// Boundaries is the country boundary dataset. It is never modified after loading.
type Boundaries struct {
	Collection *geojson.FeatureCollection
	nameKeys   []string
}

// NewBoundaries wraps a feature collection, country names are read from the
// first of nameKeys present in a feature's properties.
func NewBoundaries(fc *geojson.FeatureCollection, nameKeys []string) *Boundaries {
	return &Boundaries{Collection: fc, nameKeys: nameKeys}
}

// LoadBoundaries returns the boundary dataset from the cache file, or fetches
// it and writes the cache when the file is missing, expired or refresh is set.
func LoadBoundaries(ctx context.Context, client *http.Client, src config.Boundaries, refresh bool) (*Boundaries, error) {
	path := src.CachePath()

	if !refresh {
		data, ok, err := readCache(path, src.MaxAge)
		if err != nil {
			return nil, err
		}
		if ok {
			fc, err := geojson.UnmarshalFeatureCollection(data)
			if err != nil {
				return nil, fmt.Errorf("decode boundary cache %s: %w", path, err)
			}

			log.Debug().
				Str("path", path).
				Int("features", len(fc.Features)).
				Msg("Boundaries loaded from cache")

			return NewBoundaries(fc, src.NameProperties), nil
		}
	}

	log.Info().Str("source", src.URL).Msg("Fetching country boundaries")

	data, err := fetch(ctx, client, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}

	if err := writeCache(path, data); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to write boundary cache")
	}

	return NewBoundaries(fc, src.NameProperties), nil
}

// Find returns the first feature whose name matches exactly, or nil.
func (b *Boundaries) Find(name string) *geojson.Feature {
	for _, f := range b.Collection.Features {
		if b.featureName(f) == name {
			return f
		}
	}

	return nil
}

// Region builds the region of the named country.
// ok is false when the dataset has no such country.
func (b *Boundaries) Region(name string) (region geo.Region, ok bool, err error) {
	f := b.Find(name)
	if f == nil {
		return geo.Region{}, false, nil
	}

	region, err = geo.BuildRegion(f.Geometry)
	if err != nil {
		return geo.Region{}, true, fmt.Errorf("build region %q: %w", name, err)
	}

	return region, true, nil
}

func (b *Boundaries) featureName(f *geojson.Feature) string {
	for _, key := range b.nameKeys {
		if v, ok := f.Properties[key].(string); ok {
			return v
		}
	}

	return ""
}

// fetch downloads the body of url.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// readCache returns the cache content, ok is false when there is no usable cache.
func readCache(path string, maxAge time.Duration) ([]byte, bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if maxAge > 0 && time.Since(info.ModTime()) > maxAge {
		log.Info().
			Str("path", path).
			Time("modified", info.ModTime()).
			Msg("Boundary cache expired")
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// writeCache stores the compacted JSON body.
func writeCache(path string, data []byte) error {
	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)

	compact, err := m.Bytes("application/json", data)
	if err != nil {
		return fmt.Errorf("minify: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, compact, 0644); err != nil {
		return err
	}

	log.Debug().
		Str("path", path).
		Int("bytes", len(compact)).
		Msg("Boundary cache written")

	return nil
}
