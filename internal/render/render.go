// Package render draws country regions with checked sightings into WebP snapshots.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/woozymasta/wolfmap/internal/geo"
	"github.com/woozymasta/wolfmap/internal/processor"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/vector"
)

const (
	margin     = 10
	markerSize = 3
	minSize    = 64
)

// Palette used for snapshots.
var (
	Background = color.RGBA{R: 0xe8, G: 0xee, B: 0xf4, A: 0xff}
	Land       = color.RGBA{R: 0xc8, G: 0xd9, B: 0xb0, A: 0xff}
	Inside     = color.RGBA{R: 0xc0, G: 0x1c, B: 0x28, A: 0xff}
	Outside    = color.RGBA{R: 0x5e, G: 0x5c, B: 0x64, A: 0xff}
)

// Snapshots writes one image per country into Dir.
type Snapshots struct {
	Dir  string
	Size int // longest side in pixels
}

// New creates a Snapshots writer.
func New(dir string, size int) *Snapshots {
	return &Snapshots{Dir: dir, Size: size}
}

// Snapshot renders the region and its sightings to <Dir>/<country>.webp.
func (s *Snapshots) Snapshot(country string, region geo.Region, results []processor.Result) error {
	img := Draw(region, results, s.Size)

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(s.Dir, FileName(country))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}

	log.Debug().
		Str("country", country).
		Str("path", path).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Snapshot written")

	return nil
}

// FileName maps a country name to a safe file name.
func FileName(country string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return '_'
	}, country)

	return name + ".webp"
}

// Draw rasterizes the region scaled so its longest side spans size pixels.
// Sightings outside the region's bounding box are not drawn.
func Draw(region geo.Region, results []processor.Result, size int) *image.RGBA {
	if size < minSize {
		size = minSize
	}

	b := region.Bound()
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	scale := float64(size-2*margin) / math.Max(w, h)

	width := int(math.Ceil(w*scale)) + 2*margin
	height := int(math.Ceil(h*scale)) + 2*margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	toPixel := func(p orb.Point) (float32, float32) {
		return float32(margin + (p[0]-b.Min[0])*scale), float32(margin + (b.Max[1]-p[1])*scale)
	}

	for _, poly := range region.Polygons {
		for i, ring := range poly {
			c := Land
			if i > 0 {
				c = Background
			}
			fillRing(img, ring, c, toPixel)
		}
	}

	for _, r := range results {
		if !b.Contains(r.Point) {
			continue
		}

		c := Outside
		if r.Inside {
			c = Inside
		}

		x, y := toPixel(r.Point)
		px, py := int(x), int(y)
		marker := image.Rect(px-markerSize, py-markerSize, px+markerSize+1, py+markerSize+1)
		draw.Draw(img, marker, image.NewUniform(c), image.Point{}, draw.Src)
	}

	return img
}

func fillRing(dst *image.RGBA, ring orb.Ring, c color.Color, toPixel func(orb.Point) (float32, float32)) {
	if len(ring) < 3 {
		return
	}

	bounds := dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for i, p := range ring {
		x, y := toPixel(p)
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
	z.Draw(dst, bounds, image.NewUniform(c), image.Point{})
}
