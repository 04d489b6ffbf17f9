package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/wolfmap/internal/geo"
	"github.com/woozymasta/wolfmap/internal/processor"
	"github.com/woozymasta/wolfmap/internal/render"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	. "github.com/smartystreets/goconvey/convey"
)

func finland(t *testing.T) geo.Region {
	region, err := geo.BuildRegion(orb.Polygon{{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}})
	if err != nil {
		t.Fatalf("build region: %v", err)
	}
	return region
}

func results() []processor.Result {
	return []processor.Result{
		{Sighting: processor.Sighting{Name: "Karhu", Point: orb.Point{3, 3}}, Inside: true},
		{Sighting: processor.Sighting{Name: "Far", Point: orb.Point{41, 41}}, Inside: false},
	}
}

func TestDraw(t *testing.T) {
	Convey("Given a square region and two sightings", t, func() {
		img := render.Draw(finland(t), results(), 200)

		Convey("Then the longest side spans the requested size", func() {
			So(img.Bounds().Dx(), ShouldEqual, 200)
			So(img.Bounds().Dy(), ShouldEqual, 200)
		})

		Convey("Then the region is filled and the margin is background", func() {
			So(img.RGBAAt(100, 100), ShouldResemble, render.Land)
			So(img.RGBAAt(2, 2), ShouldResemble, render.Background)
		})

		Convey("Then the inside sighting is marked", func() {
			// (3, 3) maps to 10 + 3*18 horizontally and 10 + 7*18 vertically
			So(img.RGBAAt(64, 136), ShouldResemble, render.Inside)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a snapshot directory", t, func() {
		dir := filepath.Join(t.TempDir(), "snapshots")
		s := render.New(dir, 120)

		err := s.Snapshot("Åland Islands", finland(t), results())

		Convey("Then a decodable WebP file is written under a safe name", func() {
			So(err, ShouldBeNil)

			f, err := os.Open(filepath.Join(dir, "Åland_Islands.webp"))
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()

			img, err := webp.Decode(f)
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 120)
		})
	})

	Convey("Given country names with separators", t, func() {
		So(render.FileName("Bosnia and Herzegovina"), ShouldEqual, "Bosnia_and_Herzegovina.webp")
		So(render.FileName("../etc/passwd"), ShouldEqual, "___etc_passwd.webp")
	})
}
