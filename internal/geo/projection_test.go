package geo_test

import (
	"testing"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"

	. "github.com/smartystreets/goconvey/convey"
)

func TestProjector(t *testing.T) {
	Convey("Given a TM35FIN projector", t, func() {
		p, err := geo.NewProjector(config.DefaultProjection)
		So(err, ShouldBeNil)

		Convey("When projecting a point on the central meridian", func() {
			lat, lon, err := p.Project(500000, 7000000)

			Convey("Then longitude is the meridian and latitude is in central Finland", func() {
				So(err, ShouldBeNil)
				So(lon, ShouldAlmostEqual, 27.0, 1e-6)
				So(lat, ShouldBeBetween, 63.0, 63.3)
			})
		})

		Convey("When projecting a point west of the meridian", func() {
			lat, lon, err := p.Project(385000, 6672000)

			Convey("Then it lands around Helsinki", func() {
				So(err, ShouldBeNil)
				So(lon, ShouldBeBetween, 24.5, 25.2)
				So(lat, ShouldBeBetween, 60.0, 60.4)
			})
		})

		Convey("When the same projector is reused", func() {
			lat1, lon1, _ := p.Project(450000, 6900000)
			lat2, lon2, _ := p.Project(450000, 6900000)

			Convey("Then results are identical", func() {
				So(lat1, ShouldEqual, lat2)
				So(lon1, ShouldEqual, lon2)
			})
		})
	})

	Convey("Given an unparsable projection", t, func() {
		_, err := geo.NewProjector("+proj=nonsense")

		Convey("Then building the projector fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
