package processor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/woozymasta/wolfmap/internal/config"
	"github.com/woozymasta/wolfmap/internal/geo"
	"github.com/woozymasta/wolfmap/internal/processor"

	. "github.com/smartystreets/goconvey/convey"
)

const packJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "properties": {"individuals": [{"name": "Inside"}]},
      "geometry": {"type": "Polygon", "coordinates": [[[2, 2], [2, 4], [4, 4], [4, 2]]]}
    },
    {
      "properties": {"individuals": [{"name": "Outside"}]},
      "geometry": {"type": "Polygon", "coordinates": [[[40, 40], [40, 42], [42, 42], [42, 40]]]}
    }
  ]
}`

type event struct {
	kind    string
	country string
	name    string
	inside  bool
}

type recordingReporter struct {
	events []event
}

func (r *recordingReporter) NotFound(country string) error {
	r.events = append(r.events, event{kind: "not-found", country: country})
	return nil
}

func (r *recordingReporter) Unusable(country string, _ error) error {
	r.events = append(r.events, event{kind: "unusable", country: country})
	return nil
}

func (r *recordingReporter) Found(country string) error {
	r.events = append(r.events, event{kind: "found", country: country})
	return nil
}

func (r *recordingReporter) Result(country string, res processor.Result) error {
	r.events = append(r.events, event{kind: "result", country: country, name: res.Name, inside: res.Inside})
	return nil
}

func (r *recordingReporter) Flush() error {
	r.events = append(r.events, event{kind: "flush"})
	return nil
}

type recordingSnapshotter struct {
	countries []string
}

func (s *recordingSnapshotter) Snapshot(country string, _ geo.Region, _ []processor.Result) error {
	s.countries = append(s.countries, country)
	return nil
}

func newFeeds(wolfStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/countries", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(countriesJSON))
	})
	mux.HandleFunc("/wolves", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(wolfStatus)
		_, _ = w.Write([]byte(packJSON))
	})

	return httptest.NewServer(mux)
}

func newPipeline(t *testing.T, srv *httptest.Server, rep processor.Reporter) *processor.Pipeline {
	cfg := config.Default()
	cfg.Boundaries.URL = srv.URL + "/countries"
	cfg.Boundaries.Cache = filepath.Join(t.TempDir(), "countries.json")
	cfg.Sightings.URL = srv.URL + "/wolves"

	return &processor.Pipeline{
		Client:    srv.Client(),
		Config:    cfg,
		Projector: &stubProjector{identity: true},
		Reporter:  rep,
	}
}

func TestPipelineRun(t *testing.T) {
	Convey("Given reachable feeds", t, func() {
		srv := newFeeds(http.StatusOK)
		defer srv.Close()

		rep := &recordingReporter{}
		snap := &recordingSnapshotter{}
		p := newPipeline(t, srv, rep)
		p.Snapshotter = snap

		Convey("When one present and one absent country are queried", func() {
			err := p.Run(context.Background(), []string{"Finland", "Atlantis"})

			Convey("Then each wolf is reported for the present country and one not found line follows", func() {
				So(err, ShouldBeNil)
				So(rep.events, ShouldResemble, []event{
					{kind: "found", country: "Finland"},
					{kind: "result", country: "Finland", name: "Inside", inside: true},
					{kind: "result", country: "Finland", name: "Outside", inside: false},
					{kind: "not-found", country: "Atlantis"},
					{kind: "flush"},
				})
			})

			Convey("Then only the present country is rendered", func() {
				So(snap.countries, ShouldResemble, []string{"Finland"})
			})
		})

		Convey("When countries are given in another order", func() {
			err := p.Run(context.Background(), []string{"Atlantis", "Archipelago", "Pointland"})

			Convey("Then output follows input order", func() {
				So(err, ShouldBeNil)
				So(rep.events, ShouldResemble, []event{
					{kind: "not-found", country: "Atlantis"},
					{kind: "found", country: "Archipelago"},
					{kind: "result", country: "Archipelago", name: "Inside", inside: false},
					{kind: "result", country: "Archipelago", name: "Outside", inside: false},
					{kind: "unusable", country: "Pointland"},
					{kind: "flush"},
				})
			})
		})

		Convey("When a country is queried twice", func() {
			err := p.Run(context.Background(), []string{"Finland", "Finland"})

			Convey("Then each query opens its own result block", func() {
				So(err, ShouldBeNil)
				So(rep.events, ShouldResemble, []event{
					{kind: "found", country: "Finland"},
					{kind: "result", country: "Finland", name: "Inside", inside: true},
					{kind: "result", country: "Finland", name: "Outside", inside: false},
					{kind: "found", country: "Finland"},
					{kind: "result", country: "Finland", name: "Inside", inside: true},
					{kind: "result", country: "Finland", name: "Outside", inside: false},
					{kind: "flush"},
				})
			})
		})

		Convey("When no countries are given", func() {
			err := p.Run(context.Background(), nil)

			Convey("Then only the flush happens", func() {
				So(err, ShouldBeNil)
				So(rep.events, ShouldResemble, []event{{kind: "flush"}})
			})
		})
	})

	Convey("Given a wolf feed without sightings", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/countries", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(countriesJSON))
		})
		mux.HandleFunc("/wolves", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		rep := &recordingReporter{}
		err := newPipeline(t, srv, rep).Run(context.Background(), []string{"Finland"})

		Convey("Then the found country is still announced", func() {
			So(err, ShouldBeNil)
			So(rep.events, ShouldResemble, []event{
				{kind: "found", country: "Finland"},
				{kind: "flush"},
			})
		})
	})

	Convey("Given a failing wolf feed", t, func() {
		srv := newFeeds(http.StatusBadGateway)
		defer srv.Close()

		rep := &recordingReporter{}
		err := newPipeline(t, srv, rep).Run(context.Background(), []string{"Finland"})

		Convey("Then the run aborts before reporting", func() {
			So(err, ShouldNotBeNil)
			So(rep.events, ShouldBeEmpty)
		})
	})
}

func TestParseCountries(t *testing.T) {
	Convey("Given a comma separated line", t, func() {
		So(processor.ParseCountries(" Finland, Russia ,Norway\n"), ShouldResemble, []string{"Finland", "Russia", "Norway"})
		So(processor.ParseCountries("Finland,, ,Sweden"), ShouldResemble, []string{"Finland", "Sweden"})
		So(processor.ParseCountries("Finland,Finland"), ShouldResemble, []string{"Finland", "Finland"})
		So(processor.ParseCountries("   "), ShouldBeEmpty)
	})
}
