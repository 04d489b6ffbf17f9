package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/woozymasta/wolfmap/internal/processor"

	"github.com/nao1215/markdown"
)

// Markdown collects results and writes one section per queried country on
// Flush. A country queried twice gets two sections.
type Markdown struct {
	w        io.Writer
	sections []*section
}

type section struct {
	country  string
	notFound bool
	unusable error
	inside   int
	rows     [][]string
}

// NewMarkdown creates a Markdown reporter writing to w.
func NewMarkdown(w io.Writer) *Markdown {
	return &Markdown{w: w}
}

func (m *Markdown) open(country string) *section {
	s := &section{country: country}
	m.sections = append(m.sections, s)

	return s
}

// current returns the open section for country, opening one if results
// arrive without a preceding Found.
func (m *Markdown) current(country string) *section {
	if n := len(m.sections); n > 0 && m.sections[n-1].country == country {
		return m.sections[n-1]
	}

	return m.open(country)
}

// NotFound records a country missing from the boundary dataset.
func (m *Markdown) NotFound(country string) error {
	m.open(country).notFound = true
	return nil
}

// Unusable records a country whose boundary could not form a region.
func (m *Markdown) Unusable(country string, cause error) error {
	m.open(country).unusable = cause
	return nil
}

// Found opens the section of a country with a usable boundary.
func (m *Markdown) Found(country string) error {
	m.open(country)
	return nil
}

// Result adds a table row for the wolf.
func (m *Markdown) Result(country string, r processor.Result) error {
	s := m.current(country)

	inside := "no"
	if r.Inside {
		inside = "yes"
		s.inside++
	}

	s.rows = append(s.rows, []string{
		r.Name,
		strconv.FormatFloat(r.Point.Lon(), 'f', 4, 64),
		strconv.FormatFloat(r.Point.Lat(), 'f', 4, 64),
		inside,
	})

	return nil
}

// Flush writes the document.
func (m *Markdown) Flush() error {
	md := markdown.NewMarkdown(m.w)
	md.H1("Wolf sightings by country")
	md.PlainText("")

	for _, s := range m.sections {
		md.H2(s.country)
		md.PlainText("")

		switch {
		case s.notFound:
			md.PlainText("Boundary not found.")
		case s.unusable != nil:
			md.PlainText(fmt.Sprintf("Boundary unusable: %v", s.unusable))
		case len(s.rows) == 0:
			md.PlainText("No wolf sightings.")
		default:
			md.PlainText(fmt.Sprintf("%d of %d wolves inside.", s.inside, len(s.rows)))
			md.PlainText("")
			md.Table(markdown.TableSet{
				Header: []string{"Wolf", "Longitude", "Latitude", "Inside"},
				Rows:   s.rows,
			})
		}
		md.PlainText("")
	}

	return md.Build()
}
