// Package report formats containment results for the console.
package report

import (
	"fmt"
	"io"

	"github.com/woozymasta/wolfmap/internal/processor"
)

// Text prints one line per wolf and country as results arrive.
type Text struct {
	w io.Writer
}

// NewText creates a Text reporter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// NotFound reports a country missing from the boundary dataset.
func (t *Text) NotFound(country string) error {
	_, err := fmt.Fprintf(t.w, "Boundary of %s not found!\n", country)
	return err
}

// Unusable reports a country whose boundary could not form a region.
func (t *Text) Unusable(country string, cause error) error {
	_, err := fmt.Fprintf(t.w, "Boundary of %s is unusable: %v\n", country, cause)
	return err
}

// Found is a no-op, every result line names its country.
func (t *Text) Found(string) error {
	return nil
}

// Result reports whether a wolf was seen inside the country.
func (t *Text) Result(country string, r processor.Result) error {
	var err error
	if r.Inside {
		_, err = fmt.Fprintf(t.w, "%s with coordinates %.4f° longitude and %.4f° latitude is located in %s.\n",
			r.Name, r.Point.Lon(), r.Point.Lat(), country)
	} else {
		_, err = fmt.Fprintf(t.w, "%s was not found in %s.\n", r.Name, country)
	}

	return err
}

// Flush is a no-op, lines are written immediately.
func (t *Text) Flush() error {
	return nil
}
