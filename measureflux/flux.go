// Package measureflux writes measure databases in the InfluxDB line protocol.
package measureflux

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"github.com/zeebo/measure"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("measureflux")

// Collector writes one line per row of every source.
type Collector struct {
	// Measurement is the measurement name. It defaults to "measure".
	Measurement string

	// Sources overrides the databases that are written. It defaults to
	// measure.Sources.
	Sources func() []measure.Source

	// Timestamp is appended to every line when it is not the zero time.
	Timestamp time.Time
}

// Write writes the lines for every source to w.
func (c Collector) Write(w io.Writer) error {
	measurement := c.Measurement
	if measurement == "" {
		measurement = "measure"
	}

	sources := measure.Sources
	if c.Sources != nil {
		sources = c.Sources
	}

	var ts string
	if !c.Timestamp.IsZero() {
		ts = fmt.Sprintf(" %d", c.Timestamp.UnixNano())
	}

	ew := &errWriter{w: w}
	for _, src := range sources() {
		for _, row := range src.Snapshot() {
			m := fmt.Sprintf("%s,backend=%s,name=%s",
				escapeMeasurement(measurement), escapeTag(src.Title()), escapeTag(row.Name))

			if row.HasData() {
				fmt.Fprintf(ew, "%s calls=%di,seconds=%v,average=%v%s\n",
					m, row.Calls, row.Seconds, row.Average(), ts)
			} else {
				fmt.Fprintf(ew, "%s calls=%di%s\n", m, row.Calls, ts)
			}
			if ew.err != nil {
				return Error.Wrap(ew.err)
			}
		}
	}
	return nil
}

// Write writes every database to w with the default Collector.
func Write(w io.Writer) error { return Collector{}.Write(w) }

var (
	measurementEscaper = strings.NewReplacer(",", `\,`, " ", `\ `)
	tagEscaper         = strings.NewReplacer(",", `\,`, " ", `\ `, "=", `\=`)
)

func escapeMeasurement(s string) string { return measurementEscaper.Replace(s) }
func escapeTag(s string) string         { return tagEscaper.Replace(s) }

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	var n int
	n, e.err = e.w.Write(p)
	return n, e.err
}
