// Package measurehttp serves live reports of measure databases.
package measurehttp

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	chart "github.com/wcharczuk/go-chart"
	"github.com/zeebo/errs"
	"github.com/zeebo/measure"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("measurehttp")

// Handler serves reports about the measured databases:
//
//	/          an HTML table of every database
//	/text      the text report of every database
//	/csv       the CSV report of one database
//	/chart     an SVG bar chart of the total time of one database
//
// The CSV and chart endpoints use the database whose title matches the
// backend query parameter, or the first one when it is empty.
type Handler struct {
	// Sources overrides the databases that are served. It defaults to
	// measure.Sources.
	Sources func() []measure.Source

	// Logf, when set, is called with errors writing responses.
	Logf func(format string, args ...interface{})
}

func (h Handler) sources() []measure.Source {
	if h.Sources != nil {
		return h.Sources()
	}
	return measure.Sources()
}

func (h Handler) logf(format string, args ...interface{}) {
	if h.Logf != nil {
		h.Logf(format, args...)
	}
}

func (h Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var err error
	switch strings.TrimSuffix(req.URL.Path, "/") {
	case "":
		err = h.serveHTML(w)
	case "/text":
		err = h.serveText(w)
	case "/csv":
		err = h.serveCSV(w, req)
	case "/chart":
		err = h.serveChart(w, req)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
	if err != nil {
		h.logf("%+v", Error.Wrap(err))
	}
}

// pick returns the source named by the backend query parameter.
func (h Handler) pick(w http.ResponseWriter, req *http.Request) (measure.Source, bool) {
	sources := h.sources()
	backend := req.URL.Query().Get("backend")
	for _, src := range sources {
		if backend == "" || src.Title() == backend {
			return src, true
		}
	}
	http.Error(w, "no such backend", http.StatusNotFound)
	return nil, false
}

func (h Handler) serveHTML(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	ew := &errWriter{w: w}
	fmt.Fprintln(ew, `<meta charset="UTF-8">`)
	for _, src := range h.sources() {
		query := html.EscapeString(url.QueryEscape(src.Title()))
		fmt.Fprintf(ew, `<h2>%s <a href="chart?backend=%s">chart</a> <a href="csv?backend=%s">csv</a></h2>`+"\n",
			html.EscapeString(src.Title()), query, query)
		fmt.Fprintln(ew, "<table border=1>")
		fmt.Fprintln(ew, "<tr><td>name</td><td>calls</td><td>total</td><td>average</td></tr>")
		for _, row := range src.Snapshot() {
			total, average := "", ""
			if row.HasData() {
				total, average = measure.FormatSeconds(row.Seconds), measure.FormatSeconds(row.Average())
			}
			fmt.Fprintf(ew, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(row.Name), row.Calls, total, average)
		}
		fmt.Fprintln(ew, "</table>")
	}
	return ew.err
}

func (h Handler) serveText(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, src := range h.sources() {
		if err := measure.WriteText(w, src); err != nil {
			return err
		}
	}
	return nil
}

func (h Handler) serveCSV(w http.ResponseWriter, req *http.Request) (err error) {
	src, ok := h.pick(w, req)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+measure.DefaultCSVFile)

	var out io.Writer = w
	if strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		defer func() { err = errs.Combine(err, gw.Close()) }()
		out = gw
	}

	return measure.WriteCSV(out, src)
}

func (h Handler) serveChart(w http.ResponseWriter, req *http.Request) error {
	src, ok := h.pick(w, req)
	if !ok {
		return nil
	}

	width := queryInt(req, "width", 1300, minChartSize, maxChartSize)
	height := queryInt(req, "height", 300, minChartSize, maxChartSize)

	ch, ok := MakeChart(width, height, src)
	if !ok {
		http.Error(w, "no data", http.StatusNotFound)
		return nil
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", chart.ContentTypeSVG)
	_, err := w.Write(fixupViewbox(buf.Bytes(), width, height))
	return err
}

// bounds of the chart width and height query parameters in pixels.
const (
	minChartSize = 100
	maxChartSize = 4000
)

// queryInt parses the named query parameter clamped to [lo, hi], returning def
// when it is missing or not an integer.
func queryInt(req *http.Request, name string, def, lo, hi int) int {
	v, err := strconv.ParseInt(req.URL.Query().Get(name), 10, 0)
	if err != nil {
		return def
	}
	return int(min(max(v, int64(lo)), int64(hi)))
}

func fixupViewbox(data []byte, width, height int) []byte {
	parts := bytes.SplitN(data, []byte(">"), 2)
	if len(parts) != 2 {
		return data
	}
	return append(append(
		parts[0],
		fmt.Sprintf(` viewBox="-0.5 -0.5 %d %d">`, width, height)...),
		parts[1]...)
}

// MakeChart returns a bar chart of the total time of every row of the source
// that has data. It returns false if there is nothing to chart.
func MakeChart(width, height int, src measure.Source) (*chart.BarChart, bool) {
	var bars []chart.Value
	largest := 0.0
	for _, row := range src.Snapshot() {
		if !row.HasData() {
			continue
		}
		bars = append(bars, chart.Value{Label: row.Name, Value: row.Seconds})
		if row.Seconds > largest {
			largest = row.Seconds
		}
	}
	if len(bars) == 0 {
		return nil, false
	}
	if largest <= 0 {
		largest = 1e-9
	}

	return &chart.BarChart{
		Title:      src.Title(),
		TitleStyle: chart.StyleShow(),
		Width:      width,
		Height:     height,
		BarWidth:   40,
		XAxis:      chart.StyleShow(),
		YAxis: chart.YAxis{
			Style: chart.StyleShow(),
			Range: &chart.ContinuousRange{Min: 0, Max: largest},
			ValueFormatter: func(x interface{}) string {
				return strings.TrimSpace(measure.FormatSeconds(x.(float64)))
			},
		},
		Bars: bars,
	}, true
}

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
