package main

import (
	"io"
	"sort"

	"github.com/zeebo/measure"
	"github.com/zeebo/measure/measureflux"
)

// runner holds the commands instantiated for one backend.
type runner struct {
	samples  func(loops uint64) error
	overhead func(w io.Writer, loops uint64) error
	report   func(w io.Writer, csvPath string) error
}

func newRunner[B measure.Backend]() runner {
	return runner{
		samples:  runSamples[B],
		overhead: runOverhead[B],
		report: func(w io.Writer, csvPath string) error {
			return writeReport(w, measure.DatabaseFor[B](), csvPath)
		},
	}
}

var runners = map[string]func() runner{
	"mono": newRunner[measure.Mono],
	"wall": newRunner[measure.Wall],
	"os":   newRunner[measure.OS],
	"tsc":  newRunner[measure.TSC],
}

func backendNames() (names []string) {
	for name := range runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runnerFor returns the runner for the named backend.
func runnerFor(name string) (runner, error) {
	fn, ok := runners[name]
	if !ok {
		return runner{}, Error.New("unknown backend %q", name)
	}
	log.Debug().Str("backend", name).Msg("selected backend")
	return fn(), nil
}

// writeReport writes the text report of the source to w and the CSV report
// to csvPath when it is not empty.
func writeReport(w io.Writer, src measure.Source, csvPath string) error {
	if err := measure.WriteText(w, src); err != nil {
		return err
	}
	if csvPath == "" {
		return nil
	}
	if err := measure.WriteCSVFile(csvPath, src); err != nil {
		return err
	}
	log.Info().Str("path", csvPath).Str("backend", src.Title()).Msg("wrote csv report")
	return nil
}

// writeFlux writes every database to w as line protocol.
func writeFlux(w io.Writer) error {
	return measureflux.Collector{Measurement: "measurebench"}.Write(w)
}
