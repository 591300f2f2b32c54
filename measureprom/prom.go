// Package measureprom exports measure databases as Prometheus metrics.
package measureprom

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/zeebo/measure"
)

var (
	backendLabel = "backend"
	nameLabel    = "name"
)

func newDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc("measure_"+name, help, []string{backendLabel, nameLabel}, nil)
}

var (
	descCalls   = newDesc("calls_total", "Completed calls")
	descSeconds = newDesc("seconds_total", "Total measured time")
	descAverage = newDesc("average_seconds", "Average measured time per call")
)

// Collector is a prometheus.Collector for measure databases. The zero value
// collects every database returned by measure.Sources.
type Collector struct {
	// Sources overrides the databases that are collected.
	Sources func() []measure.Source
}

func (c Collector) sources() []measure.Source {
	if c.Sources != nil {
		return c.Sources()
	}
	return measure.Sources()
}

func (c Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descCalls
	ch <- descSeconds
	ch <- descAverage
}

func (c Collector) Collect(metrics chan<- prometheus.Metric) {
	for _, src := range c.sources() {
		backend := src.Title()
		for _, row := range merge(src.Snapshot()) {
			name := row.Name
			lp := []*dto.LabelPair{
				{Name: &backendLabel, Value: &backend},
				{Name: &nameLabel, Value: &name},
			}

			metrics <- &metric{desc: descCalls, lp: lp, value: float64(row.Calls)}
			if row.HasData() {
				metrics <- &metric{desc: descSeconds, lp: lp, value: row.Seconds}
				metrics <- &metric{desc: descAverage, lp: lp, value: row.Average()}
			}
		}
	}
}

// merge sums rows that share a name, which happens when records of different
// policies are given the same name, so that every label set is unique.
func merge(rows []measure.Row) []measure.Row {
	out := rows[:0:0]
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		i, ok := index[row.Name]
		if !ok {
			index[row.Name] = len(out)
			out = append(out, row)
			continue
		}
		out[i].Calls += row.Calls
		out[i].Ticks += row.Ticks
		out[i].Seconds += row.Seconds
	}
	return out
}

type metric struct {
	desc  *prometheus.Desc
	lp    []*dto.LabelPair
	value float64
}

func (m *metric) Desc() *prometheus.Desc { return m.desc }

func (m *metric) Write(o *dto.Metric) error {
	o.Label = m.lp

	switch m.desc {
	case descAverage:
		o.Gauge = &dto.Gauge{Value: &m.value}

	case descCalls, descSeconds:
		o.Counter = &dto.Counter{Value: &m.value}
	}

	return nil
}
