package measureprom

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/zeebo/assert"
	"github.com/zeebo/measure"
)

var stepTicks int64

// stepClock advances by 500 ticks, half a millisecond, every time it is read.
type stepClock struct{}

func (stepClock) Now() int64                  { return atomic.AddInt64(&stepTicks, 500) }
func (stepClock) Seconds(ticks int64) float64 { return float64(ticks) / 1e6 }
func (stepClock) Title() string               { return "step" }

func TestMetrics(t *testing.T) {
	parse := measure.NewRecord[stepClock]("parse")
	measure.NewSyncRecord[stepClock]("idle")
	dupA := measure.NewRecord[stepClock]("dup")
	dupB := measure.NewSyncRecursiveRecord[stepClock]("dup")

	for i := 0; i < 4; i++ {
		func() { defer parse.Start().Stop() }()
	}
	dupA.Start().Stop()
	dupB.Start().Stop()

	reg := prometheus.NewRegistry()
	assert.NoError(t, reg.Register(Collector{
		Sources: func() []measure.Source {
			return []measure.Source{measure.DatabaseFor[stepClock]()}
		},
	}))

	mfs, err := reg.Gather()
	assert.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			values[mf.GetName()+"/"+label(m, "name")] = value(m)
			assert.Equal(t, label(m, "backend"), "step")
		}
	}

	assert.Equal(t, values["measure_calls_total/parse"], 4.0)
	assert.Equal(t, values["measure_seconds_total/parse"], 0.002)
	assert.Equal(t, values["measure_average_seconds/parse"], 0.0005)

	assert.Equal(t, values["measure_calls_total/idle"], 0.0)
	_, ok := values["measure_seconds_total/idle"]
	assert.That(t, !ok)

	assert.Equal(t, values["measure_calls_total/dup"], 2.0)
	assert.Equal(t, values["measure_seconds_total/dup"], 0.001)

	var buf bytes.Buffer
	for _, mf := range mfs {
		_, err := expfmt.MetricFamilyToText(&buf, mf)
		assert.NoError(t, err)
	}
	assert.That(t, bytes.Contains(buf.Bytes(),
		[]byte(`measure_calls_total{backend="step",name="parse"} 4`)))

	t.Logf("\n%s", buf.String())
}

func TestDefaultSources(t *testing.T) {
	rec := measure.NewSync("default-sources")
	rec.Start().Stop()

	reg := prometheus.NewRegistry()
	assert.NoError(t, reg.Register(Collector{}))

	mfs, err := reg.Gather()
	assert.NoError(t, err)

	found := false
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if mf.GetName() == "measure_calls_total" && label(m, "name") == "default-sources" {
				found = true
				assert.Equal(t, value(m), 1.0)
			}
		}
	}
	assert.That(t, found)
}

func label(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func value(m *dto.Metric) float64 {
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
