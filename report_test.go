package measure

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeebo/assert"
)

var reportSource = fixed{
	title: "manual",
	rows: []Row{
		{Name: "foo", Calls: 4, Ticks: 1000000, Seconds: 1},
		{Name: "bar", Calls: 0},
		{Name: "baz", Calls: 1, Ticks: 500000, Seconds: 0.5},
	},
}

func TestWriteText(t *testing.T) {
	t.Run("Layout", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteText(&buf, reportSource))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		assert.Equal(t, len(lines), 7)

		dashes := strings.Repeat("-", 39)
		assert.Equal(t, lines[0], dashes+" manual "+dashes)
		assert.Equal(t, lines[1], fmt.Sprintf("%40s%12s%17s%17s",
			"Name", "Calls", "Total (ns)", "Average (ns)"))
		assert.Equal(t, lines[2], strings.Repeat("-", 86))
		assert.Equal(t, lines[3], fmt.Sprintf("%40s%12d%17s%17s",
			"foo", 4, "1'000'000'000", "250'000'000"))
		assert.Equal(t, lines[4], fmt.Sprintf("%40s%12d", "bar", 0))
		assert.Equal(t, lines[5], fmt.Sprintf("%40s%12d%17s%17s",
			"baz", 1, "500'000'000", "500'000'000"))
		assert.Equal(t, lines[6], strings.Repeat("-", 86))

		for _, i := range []int{0, 1, 2, 3, 5, 6} {
			assert.Equal(t, len(lines[i]), 86)
		}
	})

	t.Run("OddTitle", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteText(&buf, fixed{title: "rdtsc", rows: reportSource.rows}))

		banner, _, _ := strings.Cut(buf.String(), "\n")
		assert.Equal(t, len(banner), 86)
		assert.That(t, strings.Contains(banner, " rdtsc "))
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteText(&buf, fixed{title: "empty"}))
		assert.Equal(t, buf.Len(), 0)
	})

	t.Run("WriteError", func(t *testing.T) {
		err := WriteText(failWriter{}, reportSource)
		assert.That(t, Error.Has(err))
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteCSV(&buf, reportSource))
		assert.Equal(t, buf.String(), ""+
			"name,num_calls,total_ns,average_ns\n"+
			"foo,4,1000000000.000000,250000000.000000\n"+
			"bar,0,,\n"+
			"baz,1,500000000.000000,500000000.000000\n")
	})

	t.Run("Quoting", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteCSV(&buf, fixed{rows: []Row{{Name: "a,b", Calls: 0}}}))
		assert.That(t, strings.Contains(buf.String(), "\"a,b\",0,,\n"))
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		assert.NoError(t, WriteCSV(&buf, fixed{}))
		assert.Equal(t, buf.Len(), 0)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultCSVFile)
		assert.NoError(t, os.WriteFile(path, []byte("stale contents that are long\n"), 0644))
		assert.NoError(t, WriteCSVFile(path, reportSource))

		data, err := os.ReadFile(path)
		assert.NoError(t, err)

		var buf bytes.Buffer
		assert.NoError(t, WriteCSV(&buf, reportSource))
		assert.Equal(t, string(data), buf.String())
	})

	t.Run("FileError", func(t *testing.T) {
		err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "report.csv"), reportSource)
		assert.That(t, Error.Has(err))
	})
}

func TestFormat(t *testing.T) {
	t.Run("Nanos", func(t *testing.T) {
		assert.Equal(t, FormatNanos(0), "0")
		assert.Equal(t, FormatNanos(0.125), "125'000'000")
		assert.Equal(t, FormatNanos(1.5), "1'500'000'000")
		assert.Equal(t, FormatNanos(64), "64'000'000'000")
	})

	t.Run("Seconds", func(t *testing.T) {
		assert.Equal(t, FormatSeconds(12.5), "  12.500 s ")
		assert.Equal(t, FormatSeconds(0.5), " 500.000 ms")
		assert.Equal(t, FormatSeconds(0.0005), " 500.000 us")
		assert.Equal(t, FormatSeconds(0), "   0.000 ns")
	})
}

func TestRow(t *testing.T) {
	assert.Equal(t, Row{Calls: 8, Seconds: 2}.Average(), 0.25)
	assert.That(t, Row{Calls: 1}.HasData())
	assert.That(t, !Row{Calls: 0, Seconds: 1}.HasData())
	assert.That(t, !Row{Calls: 1, Seconds: -1}.HasData())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("write failed") }
