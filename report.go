package measure

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeebo/errs"
)

// DefaultCSVFile is the file name used by the command line tools when no
// other name is given.
const DefaultCSVFile = "performance_report.csv"

// reportWidth is the width of the text report in columns.
const reportWidth = 86

// WriteText writes a fixed width table of the source's rows to w. Nothing is
// written for a source without rows.
func WriteText(w io.Writer, src Source) error {
	rows := src.Snapshot()
	if len(rows) == 0 {
		return nil
	}

	ew := &errWriter{w: w}
	rule := strings.Repeat("-", reportWidth)

	title := src.Title()
	pad := strings.Repeat("-", max((reportWidth-len(title))/2-1, 0))
	odd := ""
	if len(title)%2 == 1 {
		odd = "-"
	}

	fmt.Fprintf(ew, "%s %s %s%s\n", pad, title, pad, odd)
	fmt.Fprintf(ew, "%40s%12s%17s%17s\n", "Name", "Calls", "Total (ns)", "Average (ns)")
	fmt.Fprintln(ew, rule)
	for _, row := range rows {
		if !row.HasData() {
			fmt.Fprintf(ew, "%40s%12d\n", row.Name, row.Calls)
			continue
		}
		fmt.Fprintf(ew, "%40s%12d%17s%17s\n", row.Name, row.Calls,
			FormatNanos(row.Seconds), FormatNanos(row.Average()))
	}
	fmt.Fprintln(ew, rule)

	return Error.Wrap(ew.err)
}

// WriteCSV writes the source's rows to w as CSV with the header
// name,num_calls,total_ns,average_ns. Rows without data have empty time
// fields. Nothing is written for a source without rows.
func WriteCSV(w io.Writer, src Source) error {
	rows := src.Snapshot()
	if len(rows) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "num_calls", "total_ns", "average_ns"})
	for _, row := range rows {
		total, average := "", ""
		if row.HasData() {
			total = strconv.FormatFloat(row.Seconds*1e9, 'f', 6, 64)
			average = strconv.FormatFloat(row.Average()*1e9, 'f', 6, 64)
		}
		_ = cw.Write([]string{row.Name, strconv.FormatUint(row.Calls, 10), total, average})
	}
	cw.Flush()

	return Error.Wrap(cw.Error())
}

// WriteCSVFile writes the CSV report for the source into the file at path,
// truncating it if it exists.
func WriteCSVFile(path string, src Source) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(fh.Close())) }()

	return WriteCSV(fh, src)
}

// Print writes the text report of every Database to stdout. It is typically
// called at the end of the program.
func Print() {
	for _, src := range Sources() {
		_ = WriteText(os.Stdout, src)
	}
}

// PrintFor writes the text report of the Database for B to stdout.
func PrintFor[B Backend]() {
	_ = WriteText(os.Stdout, DatabaseFor[B]())
}

// FormatNanos formats seconds as an integer number of nanoseconds with a '
// between every group of three digits, so longer numbers are always larger.
func FormatNanos(sec float64) string {
	s := strconv.FormatUint(uint64(sec*1e9), 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('\'')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatSeconds formats seconds in the most readable unit: s, ms, us or ns.
// Every result has the same width, which makes values easy to read but hard
// to compare across units.
func FormatSeconds(sec float64) string {
	switch {
	case sec >= 10:
		return fmt.Sprintf("%8.3f s ", sec)
	case sec >= 1e-2:
		return fmt.Sprintf("%8.3f ms", sec*1e3)
	case sec >= 1e-5:
		return fmt.Sprintf("%8.3f us", sec*1e6)
	default:
		return fmt.Sprintf("%8.3f ns", sec*1e9)
	}
}

// errWriter remembers the first error and drops all writes after it.
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
