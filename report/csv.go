// Package report writes a finished sweep as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"weavelab.xyz/latsweep/payloads"
	"weavelab.xyz/latsweep/ui"
)

var (
	Header         = []string{"size(bytes)", "average_time(ms)"}
	ExtendedHeader = []string{"min_time(ms)", "p50_time(ms)", "p99_time(ms)", "max_time(ms)"}
)

type Options struct {
	// Precise writes fractional milliseconds instead of truncated integers.
	Precise  bool
	Extended bool
}

func FileName(n, m, q int) string {
	return fmt.Sprintf("results_N%d_M%d_Q%d.csv", n, m, q)
}

// WriteCSV writes a header and one row per step, in step order.
func WriteCSV(w io.Writer, t *payloads.Table, opts Options) error {
	if t == nil {
		return fmt.Errorf("no result table to write")
	}
	cw := csv.NewWriter(w)
	header := Header
	if opts.Extended {
		header = append(append([]string(nil), Header...), ExtendedHeader...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range t.Steps {
		row := []string{strconv.Itoa(s.Size), millis(s.Average, opts.Precise)}
		if opts.Extended {
			l := s.Latency
			row = append(row,
				millis(l.Min, opts.Precise),
				millis(l.P50, opts.Precise),
				millis(l.P99, opts.Precise),
				millis(l.Max, opts.Precise))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func millis(d time.Duration, precise bool) string {
	if precise {
		return ui.MillisToString(d)
	}
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// WriteFile replaces path with the CSV for t.
func WriteFile(path string, t *payloads.Table, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = WriteCSV(f, t, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
