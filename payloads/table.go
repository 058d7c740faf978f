package payloads

import (
	"fmt"
	"time"

	"weavelab.xyz/latsweep/ui"
)

// Step is one finalized payload-size configuration of a sweep.
type Step struct {
	Size        int
	Repetitions int
	Total       time.Duration
	Average     time.Duration
	Latency     LatencyPayload
}

// NewStep finalizes a step from its round-trip samples. Average is the
// truncating integer division of the summed samples by their count.
func NewStep(size int, samples []time.Duration) Step {
	total := time.Duration(0)
	for _, d := range samples {
		total += d
	}
	step := Step{
		Size:        size,
		Repetitions: len(samples),
		Total:       total,
		Latency:     NewLatencies(samples),
	}
	if len(samples) > 0 {
		step.Average = total / time.Duration(len(samples))
	}
	return step
}

// AverageMillis truncates the average to whole milliseconds.
func (s Step) AverageMillis() int64 {
	return s.Average.Milliseconds()
}

func (s Step) String() string {
	return fmt.Sprintf("%10d %6d %12s %s", s.Size, s.Repetitions, ui.DurationToString(s.Average), s.Latency)
}

// Table is the ordered result of a completed run. Steps are in ascending
// step order and the table is not modified after the run returns it.
type Table struct {
	N     int
	Steps []Step
}

func NewTable(n int, steps []Step) *Table {
	out := make([]Step, len(steps))
	copy(out, steps)
	return &Table{N: n, Steps: out}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

// Rows renders the table as (size, average_ms) pairs.
func (t *Table) Rows() [][2]int64 {
	rows := make([][2]int64, 0, t.Len())
	if t == nil {
		return rows
	}
	for _, s := range t.Steps {
		rows = append(rows, [2]int64{int64(s.Size), s.AverageMillis()})
	}
	return rows
}

// Summary is a one-line description used by loggers.
func (t *Table) Summary() string {
	if t.Len() == 0 {
		return "empty"
	}
	first, last := t.Steps[0], t.Steps[len(t.Steps)-1]
	return fmt.Sprintf("%d steps, %dB..%dB, avg %s..%s", len(t.Steps), first.Size, last.Size,
		ui.DurationToString(first.Average), ui.DurationToString(last.Average))
}
