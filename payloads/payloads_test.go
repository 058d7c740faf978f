package payloads

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestNewStepTruncates(t *testing.T) {
	samples := []time.Duration{3 * time.Millisecond, 4 * time.Millisecond}
	s := NewStep(16, samples)
	assert.Equal(t, s.Size, 16)
	assert.Equal(t, s.Repetitions, 2)
	assert.Equal(t, s.Total, 7*time.Millisecond)
	assert.Equal(t, s.Average, 3500*time.Microsecond)
	assert.Equal(t, s.AverageMillis(), int64(3))

	// 10ns over 3 repetitions truncates to 3ns, never rounds up.
	s = NewStep(8, []time.Duration{3, 3, 4})
	assert.Equal(t, s.Average, time.Duration(3))
	s = NewStep(8, []time.Duration{5, 5, 7})
	assert.Equal(t, s.Average, time.Duration(5))
}

func TestNewStepEmpty(t *testing.T) {
	s := NewStep(8, nil)
	assert.Equal(t, s.Average, time.Duration(0))
	assert.Equal(t, s.Repetitions, 0)
}

func TestNewLatencies(t *testing.T) {
	samples := make([]time.Duration, 0, 100)
	for i := 100; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Microsecond)
	}
	l := NewLatencies(samples)
	assert.Equal(t, l.Min, time.Microsecond)
	assert.Equal(t, l.Max, 100*time.Microsecond)
	assert.Equal(t, l.P50, 50*time.Microsecond)
	assert.Equal(t, l.P90, 90*time.Microsecond)
	assert.Equal(t, l.P99, 99*time.Microsecond)
	assert.Equal(t, l.Avg, 50500*time.Nanosecond)
	assert.Equal(t, l.Jitter, time.Microsecond)
	// input order untouched
	assert.Equal(t, samples[0], 100*time.Microsecond)
}

func TestNewLatenciesSingle(t *testing.T) {
	l := NewLatencies([]time.Duration{time.Millisecond})
	assert.Equal(t, l.Min, time.Millisecond)
	assert.Equal(t, l.P50, time.Millisecond)
	assert.Equal(t, l.P999, time.Millisecond)
	assert.Equal(t, l.Jitter, time.Duration(0))
}

func TestTableRows(t *testing.T) {
	steps := []Step{
		NewStep(8, []time.Duration{time.Millisecond, 2 * time.Millisecond}),
		NewStep(16, []time.Duration{5 * time.Millisecond, 5 * time.Millisecond}),
	}
	table := NewTable(8, steps)
	steps[0].Size = 999
	assert.Equal(t, table.Len(), 2)
	assert.DeepEqual(t, table.Rows(), [][2]int64{{8, 1}, {16, 5}})

	var nilTable *Table
	assert.Equal(t, nilTable.Len(), 0)
	assert.Equal(t, len(nilTable.Rows()), 0)
}
