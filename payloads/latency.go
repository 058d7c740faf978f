package payloads

import (
	"fmt"
	"sort"
	"time"

	"weavelab.xyz/latsweep/ui"
)

// LatencyPayload describes the distribution of one step's round trips.
type LatencyPayload struct {
	Jitter time.Duration
	Avg    time.Duration
	Min    time.Duration
	Max    time.Duration
	P50    time.Duration
	P90    time.Duration
	P95    time.Duration
	P99    time.Duration
	P999   time.Duration
}

func (p LatencyPayload) String() string {
	return fmt.Sprintf("%9s %9s %9s %9s %9s %9s %9s %9s %9s",
		ui.DurationToString(p.Avg),
		ui.DurationToString(p.Min),
		ui.DurationToString(p.P50),
		ui.DurationToString(p.P90),
		ui.DurationToString(p.P95),
		ui.DurationToString(p.P99),
		ui.DurationToString(p.P999),
		ui.DurationToString(p.Max),
		ui.DurationToString(p.Jitter))
}

// NewLatencies summarizes samples without modifying them.
func NewLatencies(samples []time.Duration) LatencyPayload {
	rttCount := len(samples)
	if rttCount == 0 {
		return LatencyPayload{}
	}

	//
	// Special handling for rttCount == 1. This prevents negative index
	// in the percentile lookups below.
	//
	rttCountFixed := rttCount
	if rttCountFixed == 1 {
		rttCountFixed = 2
	}

	sum := int64(0)
	diffs := int64(0)
	for i, d := range samples {
		sum += d.Nanoseconds()
		if i > 0 {
			delta := d - samples[i-1]
			if delta < 0 {
				delta = -delta
			}
			diffs += delta.Nanoseconds()
		}
	}
	var jitter time.Duration
	if rttCount > 1 {
		jitter = time.Duration(diffs / int64(rttCount-1))
	}

	sorted := make([]time.Duration, rttCount)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	return LatencyPayload{
		Jitter: jitter,
		Avg:    time.Duration(sum / int64(rttCount)),
		Min:    sorted[0],
		Max:    sorted[rttCount-1],
		P50:    percentile(sorted, rttCountFixed, 50),
		P90:    percentile(sorted, rttCountFixed, 90),
		P95:    percentile(sorted, rttCountFixed, 95),
		P99:    percentile(sorted, rttCountFixed, 99),
		P999:   percentile(sorted, rttCountFixed, 99.9),
	}
}

func percentile(sorted []time.Duration, countFixed int, p float64) time.Duration {
	idx := int((float64(countFixed)*p)/100) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
