package ui

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestDurationToString(t *testing.T) {
	assert.Equal(t, DurationToString(500*time.Nanosecond), "500.000ns")
	assert.Equal(t, DurationToString(1500*time.Nanosecond), "1.500us")
	assert.Equal(t, DurationToString(2500*time.Microsecond), "2.500ms")
	assert.Equal(t, DurationToString(3*time.Second), "3.000s")
	assert.Equal(t, DurationToString(2*time.Minute), "2m0s")
}

func TestMillisToString(t *testing.T) {
	assert.Equal(t, MillisToString(127*time.Microsecond), "0.127")
	assert.Equal(t, MillisToString(3*time.Millisecond), "3.000")
}

func TestNumberToUnit(t *testing.T) {
	assert.Equal(t, NumberToUnit(999), "999")
	assert.Equal(t, NumberToUnit(1000), "1K")
	assert.Equal(t, NumberToUnit(1500000), "1.50M")
	assert.Equal(t, BytesToString(8192), "8.19KB")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, TruncateStringFromStart("192.168.100.200:54321", 13), "....200:54321")
	assert.Equal(t, TruncateStringFromStart("short", 13), "short")
	assert.Equal(t, TruncateStringFromEnd("a long message here", 10), "a long ...")
	assert.Equal(t, PadLeft("7", 3), "  7")
	assert.Equal(t, PadRight("7", 3), "7  ")
}
