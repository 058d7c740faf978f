package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	KILO = 1000
	MEGA = 1000 * 1000
	GIGA = 1000 * 1000 * 1000
	TERA = 1000 * 1000 * 1000 * 1000
)

func DurationToString(d time.Duration) string {
	if d < 0 {
		return d.String()
	}
	ud := uint64(d)
	val := float64(ud)
	unit := ""
	if ud < uint64(60*time.Second) {
		switch {
		case ud < uint64(time.Microsecond):
			unit = "ns"
		case ud < uint64(time.Millisecond):
			val = val / 1000
			unit = "us"
		case ud < uint64(time.Second):
			val = val / (1000 * 1000)
			unit = "ms"
		default:
			val = val / (1000 * 1000 * 1000)
			unit = "s"
		}

		result := strconv.FormatFloat(val, 'f', 3, 64)
		return result + unit
	}

	return d.String()
}

// MillisToString renders d as fractional milliseconds with microsecond
// resolution, e.g. "0.127".
func MillisToString(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

func NumberToUnit(num uint64) string {
	unit := ""
	value := float64(num)

	switch {
	case num >= TERA:
		unit = "T"
		value = value / TERA
	case num >= GIGA:
		unit = "G"
		value = value / GIGA
	case num >= MEGA:
		unit = "M"
		value = value / MEGA
	case num >= KILO:
		unit = "K"
		value = value / KILO
	}

	result := strconv.FormatFloat(value, 'f', 2, 64)
	result = strings.TrimSuffix(result, ".00")
	return result + unit
}

func BytesToString(bytes uint64) string {
	return NumberToUnit(bytes) + "B"
}

// TruncateStringFromStart keeps the last num display cells of str.
func TruncateStringFromStart(str string, num int) string {
	if runewidth.StringWidth(str) <= num {
		return str
	}
	if num <= 3 {
		return runewidth.TruncateLeft(str, runewidth.StringWidth(str)-num, "")
	}
	return "..." + runewidth.TruncateLeft(str, runewidth.StringWidth(str)-num+3, "")
}

func TruncateStringFromEnd(str string, num int) string {
	return runewidth.Truncate(str, num, "...")
}

// PadLeft right-aligns s in a field of w display cells.
func PadLeft(s string, w int) string {
	return runewidth.FillLeft(s, w)
}

// PadRight left-aligns s in a field of w display cells.
func PadRight(s string, w int) string {
	return runewidth.FillRight(s, w)
}
