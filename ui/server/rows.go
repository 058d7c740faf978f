package server

import (
	"strconv"
	"time"

	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/ui"
)

var sessionHeader = []string{"RemoteAddress", "Session", "State", "Requests", "Bytes", "Age", "Idle"}

var sessionWidths = []int{21, 8, 12, 9, 8, 7, 7}

func sessionRow(s session.Snapshot, now time.Time) []string {
	return []string{
		ui.TruncateStringFromStart(s.RemoteAddr, sessionWidths[0]),
		shortID(s.ID),
		s.State.String(),
		ui.NumberToUnit(s.Requests),
		ui.BytesToString(s.Bytes),
		shortDuration(now.Sub(s.Started)),
		shortDuration(now.Sub(s.LastActive)),
	}
}

func shortID(id uint64) string {
	h := strconv.FormatUint(id, 16)
	if len(h) > sessionWidths[1] {
		h = h[len(h)-sessionWidths[1]:]
	}
	return h
}

func shortDuration(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return strconv.Itoa(int(d/time.Second)) + "s"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m"
	default:
		return strconv.Itoa(int(d/time.Hour)) + "h"
	}
}

func totalsRow(v View) []string {
	return []string{
		"[SUM]",
		strconv.Itoa(len(v.Sessions)),
		"",
		ui.NumberToUnit(v.Requests),
		ui.BytesToString(v.Bytes),
		"",
		"",
	}
}
