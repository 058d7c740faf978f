package server

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/stats"
)

func TestSessionRow(t *testing.T) {
	now := time.Now()
	snap := session.Snapshot{
		ID:         0xdeadbeefcafe,
		RemoteAddr: "10.0.0.2:50312",
		Started:    now.Add(-90 * time.Second),
		State:      session.AwaitingData,
		Requests:   1500,
		Bytes:      2048,
		LastActive: now.Add(-2 * time.Second),
	}
	row := sessionRow(snap, now)
	assert.DeepEqual(t, row, []string{"10.0.0.2:50312", "beefcafe", "AwaitingData", "1.50K", "2.05KB", "1m", "2s"})
}

func TestShortDuration(t *testing.T) {
	assert.Equal(t, shortDuration(-time.Second), "0s")
	assert.Equal(t, shortDuration(59*time.Second), "59s")
	assert.Equal(t, shortDuration(2*time.Hour), "2h")
}

func TestRawUIPaint(t *testing.T) {
	var buf bytes.Buffer
	u := InitRawUI(&buf)

	u.Paint(View{Now: time.Now()})
	assert.Equal(t, buf.Len(), 0)

	now := time.Now()
	v := View{
		Now: now,
		Sessions: []session.Snapshot{
			{ID: 1, RemoteAddr: "127.0.0.1:1000", Started: now, LastActive: now},
			{ID: 2, RemoteAddr: "127.0.0.1:1001", Started: now, LastActive: now},
		},
		Requests: 12,
		Bytes:    96,
	}
	u.Paint(v)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 5)
	assert.Assert(t, strings.Contains(lines[1], "RemoteAddress"))
	assert.Assert(t, strings.Contains(lines[2], "127.0.0.1:1000"))
	assert.Assert(t, strings.HasPrefix(lines[4], "["+strings.Repeat(" ", 16)+"[SUM]]"), lines[4])
}

func TestPushRing(t *testing.T) {
	ring := make([]string, 3)
	ring = pushRing(ring, []string{"a"})
	ring = pushRing(ring, []string{"b", "c"})
	assert.DeepEqual(t, ring, []string{"a", "b", "c"})
	ring = pushRing(ring, []string{"d"})
	assert.DeepEqual(t, ring, []string{"b", "c", "d"})
	ring = pushRing(ring, []string{"1", "2", "3", "4"})
	assert.DeepEqual(t, ring, []string{"2", "3", "4"})
}

func TestSplitWidth(t *testing.T) {
	assert.DeepEqual(t, splitWidth("abcdefg", 3), []string{"abc", "def", "g"})
	assert.DeepEqual(t, splitWidth("ab", 3), []string{"ab"})
	assert.DeepEqual(t, splitWidth("", 3), []string{""})
}

func TestTableWidth(t *testing.T) {
	tbl := newTable(0, 0, sessionWidths, true)
	want := len(sessionWidths) + 1
	for _, w := range sessionWidths {
		want += w
	}
	assert.Equal(t, tbl.width(), want)
	small := newTable(3, 4, []int{10}, false)
	assert.Equal(t, small.width(), 12)
}

type fixedTotals struct{}

func (fixedTotals) RequestsValue() float64 { return 42 }
func (fixedTotals) BytesValue() float64    { return 4096 }

func TestViewReadsTotals(t *testing.T) {
	reg := session.NewRegistry()
	reg.Add(session.New(nil))
	u := &UI{registry: reg, totals: fixedTotals{}, osStats: stats.GetOSStats()}

	v := u.view()
	assert.Equal(t, v.Requests, uint64(42))
	assert.Equal(t, v.Bytes, uint64(4096))
	assert.Equal(t, len(v.Sessions), 1)
	assert.Equal(t, v.Accepted, uint64(1))
}
