package server

import (
	"context"
	"time"

	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/stats"
)

type ServerUI interface {
	Paint(View)
	AddInfoMsg(string)
	AddErrorMsg(string)
	Close()
}

// Totals is read once per paint; metric.GenericServer satisfies it.
type Totals interface {
	RequestsValue() float64
	BytesValue() float64
}

// View is everything a single paint needs.
type View struct {
	Now      time.Time
	Sessions []session.Snapshot
	Accepted uint64
	Requests uint64
	Bytes    uint64
	Rates    []stats.Rate
	Retrans  uint64 // per second
}

type UI struct {
	Terminal ServerUI
	IsTui    bool

	registry *session.Registry
	totals   Totals
	osStats  stats.OSStats
	prev     stats.NetStats
}

// NewUI prefers the termbox UI when asked and falls back to printing to
// stdout when the terminal cannot host it. The returned error explains the
// fallback and is informational.
func NewUI(terminalUI bool, title string, reg *session.Registry, totals Totals, quit func()) (*UI, error) {
	u := &UI{registry: reg, totals: totals, osStats: stats.GetOSStats()}

	var err error
	if terminalUI {
		var tui *Tui
		tui, err = InitTui(title, quit)
		if err == nil {
			u.Terminal = tui
			u.IsTui = true
		}
	}
	if u.Terminal == nil {
		u.Terminal = InitRawUI(nil)
	}
	u.prev, _ = stats.Snapshot(u.osStats)
	return u, err
}

func (u *UI) view() View {
	cur, _ := stats.Snapshot(u.osStats)
	secs := uint64(cur.Taken.Sub(u.prev.Taken) / time.Second)
	if secs == 0 {
		secs = 1
	}
	v := View{
		Now:      cur.Taken,
		Sessions: u.registry.Snapshot(),
		Accepted: u.registry.Accepted(),
		Rates:    stats.DeviceRates(u.prev, cur),
		Retrans:  stats.RetransDelta(u.prev.TCP, cur.TCP) / secs,
	}
	if u.totals != nil {
		v.Requests = uint64(u.totals.RequestsValue())
		v.Bytes = uint64(u.totals.BytesValue())
	}
	u.prev = cur
	return v
}

// Display paints once per second until ctx is done.
func (u *UI) Display(ctx context.Context) error {
	paintTicker := time.NewTicker(time.Second)
	defer paintTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-paintTicker.C:
			u.Terminal.Paint(u.view())
		}
	}
}

func (u *UI) Close() {
	u.Terminal.Close()
}
