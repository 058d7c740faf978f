package server

import (
	"errors"
	"fmt"
	"sync"

	tm "github.com/nsf/termbox-go"

	"weavelab.xyz/latsweep/ui"
)

type Tui struct {
	title                              string
	h, w                               int
	resX, resY, resW                   int
	topVSplitX, topVSplitY, topVSplitH int
	statX, statY, statW                int
	msgX, msgY, msgW                   int
	botVSplitX, botVSplitY, botVSplitH int
	errX, errY, errW                   int
	res                                table
	msg                                table
	msgRing                            []string
	err                                table
	errRing                            []string
	ringLock                           sync.Mutex
	closeOnce                          sync.Once
}

// InitTui takes over the terminal. quit runs when the user presses Esc or
// Ctrl-C.
func InitTui(title string, quit func()) (*Tui, error) {
	err := tm.Init()
	if err != nil {
		return nil, err
	}

	w, h := tm.Size()
	if h < 40 || w < 80 {
		tm.Close()
		s := fmt.Sprintf("Terminal too small (%dwx%dh), must be at least 40hx80w", w, h)
		return nil, errors.New(s)
	}

	tm.SetInputMode(tm.InputEsc | tm.InputMouse)
	tm.Clear(tm.ColorDefault, tm.ColorDefault)
	tm.Sync()
	tm.Flush()
	hideCursor()

	tui := newLayout(title, w, h)

	go func() {
		for {
			switch ev := tm.PollEvent(); ev.Type {
			case tm.EventKey:
				if ev.Key == tm.KeyEsc || ev.Key == tm.KeyCtrlC {
					if quit != nil {
						quit()
					}
					return
				}
			case tm.EventInterrupt, tm.EventError:
				return
			}
		}
	}()

	return tui, nil
}

func newLayout(title string, w, h int) *Tui {
	botScnH := 8
	statScnW := 26
	t := &Tui{title: title, h: h, w: w}
	t.resX = 0
	t.resY = 2
	t.resW = w - statScnW
	t.topVSplitX = t.resW
	t.topVSplitY = 1
	t.topVSplitH = h - botScnH
	t.statX = t.topVSplitX + 1
	t.statY = 2
	t.statW = statScnW
	t.msgX = 0
	t.msgY = h - botScnH + 1
	t.msgW = (w+1)/2 + 1
	t.botVSplitX = t.msgW
	t.botVSplitY = h - botScnH
	t.botVSplitH = botScnH
	t.errX = t.botVSplitX + 1
	t.errY = h - botScnH + 1
	t.errW = w - t.msgW - 1
	t.res = newTable(t.resX, t.resY, sessionWidths, true)
	t.msg = newTable(t.msgX, t.msgY, []int{t.msgW}, false)
	t.msgRing = make([]string, botScnH-1)
	t.err = newTable(t.errX, t.errY, []int{t.errW}, false)
	t.errRing = make([]string, botScnH-1)
	return t
}

func hideCursor() {
	tm.SetCursor(0, 0)
}

func (t *Tui) Paint(v View) {
	tm.Clear(tm.ColorDefault, tm.ColorDefault)
	defer tm.Flush()
	printCenterText(0, 0, t.w, t.title, tm.ColorBlack, tm.ColorWhite)
	printHLineText(t.resX, t.resY-1, t.resW, "Sessions")
	printHLineText(t.statX, t.statY-1, t.statW, "Statistics")
	printVLine(t.topVSplitX, t.topVSplitY, t.topVSplitH)

	printHLineText(t.msgX, t.msgY-1, t.msgW, "Messages")
	printHLineText(t.errX, t.errY-1, t.errW, "Errors")

	t.ringLock.Lock()
	t.msg.reset()
	for _, s := range t.msgRing {
		t.msg.addRow([]string{s})
	}
	t.err.reset()
	for _, s := range t.errRing {
		t.err.addRow([]string{s})
	}
	t.ringLock.Unlock()

	printVLine(t.botVSplitX, t.botVSplitY, t.botVSplitH)

	t.res.reset()
	t.res.header()
	t.res.addRow(sessionHeader)
	t.res.separator()
	maxRows := (t.topVSplitH - t.resY - 3) / 2
	for i, s := range v.Sessions {
		if i >= maxRows {
			break
		}
		t.res.addRow(sessionRow(s, v.Now))
		t.res.separator()
	}

	x := t.statX
	w := t.statW
	y := t.statY
	printText(x, y, w, fmt.Sprintf("Sessions: %d", len(v.Sessions)), tm.ColorWhite, tm.ColorBlack)
	y++
	printText(x, y, w, fmt.Sprintf("Accepted: %s", ui.NumberToUnit(v.Accepted)), tm.ColorWhite, tm.ColorBlack)
	y++
	printText(x, y, w, fmt.Sprintf("Requests: %s", ui.NumberToUnit(v.Requests)), tm.ColorWhite, tm.ColorBlack)
	y++
	printText(x, y, w, fmt.Sprintf("Received: %s", ui.BytesToString(v.Bytes)), tm.ColorWhite, tm.ColorBlack)
	y++
	printText(x, y, w, "-------------------------", tm.ColorDefault, tm.ColorDefault)
	y++
	for _, r := range v.Rates {
		if y+6 >= t.topVSplitY+t.topVSplitH {
			break
		}
		printText(x, y, w, fmt.Sprintf("if: %s", r.InterfaceName), tm.ColorWhite, tm.ColorBlack)
		y++
		printText(x, y, w, fmt.Sprintf("Tx %sbps", ui.NumberToUnit(r.TxBytes*8)), tm.ColorWhite, tm.ColorBlack)
		printUsageBar(x+14, y, 10, r.TxBytes*8, ui.KILO, tm.ColorYellow)
		y++
		printText(x, y, w, fmt.Sprintf("Rx %sbps", ui.NumberToUnit(r.RxBytes*8)), tm.ColorWhite, tm.ColorBlack)
		printUsageBar(x+14, y, 10, r.RxBytes*8, ui.KILO, tm.ColorGreen)
		y++
		printText(x, y, w, fmt.Sprintf("Tx %spps", ui.NumberToUnit(r.TxPkts)), tm.ColorWhite, tm.ColorBlack)
		printUsageBar(x+14, y, 10, r.TxPkts, 10, tm.ColorWhite)
		y++
		printText(x, y, w, fmt.Sprintf("Rx %spps", ui.NumberToUnit(r.RxPkts)), tm.ColorWhite, tm.ColorBlack)
		printUsageBar(x+14, y, 10, r.RxPkts, 10, tm.ColorCyan)
		y++
		printText(x, y, w, "-------------------------", tm.ColorDefault, tm.ColorDefault)
		y++
	}
	printText(x, y, w, fmt.Sprintf("Tcp Retrans: %s", ui.NumberToUnit(v.Retrans)), tm.ColorDefault, tm.ColorDefault)
}

func (t *Tui) AddInfoMsg(msg string) {
	t.ringLock.Lock()
	defer t.ringLock.Unlock()
	t.msgRing = pushRing(t.msgRing, splitWidth(msg, t.msgW-1))
}

func (t *Tui) AddErrorMsg(msg string) {
	t.ringLock.Lock()
	defer t.ringLock.Unlock()
	t.errRing = pushRing(t.errRing, splitWidth(msg, t.errW-1))
}

func (t *Tui) Close() {
	t.closeOnce.Do(func() {
		tm.Interrupt()
		tm.Close()
	})
}

// pushRing drops the oldest lines so the ring keeps its length.
func pushRing(ring, lines []string) []string {
	n := len(ring)
	if len(lines) >= n {
		return append([]string(nil), lines[len(lines)-n:]...)
	}
	out := append(ring[len(lines):len(ring):len(ring)], lines...)
	return out
}
