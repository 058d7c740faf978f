package server

import (
	tm "github.com/nsf/termbox-go"

	"weavelab.xyz/latsweep/ui"
)

// table draws fixed width columns into the termbox back buffer, one row
// below the other starting at (x, y).
type table struct {
	x, y       int
	widths     []int
	alignRight bool
	row        int
}

func newTable(x, y int, widths []int, alignRight bool) table {
	return table{x: x, y: y, widths: widths, alignRight: alignRight}
}

func (t *table) reset() {
	t.row = 0
}

func (t *table) width() int {
	w := len(t.widths) + 1
	for _, cw := range t.widths {
		w += cw
	}
	return w
}

// rule fills the current row with fill and puts sep on every inner column
// boundary.
func (t *table) rule(fill, sep rune) {
	y := t.y + t.row
	for i := 0; i < t.width(); i++ {
		tm.SetCell(t.x+i, y, fill, tm.ColorDefault, tm.ColorDefault)
	}
	o := 0
	for _, w := range t.widths[:len(t.widths)-1] {
		o += w + 1
		tm.SetCell(t.x+o, y, sep, tm.ColorDefault, tm.ColorDefault)
	}
	t.row++
}

func (t *table) header() {
	t.rule(ui.Symbols[ui.SymbolHorizontal], ui.Symbols[ui.SymbolMiddleTop])
}

func (t *table) separator() {
	t.rule(ui.Symbols[ui.SymbolHorizontal], ui.Symbols[ui.SymbolMiddleMiddle])
}

func (t *table) addRow(cells []string) {
	t.rule(ui.Symbols[ui.SymbolSpace], ui.Symbols[ui.SymbolVertical])
	y := t.y + t.row - 1

	o := 1
	for i, w := range t.widths {
		cell := ""
		if i < len(cells) {
			cell = ui.TruncateStringFromEnd(cells[i], w)
		}
		x := t.x + o
		if t.alignRight {
			cell = ui.PadLeft(cell, w)
		} else {
			cell = ui.PadRight(cell, w)
			if i == 0 {
				x--
			}
		}
		printText(x, y, w, cell, tm.ColorDefault, tm.ColorDefault)
		o += w + 1
	}
}
