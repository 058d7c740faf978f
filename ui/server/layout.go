package server

import (
	"github.com/mattn/go-runewidth"
	tm "github.com/nsf/termbox-go"

	"weavelab.xyz/latsweep/ui"
)

func printHLineText(x, y int, w int, text string) {
	for i := 0; i < w; i++ {
		tm.SetCell(x+i, y, ui.Symbols[ui.SymbolHorizontal], tm.ColorWhite, tm.ColorDefault)
	}
	offset := (w - runewidth.StringWidth(text)) / 2
	xoff := 0
	for i, r := range []rune(text) {
		tm.SetCell(x+offset+i+xoff, y, r, tm.ColorWhite, tm.ColorDefault)
		if runewidth.RuneWidth(r) == 2 {
			xoff++
		}
	}
}

func printVLine(x, y int, h int) {
	tm.SetCell(x, y, ui.Symbols[ui.SymbolMiddleTop], tm.ColorWhite, tm.ColorDefault)
	for i := 1; i < h; i++ {
		tm.SetCell(x, y+i, ui.Symbols[ui.SymbolVertical], tm.ColorWhite, tm.ColorDefault)
	}
}

func printText(x, y, w int, text string, fg, bg tm.Attribute) {
	for i := 0; i < w; i++ {
		tm.SetCell(x+i, y, ' ', fg, bg)
	}
	xoff := 0
	for i, r := range []rune(runewidth.Truncate(text, w, "")) {
		tm.SetCell(x+i+xoff, y, r, fg, bg)
		if runewidth.RuneWidth(r) == 2 {
			xoff++
		}
	}
}

func printCenterText(x, y, w int, text string, fg, bg tm.Attribute) {
	offset := (w - runewidth.StringWidth(text)) / 2
	for i := 0; i < w; i++ {
		tm.SetCell(x+i, y, ' ', fg, bg)
	}
	xoff := 0
	for i, r := range []rune(text) {
		tm.SetCell(x+offset+i+xoff, y, r, fg, bg)
		if runewidth.RuneWidth(r) == 2 {
			xoff++
		}
	}
}

// splitWidth breaks s into lines no wider than w display cells.
func splitWidth(s string, w int) []string {
	if w <= 0 {
		return []string{s}
	}
	var (
		lines []string
		cur   []rune
		width int
	)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if width+rw > w && len(cur) > 0 {
			lines = append(lines, string(cur))
			cur, width = cur[:0], 0
		}
		cur = append(cur, r)
		width += rw
	}
	return append(lines, string(cur))
}
