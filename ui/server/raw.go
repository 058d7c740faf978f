package server

import (
	"fmt"
	"io"
	"os"
	"strings"

	"weavelab.xyz/latsweep/ui"
)

type RawUI struct {
	out io.Writer
}

func InitRawUI(out io.Writer) *RawUI {
	if out == nil {
		out = os.Stdout
	}
	return &RawUI{out: out}
}

func (u *RawUI) Paint(v View) {
	if len(v.Sessions) == 0 {
		return
	}
	fmt.Fprintln(u.out, "- - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -")
	u.printRow(sessionHeader)
	for _, s := range v.Sessions {
		u.printRow(sessionRow(s, v.Now))
	}
	if len(v.Sessions) > 1 {
		u.printRow(totalsRow(v))
	}
}

func (u *RawUI) printRow(cols []string) {
	var b strings.Builder
	b.WriteString("[" + ui.PadLeft(cols[0], sessionWidths[0]) + "]")
	for i := 1; i < len(cols); i++ {
		b.WriteString("  ")
		b.WriteString(ui.PadLeft(cols[i], sessionWidths[i]))
	}
	fmt.Fprintln(u.out, b.String())
}

// Log lines already reach stdout through the console core.
func (u *RawUI) AddInfoMsg(string)  {}
func (u *RawUI) AddErrorMsg(string) {}
func (u *RawUI) Close()             {}
