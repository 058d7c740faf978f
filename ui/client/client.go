package client

import (
	"fmt"
	"io"
	"os"

	"weavelab.xyz/latsweep/payloads"
	"weavelab.xyz/latsweep/sweep"
	"weavelab.xyz/latsweep/ui"
)

type UI struct {
	out   io.Writer
	quiet bool
}

// NewUI prints to out, or stdout when out is nil. A quiet UI prints only the
// final table.
func NewUI(out io.Writer, quiet bool) *UI {
	if out == nil {
		out = os.Stdout
	}
	return &UI{out: out, quiet: quiet}
}

func (u *UI) PrintBanner(addr string, p sweep.ClientParams) {
	if u.quiet {
		return
	}
	fmt.Fprintf(u.out, "Connecting to %s (framing %s)\n", addr, p.Framing)
	fmt.Fprintf(u.out, "N=%d M=%d Q=%d: %d steps from %dB to %dB, %d round trips\n",
		p.N, p.M, p.Q, p.M, sweep.StepSize(p.N, 0), sweep.StepSize(p.N, p.M-1), p.RoundTrips())
}

// PrintStep reports step k (zero based) of m.
func (u *UI) PrintStep(k, m int, s payloads.Step) {
	if u.quiet {
		return
	}
	fmt.Fprintf(u.out, "[%*d/%d] size %8dB  avg %10s  p99 %10s\n",
		len(fmt.Sprint(m)), k+1, m, s.Size, ui.DurationToString(s.Average), ui.DurationToString(s.Latency.P99))
}

func (u *UI) printDivider() {
	fmt.Fprintln(u.out, "---------------------------------------------------------------------------------------------------")
}

func (u *UI) printHeader() {
	fmt.Fprintf(u.out, "%10s %9s %9s %9s %9s %9s %9s %9s %9s\n", "Size", "Avg", "Min", "50%", "90%", "99%", "99.9%", "Max", "Jitter")
}

func (u *UI) printStepRow(s payloads.Step) {
	l := s.Latency
	fmt.Fprintf(u.out, "%10s %9s %9s %9s %9s %9s %9s %9s %9s\n",
		ui.BytesToString(uint64(s.Size)),
		ui.DurationToString(s.Average),
		ui.DurationToString(l.Min),
		ui.DurationToString(l.P50),
		ui.DurationToString(l.P90),
		ui.DurationToString(l.P99),
		ui.DurationToString(l.P999),
		ui.DurationToString(l.Max),
		ui.DurationToString(l.Jitter))
}

func (u *UI) PrintTable(t *payloads.Table) {
	u.printDivider()
	u.printHeader()
	u.printDivider()
	for _, s := range t.Steps {
		u.printStepRow(s)
	}
	u.printDivider()
}

// PrintPartial shows the steps that completed before a failed run.
func (u *UI) PrintPartial(steps []payloads.Step) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintf(u.out, "%d completed step(s) before the failure:\n", len(steps))
	u.PrintTable(&payloads.Table{Steps: steps})
}

func (u *UI) PrintRetransmits(n uint64) {
	if u.quiet || n == 0 {
		return
	}
	fmt.Fprintf(u.out, "Host TCP retransmissions during the run: %d\n", n)
}

func (u *UI) PrintSaved(path string) {
	fmt.Fprintf(u.out, "Results saved to %s\n", path)
}
