package config

import (
	"github.com/urfave/cli/v2"

	"weavelab.xyz/latsweep/log"
	"weavelab.xyz/latsweep/sweep"
)

func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug information in logging output."},
		&cli.StringFlag{Name: "o", Usage: "Name of the JSON log file (default per mode)"},
		&cli.BoolFlag{Name: "no", Usage: "Disable logging to file."},
		&cli.BoolFlag{Name: "no-console", Usage: "Do not log to stdout."},
		&cli.BoolFlag{Name: "4", Usage: "Use only IP v4 version"},
		&cli.BoolFlag{Name: "6", Usage: "Use only IP v6 version"},
		&cli.StringFlag{Name: "framing", Value: "raw", Usage: "Request framing on the wire: raw or length"},
	}
}

func ServerFlags() []cli.Flag {
	return append(CommonFlags(),
		&cli.StringFlag{Name: "ip", Value: "localhost", Usage: "Local IP address to bind to"},
		&cli.BoolFlag{Name: "ui", Usage: "Show output in text UI."},
		&cli.IntFlag{Name: "max-sessions", Usage: "Serve at most this many sessions at once, 0 for no limit"},
		&cli.BoolFlag{Name: "reuseport", Usage: "Listen with SO_REUSEPORT"},
		&cli.BoolFlag{Name: "quickack", Usage: "Re-arm TCP_QUICKACK after every read (Linux)"},
		&cli.DurationFlag{Name: "idle-timeout", Usage: "Close sessions idle for this long, 0 to never"},
		&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address"},
	)
}

func ClientFlags() []cli.Flag {
	return append(CommonFlags(),
		&cli.DurationFlag{Name: "ack-timeout", Usage: "Fail a round trip whose ack takes longer, 0 to wait forever"},
		&cli.DurationFlag{Name: "dial-timeout", Value: DefaultDialTimeout, Usage: "Connection establishment timeout"},
		&cli.IntFlag{Name: "rate", Usage: "Round trips per second, 0 for back to back"},
		&cli.IntFlag{Name: "warmup", Usage: "Unrecorded round trips before the first step"},
		&cli.IntFlag{Name: "tos", Usage: "IP Type of Service / Traffic Class (0-255)"},
		&cli.StringFlag{Name: "csv", Usage: "Path of the CSV report (default results_N<N>_M<M>_Q<Q>.csv)"},
		&cli.BoolFlag{Name: "no-csv", Usage: "Do not write a CSV report"},
		&cli.BoolFlag{Name: "precise", Usage: "Write fractional milliseconds to the CSV"},
		&cli.BoolFlag{Name: "extended", Usage: "Add min/p50/p99/max columns to the CSV"},
		&cli.BoolFlag{Name: "keep-partial", Usage: "Report completed steps when a run fails"},
		&cli.BoolFlag{Name: "quiet", Usage: "Print only the final table"},
	)
}

func commonFromContext(c *cli.Context, defaultLog string) (Common, error) {
	framing := sweep.ParseFraming(c.String("framing"))
	if framing == sweep.FramingUnknown {
		return Common{}, argError("invalid framing: %s", c.String("framing"))
	}
	out := c.String("o")
	if out == "" {
		out = defaultLog
	}
	return Common{
		Debug:      c.Bool("debug"),
		OutputFile: out,
		NoOutput:   c.Bool("no"),
		NoConsole:  c.Bool("no-console"),
		IPVersion:  sweep.IPVersionFromFlags(c.Bool("4"), c.Bool("6")),
		Framing:    framing,
	}, nil
}

func ServerFromContext(c *cli.Context) (*Server, error) {
	common, err := commonFromContext(c, log.DefaultServerFile)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Common:      common,
		ShowUI:      c.Bool("ui"),
		MaxSessions: c.Int("max-sessions"),
		ReusePort:   c.Bool("reuseport"),
		QuickAck:    c.Bool("quickack"),
		IdleTimeout: c.Duration("idle-timeout"),
		MetricsAddr: c.String("metrics-addr"),
	}
	if s.LocalIP, err = parseIP(c.String("ip"), s.IPVersion); err != nil {
		return nil, err
	}
	if err = ParseServerArgs(c.Args().Slice(), s); err != nil {
		return nil, err
	}
	return s, validateServerArgs(s)
}

func ClientFromContext(c *cli.Context) (*Client, error) {
	common, err := commonFromContext(c, log.DefaultClientFile)
	if err != nil {
		return nil, err
	}
	tos := c.Int("tos")
	if tos < 0 || tos > 255 {
		return nil, argError("--tos must be in the range [0, 255], got %d", tos)
	}
	cl := &Client{
		Common:      common,
		CSVPath:     c.String("csv"),
		NoCSV:       c.Bool("no-csv"),
		Precise:     c.Bool("precise"),
		Extended:    c.Bool("extended"),
		KeepPartial: c.Bool("keep-partial"),
		Quiet:       c.Bool("quiet"),
		Params: sweep.ClientParams{
			AckTimeout:  c.Duration("ack-timeout"),
			DialTimeout: c.Duration("dial-timeout"),
			Rate:        c.Int("rate"),
			Warmup:      c.Int("warmup"),
			ToS:         uint8(tos),
			Framing:     common.Framing,
			IPVersion:   common.IPVersion,
		},
	}
	if err = ParseClientArgs(c.Args().Slice(), cl); err != nil {
		return nil, err
	}
	return cl, validateClientArgs(cl)
}
