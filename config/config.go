package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"weavelab.xyz/latsweep/protocol"
	"weavelab.xyz/latsweep/sweep"
)

var Version = "UNKNOWN"

// ErrArgument marks command line input that cannot be turned into a run.
var ErrArgument = errors.New("invalid argument")

func argError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

const DefaultDialTimeout = 5 * time.Second

type Common struct {
	Debug      bool
	OutputFile string
	NoOutput   bool
	NoConsole  bool
	IPVersion  sweep.IPVersion
	Framing    sweep.Framing
}

// LogFile is the JSON log path, or empty when file logging is off.
func (c Common) LogFile() string {
	if c.NoOutput {
		return ""
	}
	return c.OutputFile
}

type Server struct {
	Common
	Port        uint16
	LocalIP     net.IP
	ShowUI      bool
	MaxSessions int
	ReusePort   bool
	QuickAck    bool
	IdleTimeout time.Duration
	MetricsAddr string
}

// Addr is the listen address; a nil LocalIP listens on every interface.
func (s *Server) Addr() string {
	host := ""
	if s.LocalIP != nil {
		host = s.LocalIP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

type Client struct {
	Common
	Host        string
	Port        uint16
	Params      sweep.ClientParams
	CSVPath     string
	NoCSV       bool
	Precise     bool
	Extended    bool
	KeepPartial bool
	Quiet       bool
}

func (c *Client) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

func parsePort(s string) (uint16, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, argError("port must be an integer, got %q", s)
	}
	if p < 1 || p > 65535 {
		return 0, argError("port must be in the range [1, 65535], got %d", p)
	}
	return uint16(p), nil
}

func parseCount(name, s string, min int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, argError("%s must be an integer, got %q", name, s)
	}
	if v < min {
		return 0, argError("%s must be at least %d, got %d", name, min, v)
	}
	return v, nil
}

// misplacedFlag finds a flag given after the positional arguments, where the
// cli parser no longer treats it as a flag.
func misplacedFlag(args []string) error {
	for _, a := range args {
		if len(a) < 2 || a[0] != '-' {
			continue
		}
		if _, err := strconv.Atoi(a); err == nil {
			continue
		}
		return argError("flag %s must come before the positional arguments", a)
	}
	return nil
}

// ParseServerArgs reads the positional `<port>` argument into s.
func ParseServerArgs(args []string, s *Server) error {
	if len(args) != 1 {
		if err := misplacedFlag(args); err != nil {
			return err
		}
		return argError("expected exactly one argument <port>, got %d", len(args))
	}
	port, err := parsePort(args[0])
	if err != nil {
		return err
	}
	s.Port = port
	return nil
}

// ParseClientArgs reads `<serverIP> <port> <N> <M> <Q>` into c.
func ParseClientArgs(args []string, c *Client) error {
	if len(args) != 5 {
		if err := misplacedFlag(args); err != nil {
			return err
		}
		return argError("expected <serverIP> <port> <N> <M> <Q>, got %d argument(s)", len(args))
	}
	if args[0] == "" {
		return argError("server address is empty")
	}
	c.Host = args[0]

	port, err := parsePort(args[1])
	if err != nil {
		return err
	}
	c.Port = port

	if c.Params.N, err = parseCount("N", args[2], 0); err != nil {
		return err
	}
	if c.Params.M, err = parseCount("M", args[3], 1); err != nil {
		return err
	}
	if c.Params.Q, err = parseCount("Q", args[4], 1); err != nil {
		return err
	}
	return nil
}

func parseIP(raw string, v sweep.IPVersion) (net.IP, error) {
	if raw == "" || raw == "localhost" {
		return nil, nil
	}
	ip := net.ParseIP(raw)
	if ip == nil || (v == sweep.IPv4 && ip.To4() == nil) || (v == sweep.IPv6 && ip.To4() != nil) {
		return nil, argError("invalid ip address: %s", raw)
	}
	return ip, nil
}

func validateServerArgs(s *Server) error {
	if s.MaxSessions < 0 {
		return argError("--max-sessions must not be negative")
	}
	if s.IdleTimeout < 0 {
		return argError("--idle-timeout must not be negative")
	}
	if s.Framing == sweep.FramingUnknown {
		return argError("unknown framing")
	}
	return nil
}

func validateClientArgs(c *Client) error {
	p := c.Params
	if p.Framing == sweep.FramingUnknown {
		return argError("unknown framing")
	}
	if err := sweep.CheckSizes(p.N, p.M); err != nil {
		return argError("largest payload must not exceed %d bytes (N=%d, M=%d)", protocol.MaxFrameSize, p.N, p.M)
	}
	if p.AckTimeout < 0 || p.DialTimeout < 0 {
		return argError("timeouts must not be negative")
	}
	if p.Rate < 0 || p.Warmup < 0 {
		return argError("--rate and --warmup must not be negative")
	}
	if c.NoCSV && c.CSVPath != "" {
		return argError("--csv and --no-csv cannot be used together")
	}
	return nil
}
