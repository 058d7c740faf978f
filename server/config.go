package server

import (
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"weavelab.xyz/latsweep/sweep"
)

type Config struct {
	IPVersion   sweep.IPVersion
	LocalIP     net.IP
	LocalPort   int
	Framing     sweep.Framing
	ReusePort   bool
	QuickAck    bool
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

func (c *Config) Addr() string {
	host := ""
	if c.LocalIP != nil {
		host = c.LocalIP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(c.LocalPort))
}

// Log never returns nil.
func (c *Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
