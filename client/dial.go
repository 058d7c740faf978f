package client

import (
	"context"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"weavelab.xyz/latsweep/sweep"
)

func (d *Driver) dial(ctx context.Context, addr string) (*net.TCPConn, error) {
	dialer := &net.Dialer{Timeout: d.params.DialTimeout}
	conn, err := dialer.DialContext(ctx, sweep.TCPVersion(d.params.IPVersion), addr)
	if err != nil {
		return nil, fmt.Errorf("error dialing remote: %w", err)
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("unknown connection type created")
	}
	if err = tcpConn.SetNoDelay(true); err != nil {
		tcpConn.Close()
		return nil, fmt.Errorf("failed to disable Nagle: %w", err)
	}
	if d.params.ToS != 0 {
		if err = setTOS(tcpConn, int(d.params.ToS)); err != nil {
			tcpConn.Close()
			return nil, fmt.Errorf("failed to set ToS %d: %w", d.params.ToS, err)
		}
	}
	return tcpConn, nil
}

// setTOS marks IPv4 traffic with the ToS byte and IPv6 traffic with the
// traffic class.
func setTOS(conn *net.TCPConn, tos int) error {
	raddr, _ := conn.RemoteAddr().(*net.TCPAddr)
	if raddr != nil && raddr.IP.To4() != nil {
		return ipv4.NewConn(conn).SetTOS(tos)
	}
	return ipv6.NewConn(conn).SetTrafficClass(tos)
}
