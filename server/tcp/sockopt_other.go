//go:build !linux
// +build !linux

package tcp

import "net"

func setQuickAck(conn net.Conn) error {
	return nil
}
