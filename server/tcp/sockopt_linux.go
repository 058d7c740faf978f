//go:build linux
// +build linux

package tcp

import (
	"errors"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

var errNotTCP = errors.New("not a TCP connection")

// setQuickAck disables delayed acks until the kernel re-enables them, which
// it does on its own, so callers re-arm after every read.
func setQuickAck(conn net.Conn) error {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return errNotTCP
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return err
	}
	var serr error
	err = raw.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
