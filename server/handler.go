package server

import (
	"context"
	"net"

	"weavelab.xyz/latsweep/session"
)

// Handler serves one accepted connection until the peer leaves, an I/O
// error occurs or ctx is done. It owns conn.
type Handler interface {
	HandleConn(context.Context, *session.Session, net.Conn)
}
