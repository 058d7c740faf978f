package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	reuse "github.com/zhiqiangxu/go-reuseport"
	"go.uber.org/zap"

	"weavelab.xyz/latsweep/server"
	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/sweep"
)

// ErrBind is returned by Serve when the listening socket cannot be created.
var ErrBind = errors.New("bind failed")

// Listen opens the listening socket described by cfg.
func Listen(cfg *server.Config) (net.Listener, error) {
	network := sweep.TCPVersion(cfg.IPVersion)
	addr := cfg.Addr()
	var (
		l   net.Listener
		err error
	)
	if cfg.ReusePort {
		l, err = reuse.Listen(network, addr)
	} else {
		l, err = net.Listen(network, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBind, addr, err)
	}
	return l, nil
}

// Serve listens on cfg's address and hands every accepted connection to h
// through sched until ctx is done.
func Serve(ctx context.Context, cfg *server.Config, h server.Handler, sched server.Scheduler, reg *session.Registry) error {
	l, err := Listen(cfg)
	if err != nil {
		return err
	}
	return ServeListener(ctx, l, cfg.Log(), h, sched, reg)
}

// ServeListener runs the accept loop on an already bound listener and
// closes it on return.
func ServeListener(ctx context.Context, l net.Listener, logger *zap.Logger, h server.Handler, sched server.Scheduler, reg *session.Registry) error {
	logger.Info("listening", zap.String("addr", l.Addr().String()))

	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()
	defer l.Close()
	defer sched.Wait()

	// https://golang.org/src/net/http/server.go?s=99574:99629#L3152
	var tempDelay time.Duration // how long to sleep on accept failure
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if max := 1 * time.Second; tempDelay > max {
				tempDelay = max
			}
			logger.Warn("accept failed", zap.Error(err), zap.Duration("retry", tempDelay))
			select {
			case <-time.After(tempDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		tempDelay = 0

		s := session.New(conn.RemoteAddr())
		reg.Add(s)
		logger.Info("accepted", zap.Uint64("session", s.ID), zap.String("remote", s.RemoteAddr))

		err = sched.Go(ctx, func() {
			defer reg.Remove(s)
			h.HandleConn(ctx, s, conn)
		})
		if err != nil {
			logger.Warn("could not schedule session", zap.Uint64("session", s.ID), zap.Error(err))
			s.Close()
			reg.Remove(s)
			conn.Close()
		}
	}
}
