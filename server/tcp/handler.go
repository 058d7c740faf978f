package tcp

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/protocol"
	"weavelab.xyz/latsweep/server"
	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/sweep"
)

// Handler is the responder: it acknowledges every request on a connection
// with the current wall clock time.
type Handler struct {
	logger      *zap.Logger
	metrics     metric.ServerMetrics
	framing     sweep.Framing
	quickAck    bool
	idleTimeout time.Duration
	now         func() time.Time
}

func NewHandler(cfg *server.Config, m metric.ServerMetrics) Handler {
	return Handler{
		logger:      cfg.Log(),
		metrics:     m,
		framing:     cfg.Framing,
		quickAck:    cfg.QuickAck,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
	}
}

func (h Handler) HandleConn(ctx context.Context, s *session.Session, conn net.Conn) {
	defer conn.Close()
	defer s.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	h.metrics.Sessions.Add(1)
	defer h.metrics.Sessions.Add(-1)

	logger := h.logger.With(zap.Uint64("session", s.ID), zap.String("remote", s.RemoteAddr))
	if h.quickAck {
		if err := setQuickAck(conn); err != nil {
			logger.Debug("TCP_QUICKACK unavailable", zap.Error(err))
		}
	}

	err := h.respond(s, conn)
	switch {
	case err == nil || errors.Is(err, io.EOF):
		logger.Info("session closed", zap.Uint64("requests", s.Requests()), zap.Uint64("bytes", s.Bytes()))
	case ctx.Err() != nil:
		logger.Info("session closed on shutdown", zap.Uint64("requests", s.Requests()))
	case errors.Is(err, os.ErrDeadlineExceeded):
		logger.Info("session idle timeout", zap.Duration("idle", h.idleTimeout), zap.Uint64("requests", s.Requests()))
	default:
		logger.Warn("session aborted", zap.Error(err), zap.Uint64("requests", s.Requests()))
	}
}

// respond runs the AwaitingData/Responding loop until the peer closes (io.EOF)
// or an I/O error occurs.
func (h Handler) respond(s *session.Session, conn net.Conn) error {
	rr := protocol.NewRequestReader(h.framing, conn)
	for {
		if h.idleTimeout > 0 {
			if err := conn.SetReadDeadline(h.now().Add(h.idleTimeout)); err != nil {
				return err
			}
		}
		n, err := rr.ReadRequest()
		if err != nil {
			return err
		}
		if err = s.Transition(session.Responding); err != nil {
			return err
		}

		ack := protocol.EncodeAck(protocol.AckTimestamp(h.now()))
		if _, err = conn.Write(ack); err != nil {
			return err
		}

		s.AddRequest(n)
		h.metrics.Requests.Add(1)
		h.metrics.Bytes.Add(float64(n))

		if err = s.Transition(session.AwaitingData); err != nil {
			return err
		}
		if h.quickAck {
			_ = setQuickAck(conn)
		}
	}
}
