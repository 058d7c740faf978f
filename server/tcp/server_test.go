package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/zhiqiangxu/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/nettest"
	"gotest.tools/v3/assert"

	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/protocol"
	"weavelab.xyz/latsweep/server"
	"weavelab.xyz/latsweep/session"
	"weavelab.xyz/latsweep/sweep"
)

type fixture struct {
	addr    string
	reg     *session.Registry
	metrics *metric.GenericServer
	logs    *observer.ObservedLogs
	cancel  context.CancelFunc
	done    chan error
}

func startServer(t *testing.T, cfg *server.Config, sched server.Scheduler) *fixture {
	t.Helper()
	l, err := nettest.NewLocalListener("tcp")
	assert.NilError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	cfg.Logger = zap.New(core)

	f := &fixture{
		addr:    l.Addr().String(),
		reg:     session.NewRegistry(),
		metrics: metric.NewGenericServer(),
		logs:    logs,
		done:    make(chan error, 1),
	}
	h := NewHandler(cfg, f.metrics.ServerMetrics)
	h.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() {
		f.done <- ServeListener(ctx, l, cfg.Logger, h, sched, f.reg)
	}()
	t.Cleanup(func() {
		cancel()
		<-f.done
	})
	return f
}

func (f *fixture) waitIdle() {
	util.TryUntilSuccess(func() bool { return f.reg.Len() == 0 }, time.Millisecond)
}

func roundTrip(t *testing.T, conn net.Conn, br *bufio.Reader, payload []byte) string {
	t.Helper()
	_, err := conn.Write(payload)
	assert.NilError(t, err)
	line, err := br.ReadString('\n')
	assert.NilError(t, err)
	return line
}

func TestResponderRaw(t *testing.T) {
	f := startServer(t, &server.Config{Framing: sweep.FramingRaw}, server.NewUnbounded())

	conn, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	br := bufio.NewReader(conn)

	for _, size := range []int{8, 16, 24} {
		ack := roundTrip(t, conn, br, make([]byte, size))
		assert.Equal(t, ack, "2024.01.02 03:04:05\n")
	}
	assert.NilError(t, conn.Close())
	f.waitIdle()

	assert.Equal(t, f.metrics.RequestsValue(), float64(3))
	assert.Equal(t, f.metrics.BytesValue(), float64(48))
	assert.Equal(t, f.metrics.SessionsValue(), float64(0))

	closed := f.logs.FilterMessage("session closed").All()
	assert.Equal(t, len(closed), 1)
	assert.Equal(t, closed[0].ContextMap()["requests"], uint64(3))
	assert.Equal(t, f.logs.FilterMessage("accepted").Len(), 1)
}

func TestResponderLengthFraming(t *testing.T) {
	f := startServer(t, &server.Config{Framing: sweep.FramingLength}, server.NewUnbounded())

	conn, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	defer conn.Close()

	// two frames in one write still get two acks
	wire := append(protocol.EncodeFrame(make([]byte, 100)), protocol.EncodeFrame(make([]byte, 3))...)
	_, err = conn.Write(wire)
	assert.NilError(t, err)

	ar := protocol.NewAckReader(conn)
	for i := 0; i < 2; i++ {
		ack, err := ar.ReadAck()
		assert.NilError(t, err)
		_, err = time.ParseInLocation(protocol.AckLayout, ack, time.Local)
		assert.NilError(t, err)
	}
	conn.Close()
	f.waitIdle()
	assert.Equal(t, f.metrics.RequestsValue(), float64(2))
	assert.Equal(t, f.metrics.BytesValue(), float64(2*protocol.HeaderSize+103))
}

func TestResponderConcurrentSessions(t *testing.T) {
	f := startServer(t, &server.Config{}, server.NewUnbounded())

	const clients, trips = 5, 20
	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		util.GoFunc(&wg, func() {
			conn, err := net.Dial("tcp", f.addr)
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()
			br := bufio.NewReader(conn)
			for j := 0; j < trips; j++ {
				if _, err = conn.Write([]byte("ping")); err != nil {
					errs <- err
					return
				}
				if _, err = br.ReadString('\n'); err != nil {
					errs <- err
					return
				}
			}
		})
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NilError(t, err)
	}
	f.waitIdle()
	assert.Equal(t, f.metrics.RequestsValue(), float64(clients*trips))
	assert.Equal(t, f.reg.Accepted(), uint64(clients))
}

func TestResponderPoolSerializes(t *testing.T) {
	f := startServer(t, &server.Config{}, server.NewPool(1, nil))

	first, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	br1 := bufio.NewReader(first)
	roundTrip(t, first, br1, []byte("a"))

	second, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	defer second.Close()
	_, err = second.Write([]byte("b"))
	assert.NilError(t, err)

	// the only worker is busy with first
	assert.NilError(t, second.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, err = bufio.NewReader(second).ReadString('\n')
	assert.Assert(t, err != nil)
	assert.NilError(t, second.SetReadDeadline(time.Time{}))

	first.Close()
	br2 := bufio.NewReader(second)
	line, err := br2.ReadString('\n')
	assert.NilError(t, err)
	assert.Equal(t, line, "2024.01.02 03:04:05\n")
}

func TestResponderIdleTimeout(t *testing.T) {
	f := startServer(t, &server.Config{IdleTimeout: 50 * time.Millisecond}, server.NewUnbounded())

	conn, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	defer conn.Close()
	assert.NilError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	assert.Assert(t, errors.Is(err, io.EOF), "got %v", err)
	f.waitIdle()
	assert.Equal(t, f.logs.FilterMessage("session idle timeout").Len(), 1)
}

func TestServeShutdown(t *testing.T) {
	f := startServer(t, &server.Config{}, server.NewUnbounded())

	conn, err := net.Dial("tcp", f.addr)
	assert.NilError(t, err)
	defer conn.Close()
	roundTrip(t, conn, bufio.NewReader(conn), []byte("x"))

	f.cancel()
	select {
	case err := <-f.done:
		assert.NilError(t, err)
		f.done <- err
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.NilError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Read(make([]byte, 1))
	assert.Assert(t, errors.Is(err, io.EOF), "got %v", err)
}

func TestServeBindError(t *testing.T) {
	l, err := nettest.NewLocalListener("tcp4")
	assert.NilError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	cfg := &server.Config{LocalIP: net.ParseIP("127.0.0.1"), LocalPort: port, IPVersion: sweep.IPv4}
	err = Serve(context.Background(), cfg, NewHandler(cfg, metric.NewDiscardServer()), server.NewUnbounded(), session.NewRegistry())
	assert.Assert(t, errors.Is(err, ErrBind), "got %v", err)
	assert.ErrorContains(t, err, "127.0.0.1:"+strconv.Itoa(port))
}

func TestRespondStateMachine(t *testing.T) {
	cfg := &server.Config{}
	h := NewHandler(cfg, metric.NewDiscardServer())
	client, srv := net.Pipe()
	s := session.New(nil)

	done := make(chan error, 1)
	go func() { done <- h.respond(s, srv) }()

	br := bufio.NewReader(client)
	_, err := client.Write([]byte("12345678"))
	assert.NilError(t, err)
	_, err = br.ReadString('\n')
	assert.NilError(t, err)

	client.Close()
	err = <-done
	assert.Assert(t, errors.Is(err, io.EOF), "got %v", err)
	assert.Equal(t, s.Requests(), uint64(1))
	assert.Equal(t, s.Bytes(), uint64(8))
	assert.Equal(t, s.State(), session.AwaitingData)
}
