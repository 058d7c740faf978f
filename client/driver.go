package client

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/payloads"
	"weavelab.xyz/latsweep/protocol"
	"weavelab.xyz/latsweep/stats"
	"weavelab.xyz/latsweep/sweep"
)

// Result of a Driver run. Table is set only when every step completed;
// Partial holds the steps finished before Err.
type Result struct {
	Table       *payloads.Table
	Partial     []payloads.Step
	Err         error
	Retransmits uint64
}

// Driver runs one measurement sweep over a single connection.
type Driver struct {
	params   sweep.ClientParams
	logger   *zap.Logger
	metrics  metric.ClientMetrics
	source   io.Reader
	observer func(int, payloads.Step)
	now      func() time.Time
	osStats  stats.OSStats
}

func NewDriver(params sweep.ClientParams, opts ...Option) *Driver {
	d := &Driver{
		params:  params,
		logger:  zap.NewNop(),
		metrics: metric.NewDiscardClient(),
		now:     time.Now,
		osStats: stats.GetOSStats(),
	}
	for _, o := range opts {
		o(d)
	}
	if d.source == nil {
		d.source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

func (d *Driver) Run(ctx context.Context, addr string) (res Result) {
	before, beforeErr := d.osStats.GetTCPStats()
	defer func() {
		if beforeErr != nil {
			return
		}
		after, err := d.osStats.GetTCPStats()
		if err == nil {
			res.Retransmits = stats.RetransDelta(before, after)
		}
	}()

	if err := sweep.CheckSizes(d.params.N, d.params.M); err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrSession, err)}
	}

	conn, err := d.dial(ctx, addr)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)}
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := d.logger.With(zap.String("remote", conn.RemoteAddr().String()), zap.String("local", conn.LocalAddr().String()))
	logger.Info("connected", zap.Int("N", d.params.N), zap.Int("M", d.params.M), zap.Int("Q", d.params.Q))

	r := &runner{
		Driver:  d,
		conn:    conn,
		acks:    protocol.NewAckReader(conn),
		limiter: ratelimit.NewUnlimited(),
	}
	if d.params.Rate > 0 {
		r.limiter = ratelimit.New(d.params.Rate)
	}

	warmup := make([]byte, sweep.StepSize(d.params.N, 0))
	for i := 0; i < d.params.Warmup; i++ {
		if _, err = r.roundTrip(ctx, warmup); err != nil {
			return Result{Err: fmt.Errorf("%w: warmup round trip %d: %w", ErrSession, i, err)}
		}
	}

	steps := make([]payloads.Step, 0, d.params.M)
	for k := 0; k < d.params.M; k++ {
		size := sweep.StepSize(d.params.N, k)
		step, err := r.step(ctx, size)
		if err != nil {
			logger.Warn("run aborted", zap.Int("step", k), zap.Int("size", size), zap.Error(err))
			return Result{
				Partial: steps,
				Err:     fmt.Errorf("%w: step %d (size %d): %w", ErrSession, k, size, err),
			}
		}
		steps = append(steps, step)
		logger.Debug("step done", zap.Int("step", k), zap.Stringer("result", step))
		if d.observer != nil {
			d.observer(k, step)
		}
	}

	return Result{Table: payloads.NewTable(d.params.N, steps)}
}

type runner struct {
	*Driver
	conn    net.Conn
	acks    *protocol.AckReader
	limiter ratelimit.Limiter
}

func (r *runner) step(ctx context.Context, size int) (payloads.Step, error) {
	samples := make([]time.Duration, r.params.Q)
	buf := make([]byte, size)
	for i := range samples {
		if _, err := io.ReadFull(r.source, buf); err != nil {
			return payloads.Step{}, fmt.Errorf("payload source: %w", err)
		}
		rtt, err := r.roundTrip(ctx, buf)
		if err != nil {
			return payloads.Step{}, fmt.Errorf("round trip %d: %w", i, err)
		}
		samples[i] = rtt
		r.metrics.RoundTrip.Observe(rtt.Seconds())
		r.metrics.RoundTrips.Add(1)
	}
	return payloads.NewStep(size, samples), nil
}

// roundTrip times one write of payload and the wait for its ack line.
func (r *runner) roundTrip(ctx context.Context, payload []byte) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.limiter.Take()

	wire := protocol.Encode(r.params.Framing, payload)
	if r.params.AckTimeout > 0 {
		if err := r.conn.SetReadDeadline(r.now().Add(r.params.AckTimeout)); err != nil {
			return 0, err
		}
	}

	start := r.now()
	if _, err := r.conn.Write(wire); err != nil {
		return 0, r.cause(ctx, err)
	}
	if _, err := r.acks.ReadAck(); err != nil {
		return 0, r.cause(ctx, err)
	}
	return r.now().Sub(start), nil
}

// cause prefers the context error when the connection was closed by
// cancellation.
func (r *runner) cause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
