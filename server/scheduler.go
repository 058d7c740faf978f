package server

import (
	"context"
	"errors"
	"sync"

	"github.com/zhiqiangxu/util"
	"go.uber.org/zap"
)

// Scheduler decides where an accepted session runs.
type Scheduler interface {
	// Go runs f or returns an error if f could not be scheduled.
	Go(ctx context.Context, f func()) error
	// Wait blocks until every scheduled f has returned.
	Wait()
}

// Unbounded runs each session on its own goroutine.
type Unbounded struct {
	wg sync.WaitGroup
}

func NewUnbounded() *Unbounded {
	return &Unbounded{}
}

func (u *Unbounded) Go(ctx context.Context, f func()) error {
	util.GoFunc(&u.wg, f)
	return nil
}

func (u *Unbounded) Wait() {
	u.wg.Wait()
}

var ErrPoolClosed = errors.New("worker pool closed")

// Pool runs sessions on a fixed number of workers. Go blocks while every
// worker is busy, which leaves further connections in the listen backlog.
type Pool struct {
	wg        sync.WaitGroup
	doneChan  chan struct{}
	workChan  chan func()
	closeOnce sync.Once
	logger    *zap.Logger
}

func NewPool(size int, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{doneChan: make(chan struct{}), workChan: make(chan func()), logger: logger}
	for i := 0; i < size; i++ {
		util.GoFunc(&p.wg, p.work)
	}
	return p
}

func (p *Pool) work() {
	for {
		select {
		case f := <-p.workChan:
			p.run(f)
		case <-p.doneChan:
			return
		}
	}
}

func (p *Pool) run(f func()) {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("session worker panic", zap.Any("err", err))
		}
	}()
	f()
}

func (p *Pool) Go(ctx context.Context, f func()) error {
	select {
	case p.workChan <- f:
		return nil
	case <-p.doneChan:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait stops the workers once their current sessions end.
func (p *Pool) Wait() {
	p.closeOnce.Do(func() { close(p.doneChan) })
	p.wg.Wait()
}

// NewScheduler returns a Pool for a positive limit, Unbounded otherwise.
func NewScheduler(maxSessions int, logger *zap.Logger) Scheduler {
	if maxSessions > 0 {
		return NewPool(maxSessions, logger)
	}
	return NewUnbounded()
}
