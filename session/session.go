package session

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhiqiangxu/util"
)

type State uint32

const (
	AwaitingData State = iota
	Responding
	Closed
)

func (s State) String() string {
	switch s {
	case AwaitingData:
		return "AwaitingData"
	case Responding:
		return "Responding"
	case Closed:
		return "Closed"
	}
	return "UNKNOWN"
}

var ErrInvalidTransition = errors.New("invalid session state transition")

// Session is the responder-side state of one accepted connection. Counters
// are atomic so that a display goroutine can read them while the owning
// responder goroutine updates them.
type Session struct {
	ID         uint64
	RemoteAddr string
	Started    time.Time

	state      uint32
	requests   uint64
	bytes      uint64
	lastActive int64

	closeOnce sync.Once
}

func New(remote net.Addr) *Session {
	now := time.Now()
	addr := ""
	if remote != nil {
		addr = remote.String()
	}
	return &Session{
		ID:         util.PoorManUUID(false),
		RemoteAddr: addr,
		Started:    now,
		state:      uint32(AwaitingData),
		lastActive: now.UnixNano(),
	}
}

func (s *Session) State() State {
	return State(atomic.LoadUint32(&s.state))
}

func validTransition(from, to State) bool {
	switch from {
	case AwaitingData:
		return to == Responding || to == Closed
	case Responding:
		return to == AwaitingData || to == Closed
	}
	return false
}

// Transition moves the session to the next state. Closed is terminal.
func (s *Session) Transition(to State) error {
	for {
		from := s.State()
		if !validTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		if atomic.CompareAndSwapUint32(&s.state, uint32(from), uint32(to)) {
			return nil
		}
	}
}

// Close moves the session to Closed from any live state and reports
// whether this call performed the transition.
func (s *Session) Close() bool {
	closed := false
	s.closeOnce.Do(func() {
		atomic.StoreUint32(&s.state, uint32(Closed))
		closed = true
	})
	return closed
}

// AddRequest records one acknowledged request of n bytes.
func (s *Session) AddRequest(n int) uint64 {
	atomic.AddUint64(&s.bytes, uint64(n))
	atomic.StoreInt64(&s.lastActive, time.Now().UnixNano())
	return atomic.AddUint64(&s.requests, 1)
}

func (s *Session) Requests() uint64 {
	return atomic.LoadUint64(&s.requests)
}

func (s *Session) Bytes() uint64 {
	return atomic.LoadUint64(&s.bytes)
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, atomic.LoadInt64(&s.lastActive))
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:         s.ID,
		RemoteAddr: s.RemoteAddr,
		Started:    s.Started,
		State:      s.State(),
		Requests:   s.Requests(),
		Bytes:      s.Bytes(),
		LastActive: s.LastActive(),
	}
}

// Snapshot is a point-in-time copy of a session for display.
type Snapshot struct {
	ID         uint64
	RemoteAddr string
	Started    time.Time
	State      State
	Requests   uint64
	Bytes      uint64
	LastActive time.Time
}
