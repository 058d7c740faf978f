package sweep

import (
	"errors"
	"fmt"
	"time"
)

const (
	// BaseSize is added to every step size so that step 0 still carries bytes.
	BaseSize = 8
	// MaxStepSize bounds the largest payload of a sweep under either framing.
	MaxStepSize = 16 * 1024 * 1024
)

var ErrStepTooLarge = errors.New("step size too large")

type ClientParams struct {
	N int
	M int
	Q int

	AckTimeout  time.Duration
	DialTimeout time.Duration
	Rate        int
	Warmup      int
	ToS         uint8
	Framing     Framing
	IPVersion   IPVersion
}

// StepSize returns the payload size for step k.
func StepSize(n, k int) int {
	return n*k + BaseSize
}

// CheckSizes reports whether every step of an n, m sweep stays within
// MaxStepSize. The bound is checked by division so that n*k never overflows.
func CheckSizes(n, m int) error {
	if n < 0 || m < 1 {
		return fmt.Errorf("%w: N=%d M=%d", ErrStepTooLarge, n, m)
	}
	if m > 1 && n > (MaxStepSize-BaseSize)/(m-1) {
		return fmt.Errorf("%w: N=%d M=%d exceeds %d bytes", ErrStepTooLarge, n, m, MaxStepSize)
	}
	return nil
}

// RoundTrips is the number of measured round trips of a full run.
func (p ClientParams) RoundTrips() int {
	return p.M * p.Q
}
