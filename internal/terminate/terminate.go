// Package terminate sends a graceful stop to a process and offers a single
// forceful escalation.
package terminate

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"
)

// DefaultGrace is how long a process gets to exit after SIGTERM.
const DefaultGrace = time.Second

var (
	ErrSignalFailed = errors.New("signal failed")
	ErrInvalidPID   = errors.New("invalid pid")
)

// Outcome is the result of a termination attempt.
type Outcome int

const (
	Terminated Outcome = iota
	StillAlive
	RequestFailed
)

func (o Outcome) String() string {
	switch o {
	case Terminated:
		return "terminated"
	case StillAlive:
		return "still alive"
	default:
		return "request failed"
	}
}

// Signaler delivers signals and probes for process existence.
type Signaler interface {
	Signal(pid int, sig syscall.Signal) error
	Exists(pid int) bool
}

// Terminator runs the SIGTERM, grace period, probe sequence.
type Terminator struct {
	sig   Signaler
	grace time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Terminator. A non-positive grace uses DefaultGrace.
func New(sig Signaler, grace time.Duration) *Terminator {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Terminator{sig: sig, grace: grace, sleep: sleepCtx}
}

// Terminate asks pid to exit and reports whether it did within the grace period.
// It never retries; escalation is left to the caller through ForceKill.
func (t *Terminator) Terminate(ctx context.Context, pid int) (Outcome, error) {
	if pid <= 0 {
		return RequestFailed, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := t.sig.Signal(pid, syscall.SIGTERM); err != nil {
		return RequestFailed, fmt.Errorf("terminate pid %d: %w: %w", pid, ErrSignalFailed, err)
	}
	if err := t.sleep(ctx, t.grace); err != nil {
		return StillAlive, err
	}
	if t.sig.Exists(pid) {
		return StillAlive, nil
	}
	return Terminated, nil
}

// ForceKill sends SIGKILL once.
func (t *Terminator) ForceKill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if err := t.sig.Signal(pid, syscall.SIGKILL); err != nil {
		return fmt.Errorf("kill pid %d: %w: %w", pid, ErrSignalFailed, err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
