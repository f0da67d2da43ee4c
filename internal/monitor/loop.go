// Package monitor drives the sampling cadence: one snapshot per tick, handed
// to a renderer, with operator commands polled between ticks.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/model"
	"github.com/Dicklesworthstone/procmon/internal/terminate"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultPoll     = 100 * time.Millisecond
)

// ErrInvalidInput is reported when the operator enters something that is not a pid.
var ErrInvalidInput = errors.New("invalid input")

// State of the loop.
type State int

const (
	Running State = iota
	AwaitingTermination
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingTermination:
		return "awaiting-termination"
	default:
		return "stopped"
	}
}

// Source produces one snapshot per call.
type Source interface {
	Sample(ctx context.Context, now time.Time) model.Snapshot
}

// Renderer displays a snapshot; it prepares its own target before drawing.
type Renderer interface {
	Render(snap model.Snapshot) error
}

// Controller returns a pending command without blocking.
type Controller interface {
	Poll() control.Command
}

// Operator is the blocking conversation that follows a terminate command.
type Operator interface {
	ReadPID(ctx context.Context) (int, error)
	Confirm(ctx context.Context, question string) (bool, error)
	Notify(msg string)
	// Pause lets the operator read the outcome before the display refreshes.
	Pause(ctx context.Context) error
}

// Killer is the termination sub-operation.
type Killer interface {
	Terminate(ctx context.Context, pid int) (terminate.Outcome, error)
	ForceKill(pid int) error
}

// Config carries the loop collaborators and cadence.
type Config struct {
	Source     Source
	Renderer   Renderer
	Controller Controller
	Operator   Operator
	Killer     Killer
	Interval   time.Duration
	Poll       time.Duration
	Logger     *slog.Logger
}

// Loop is the sampling state machine. It is not safe for concurrent use.
type Loop struct {
	cfg   Config
	state State
	log   *slog.Logger

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

func New(cfg Config) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Poll <= 0 {
		cfg.Poll = DefaultPoll
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		cfg:   cfg,
		state: Running,
		log:   log,
		now:   time.Now,
		after: time.After,
	}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Run ticks until a quit command or ctx cancellation. Both end in Stopped and
// return nil.
func (l *Loop) Run(ctx context.Context) error {
	for l.state != Stopped {
		switch l.state {
		case Running:
			l.tick(ctx)
		case AwaitingTermination:
			l.terminate(ctx)
			if l.state == AwaitingTermination {
				l.state = Running
			}
		}
		if ctx.Err() != nil {
			l.state = Stopped
		}
	}
	l.log.Debug("sampling loop stopped")
	return nil
}

func (l *Loop) tick(ctx context.Context) {
	snap := l.cfg.Source.Sample(ctx, l.now())
	if err := l.cfg.Renderer.Render(snap); err != nil {
		l.log.Warn("render failed", "err", err)
	}

	cmd := l.cfg.Controller.Poll()
	if cmd == control.None {
		cmd = l.wait(ctx)
	}
	l.apply(cmd)
}

// wait blocks for one interval, polling the controller so a command ends it early.
func (l *Loop) wait(ctx context.Context) control.Command {
	deadline := l.after(l.cfg.Interval)
	poll := time.NewTicker(l.cfg.Poll)
	defer poll.Stop()
	for {
		select {
		case <-ctx.Done():
			return control.Quit
		case <-deadline:
			return control.None
		case <-poll.C:
			if cmd := l.cfg.Controller.Poll(); cmd != control.None {
				return cmd
			}
		}
	}
}

func (l *Loop) apply(cmd control.Command) {
	switch cmd {
	case control.Quit:
		l.state = Stopped
	case control.Terminate:
		l.state = AwaitingTermination
	}
}

func (l *Loop) terminate(ctx context.Context) {
	op := l.cfg.Operator
	defer func() {
		if err := op.Pause(ctx); err != nil && ctx.Err() == nil {
			l.log.Debug("operator pause failed", "err", err)
		}
	}()

	pid, err := op.ReadPID(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		op.Notify("Invalid input.")
		l.log.Debug("pid prompt rejected", "err", err)
		return
	}

	outcome, err := l.cfg.Killer.Terminate(ctx, pid)
	l.log.Info("termination attempted", "pid", pid, "outcome", outcome.String(), "err", err)
	switch outcome {
	case terminate.Terminated:
		op.Notify(fmt.Sprintf("Process %d successfully terminated.", pid))
	case terminate.RequestFailed:
		op.Notify(fmt.Sprintf("Failed to terminate process: %v", err))
	case terminate.StillAlive:
		if ctx.Err() != nil {
			return
		}
		l.escalate(ctx, pid)
	}
}

func (l *Loop) escalate(ctx context.Context, pid int) {
	op := l.cfg.Operator
	yes, err := op.Confirm(ctx, "Process still exists. Force kill with SIGKILL? (y/n): ")
	if err != nil || !yes {
		return
	}
	if err := l.cfg.Killer.ForceKill(pid); err != nil {
		l.log.Info("force kill failed", "pid", pid, "err", err)
		op.Notify(fmt.Sprintf("Force kill failed: %v", err))
		return
	}
	l.log.Info("force killed", "pid", pid)
	op.Notify(fmt.Sprintf("Process %d force killed.", pid))
}

// ParsePID validates operator input as a positive process id.
func ParsePID(s string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %q is not a process id", ErrInvalidInput, s)
	}
	return pid, nil
}
