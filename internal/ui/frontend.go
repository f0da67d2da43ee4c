package ui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/model"
	"github.com/Dicklesworthstone/procmon/internal/monitor"
)

// sender is the part of *tea.Program the frontend talks to.
type sender interface {
	Send(msg tea.Msg)
}

// Frontend connects the sampling loop to a bubbletea program: snapshots and
// prompts flow in as messages, keys flow out through the command queue.
type Frontend struct {
	model *Model
	queue *control.Queue
	prog  *tea.Program
	send  sender
}

// NewFrontend builds the program. opts are passed to tea.NewProgram.
func NewFrontend(self int32, opts ...tea.ProgramOption) *Frontend {
	queue := control.NewQueue(8)
	m := New(queue, self)
	prog := tea.NewProgram(m, opts...)
	return &Frontend{model: m, queue: queue, prog: prog, send: prog}
}

// Controller returns the command source for the loop.
func (f *Frontend) Controller() *control.Queue { return f.queue }

func (f *Frontend) Render(s model.Snapshot) error {
	f.send.Send(snapshotMsg(s))
	return nil
}

func (f *Frontend) ReadPID(ctx context.Context) (int, error) {
	line, err := f.ask(ctx, "Enter PID to kill: ")
	if err != nil {
		return 0, err
	}
	return monitor.ParsePID(line)
}

func (f *Frontend) Confirm(ctx context.Context, question string) (bool, error) {
	line, err := f.ask(ctx, question)
	if err != nil {
		return false, err
	}
	line = strings.TrimSpace(line)
	return line == "y" || line == "Y", nil
}

func (f *Frontend) Notify(msg string) { f.send.Send(statusMsg(msg)) }

// Pause is a no-op: the status line stays visible across refreshes.
func (f *Frontend) Pause(context.Context) error { return nil }

func (f *Frontend) ask(ctx context.Context, label string) (string, error) {
	reply := make(chan string, 1)
	f.send.Send(promptMsg{label: label, reply: reply})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case s := <-reply:
		return s, nil
	}
}

// Run starts the program and runs loop beside it until either side finishes.
func (f *Frontend) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop(ctx)
		f.send.Send(stopMsg{})
	}()

	_, err := f.prog.Run()
	cancel()
	return errors.Join(err, <-loopErr)
}
