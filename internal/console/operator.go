package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/monitor"
)

// Operator runs the terminate conversation on the terminal. Each prompt
// switches back to line mode and re-enters raw mode afterwards.
type Operator struct {
	term control.Terminal
	out  io.Writer
}

func NewOperator(term control.Terminal, out io.Writer) *Operator {
	return &Operator{term: term, out: out}
}

func (o *Operator) ReadPID(ctx context.Context) (int, error) {
	line, err := o.prompt(ctx, "\nEnter PID to kill: ")
	if err != nil {
		return 0, err
	}
	return monitor.ParsePID(line)
}

// Confirm accepts y or Y as yes.
func (o *Operator) Confirm(ctx context.Context, question string) (bool, error) {
	line, err := o.prompt(ctx, hintStyle.Render(question))
	if err != nil {
		return false, err
	}
	line = strings.TrimSpace(line)
	return line == "y" || line == "Y", nil
}

func (o *Operator) Notify(msg string) {
	fmt.Fprintln(o.out, infoStyle.Render(msg))
}

// Pause waits for Enter.
func (o *Operator) Pause(ctx context.Context) error {
	_, err := o.prompt(ctx, titleStyle.Render("Press Enter to refresh..."))
	return err
}

func (o *Operator) prompt(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := o.term.DisableRawMode(); err != nil {
		return "", fmt.Errorf("leaving raw mode: %w", err)
	}
	defer func() { _ = o.term.EnableRawMode() }()

	if _, err := io.WriteString(o.out, text); err != nil {
		return "", err
	}
	return o.term.ReadLine()
}
