package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/model"
	"github.com/Dicklesworthstone/procmon/internal/monitor"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelForwardsKeys(t *testing.T) {
	q := control.NewQueue(4)
	m := New(q, 1)

	m.Update(key("x"))
	m.Update(key("k"))
	m.Update(key("q"))

	if got := q.Poll(); got != control.Terminate {
		t.Errorf("first command = %v, want terminate", got)
	}
	if got := q.Poll(); got != control.Quit {
		t.Errorf("second command = %v, want quit", got)
	}
	if got := q.Poll(); got != control.None {
		t.Errorf("third command = %v, want none", got)
	}
}

func TestModelPrompt(t *testing.T) {
	q := control.NewQueue(4)
	m := New(q, 1)
	reply := make(chan string, 1)

	m.Update(promptMsg{label: "Enter PID to kill: ", reply: reply})
	if !strings.Contains(m.View(), "Enter PID to kill: ") {
		t.Error("prompt not shown")
	}
	m.Update(key("1"))
	m.Update(key("2"))
	m.Update(key("q")) // typed into the prompt, not a command
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case got := <-reply:
		if got != "12q" {
			t.Errorf("reply = %q, want %q", got, "12q")
		}
	default:
		t.Fatal("no reply after enter")
	}
	if q.Poll() != control.None {
		t.Error("key typed into prompt leaked to the command queue")
	}
	if m.prompt != nil {
		t.Error("prompt still active after enter")
	}
}

func TestModelPromptEscape(t *testing.T) {
	m := New(control.NewQueue(1), 1)
	reply := make(chan string, 1)
	m.Update(promptMsg{label: "? ", reply: reply})
	m.Update(key("7"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := <-reply; got != "" {
		t.Errorf("reply = %q, want empty", got)
	}
}

func TestModelView(t *testing.T) {
	m := New(control.NewQueue(1), 42)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 18})
	procs := []model.Process{
		{PID: 1, Name: "systemd", ResidentMB: 10},
		{PID: 42, Name: "procmon", ResidentMB: 5},
		{PID: 43, Name: "bash"},
		{PID: 44, Name: "sshd"},
		{PID: 45, Name: "cron"},
		{PID: 46, Name: "agetty"},
	}
	m.Update(snapshotMsg(model.Snapshot{
		Timestamp:  time.Now(),
		CPUPercent: 33.3,
		MemPercent: 60,
		Uptime:     65 * time.Second,
		Processes:  procs,
	}))
	m.Update(statusMsg("Process 9 successfully terminated."))

	view := m.View()
	for _, want := range []string{"CPU", "Memory", "00:01:05", "systemd", "procmon", "Processes (6)", "Process 9 successfully terminated.", "… 2 more"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "agetty") {
		t.Error("row beyond the window height was rendered")
	}
}

func TestModelStop(t *testing.T) {
	m := New(control.NewQueue(1), 1)
	_, cmd := m.Update(stopMsg{})
	if cmd == nil {
		t.Fatal("stopMsg returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("stopMsg did not quit the program")
	}
}

// fakeSender delivers messages straight into the model, answering prompts
// with a canned reply the way an operator would.
type fakeSender struct {
	m      *Model
	answer string
}

func (s *fakeSender) Send(msg tea.Msg) {
	s.m.Update(msg)
	if _, ok := msg.(promptMsg); ok {
		for _, r := range s.answer {
			s.m.Update(key(string(r)))
		}
		s.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
}

func newTestFrontend(answer string) *Frontend {
	q := control.NewQueue(4)
	m := New(q, 1)
	return &Frontend{model: m, queue: q, send: &fakeSender{m: m, answer: answer}}
}

func TestFrontendOperator(t *testing.T) {
	f := newTestFrontend("314")
	pid, err := f.ReadPID(context.Background())
	if err != nil || pid != 314 {
		t.Fatalf("ReadPID() = %d, %v; want 314", pid, err)
	}

	f = newTestFrontend("nope")
	if _, err := f.ReadPID(context.Background()); !errors.Is(err, monitor.ErrInvalidInput) {
		t.Errorf("ReadPID() error = %v, want ErrInvalidInput", err)
	}

	f = newTestFrontend("Y")
	if ok, err := f.Confirm(context.Background(), "Force kill? "); err != nil || !ok {
		t.Errorf("Confirm() = %v, %v; want true", ok, err)
	}

	f.Notify("done")
	if f.model.status != "done" {
		t.Errorf("status = %q, want done", f.model.status)
	}
	if err := f.Render(model.Snapshot{CPUPercent: 12}); err != nil || f.model.latest.CPUPercent != 12 {
		t.Errorf("Render() did not reach the model: %v", err)
	}
}

type silentSender struct{}

func (silentSender) Send(tea.Msg) {}

func TestFrontendAskCancelled(t *testing.T) {
	f := &Frontend{queue: control.NewQueue(1), send: silentSender{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.ReadPID(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadPID() error = %v, want context.Canceled", err)
	}
}
