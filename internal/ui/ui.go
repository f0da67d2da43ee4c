package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/model"
)

// Model renders snapshots pushed by the sampling loop and forwards keys to it.
type Model struct {
	queue  *control.Queue
	self   int32
	latest model.Snapshot
	width  int
	height int

	cpuBar progress.Model
	memBar progress.Model

	input  textinput.Model
	prompt *promptMsg
	status string
}

func New(queue *control.Queue, self int32) *Model {
	in := textinput.New()
	in.CharLimit = 16
	return &Model{
		queue:  queue,
		self:   self,
		latest: model.Zero(),
		width:  120,
		height: 40,
		cpuBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(28)),
		memBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(28)),
		input:  in,
	}
}

// Messages
type (
	snapshotMsg model.Snapshot
	statusMsg   string
	stopMsg     struct{}
	promptMsg   struct {
		label string
		reply chan<- string
	}
)

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			m.queue.Push(control.Quit)
		case "k":
			m.queue.Push(control.Terminate)
		}
	case snapshotMsg:
		m.latest = model.Snapshot(msg)
	case statusMsg:
		m.status = string(msg)
	case promptMsg:
		m.prompt = &msg
		m.input.Reset()
		m.input.Prompt = msg.label
		return m, m.input.Focus()
	case stopMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.answer("")
		return m, tea.Quit
	case tea.KeyEnter:
		m.answer(m.input.Value())
		return m, nil
	case tea.KeyEsc:
		m.answer("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) answer(s string) {
	m.prompt.reply <- s
	m.prompt = nil
	m.input.Blur()
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	selfStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

// tableChrome is the number of lines the view uses outside the process rows.
const tableChrome = 14

func (m *Model) View() string {
	s := m.latest
	header := titleStyle.Render("System Monitoring Tool") + "  " +
		subtleStyle.Render(s.Timestamp.Format("Mon Jan 2 15:04:05 MST 2006"))

	cpuCard := card("CPU", fmt.Sprintf("%s %5.1f%%", m.cpuBar.ViewAs(clampPct(s.CPUPercent)/100), s.CPUPercent))
	memCard := card("Memory", fmt.Sprintf("%s %5.1f%%", m.memBar.ViewAs(clampPct(s.MemPercent)/100), s.MemPercent))
	hostCard := card("Host",
		fmt.Sprintf("uptime %s  boot %s\nload %.2f %.2f %.2f",
			model.Clock(s.Uptime), model.Clock(s.HostUptime),
			s.Load.Load1, s.Load.Load5, s.Load.Load15))
	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard, hostCard)

	limit := max(m.height-tableChrome, 1)
	procCard := card(fmt.Sprintf("Processes (%d)", len(s.Processes)), m.renderTable(s.Processes, limit))

	footer := subtleStyle.Render("q: quit • k: kill process • ctrl+c: exit")
	if m.prompt != nil {
		footer = m.input.View()
	} else if m.status != "" {
		footer = statusStyle.Render(m.status) + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, line1, procCard, footer)
}

func (m *Model) renderTable(rows []model.Process, limit int) string {
	n := min(limit, len(rows))
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-24s %7s %9s", "PID", "NAME", "CPU(%)", "MEM(MB)")
	for _, r := range rows[:n] {
		line := fmt.Sprintf("%-8d %-24s %7.2f %9.2f", r.PID, truncate(r.Name, 24), r.CPUPercent, r.ResidentMB)
		if r.PID == m.self {
			line = selfStyle.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}
	if hidden := len(rows) - n; hidden > 0 {
		fmt.Fprintf(&b, "\n… %d more", hidden)
	}
	return b.String()
}

// Helpers
func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func clampPct(p float64) float64 {
	return min(max(p, 0), 100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
