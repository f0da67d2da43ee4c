// Package console is the plain frontend: one redrawn frame per tick on a
// terminal in unbuffered, no-echo mode.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/procmon/internal/model"
)

// ErrNotTerminal is returned when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

const clearScreen = "\033[H\033[J"

// frameChrome is the number of lines around the process rows.
const frameChrome = 7

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	uptimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selfStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	lowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	midStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	highStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// UsageStyle picks green below 50%, yellow below 80%, red otherwise.
func UsageStyle(pct float64) lipgloss.Style {
	switch {
	case pct < 50:
		return lowStyle
	case pct < 80:
		return midStyle
	default:
		return highStyle
	}
}

// Renderer writes whole frames to out.
type Renderer struct {
	out    io.Writer
	self   int32
	height func() int
}

// NewRenderer returns a renderer that highlights self and fits the process table
// into height() rows when height is non-nil and positive.
func NewRenderer(out io.Writer, self int32, height func() int) *Renderer {
	return &Renderer{out: out, self: self, height: height}
}

func (r *Renderer) Render(s model.Snapshot) error {
	var b strings.Builder
	b.WriteString(clearScreen)

	b.WriteString(titleStyle.Render("==== System Monitoring Tool ===="))
	b.WriteString("\n")
	fmt.Fprintf(&b, "CPU: %s | MEM: %s | %s\n",
		UsageStyle(s.CPUPercent).Render(fmt.Sprintf("%.1f%%", s.CPUPercent)),
		UsageStyle(s.MemPercent).Render(fmt.Sprintf("%.1f%%", s.MemPercent)),
		uptimeStyle.Render("Uptime: "+model.Clock(s.Uptime)))
	b.WriteString(hintStyle.Render("Press q to quit, k to kill process"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s%-25s%-10s%-10s", "PID", "Process Name", "CPU(%)", "MEM(MB)")))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", 47))
	b.WriteString("\n")

	rows, hidden := r.visible(s.Processes)
	for _, p := range rows {
		style := rowStyle
		if p.PID == r.self {
			style = selfStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%-10d%-25s%-10.2f%-10.2f",
			p.PID, truncate(p.Name, 24), p.CPUPercent, p.ResidentMB)))
		b.WriteString("\n")
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "... %d more\n", hidden)
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) visible(procs []model.Process) ([]model.Process, int) {
	if r.height == nil {
		return procs, 0
	}
	h := r.height()
	if h <= 0 {
		return procs, 0
	}
	limit := max(h-frameChrome, 1)
	if len(procs) <= limit {
		return procs, 0
	}
	return procs[:limit], len(procs) - limit
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
