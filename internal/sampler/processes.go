package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Dicklesworthstone/procmon/internal/model"
)

// ErrProcessVanished marks a process that was listed but could not be read.
var ErrProcessVanished = errors.New("process vanished")

// ProcessDetail is what the enumerator needs from a single process.
type ProcessDetail struct {
	Name       string
	RSSBytes   uint64
	CPUSeconds float64 // user+system; only filled when requested
}

// ProcessTable lists live processes and reads their details.
type ProcessTable interface {
	PIDs(ctx context.Context) ([]int32, error)
	Detail(ctx context.Context, pid int32, withCPU bool) (ProcessDetail, error)
}

// HostProcesses is the gopsutil-backed process table of the local host.
type HostProcesses struct{}

// PIDs lists the current process identifiers in process-table order.
func (HostProcesses) PIDs(ctx context.Context) ([]int32, error) {
	return process.PidsWithContext(ctx)
}

// Detail reads name and resident memory of pid. Any failure wraps ErrProcessVanished.
func (HostProcesses) Detail(ctx context.Context, pid int32, withCPU bool) (ProcessDetail, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return ProcessDetail{}, fmt.Errorf("pid %d: %w: %v", pid, ErrProcessVanished, err)
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return ProcessDetail{}, fmt.Errorf("pid %d name: %w: %v", pid, ErrProcessVanished, err)
	}
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil || mi == nil {
		return ProcessDetail{}, fmt.Errorf("pid %d memory: %w: %v", pid, ErrProcessVanished, err)
	}
	d := ProcessDetail{Name: name, RSSBytes: mi.RSS}
	if withCPU {
		// CPU time is advisory; a failure here leaves the row at 0%.
		if t, err := p.TimesWithContext(ctx); err == nil && t != nil {
			d.CPUSeconds = t.User + t.System
		}
	}
	return d, nil
}

// Enumerator builds the per-process part of a snapshot.
type Enumerator struct {
	table    ProcessTable
	trackCPU bool
	log      *slog.Logger

	prevCPU map[int32]float64
	prevAt  time.Time
}

// NewEnumerator returns an enumerator over table. With trackCPU set, per-process
// CPU usage is derived from two successive enumerations.
func NewEnumerator(table ProcessTable, trackCPU bool, log *slog.Logger) *Enumerator {
	if log == nil {
		log = slog.Default()
	}
	return &Enumerator{
		table:    table,
		trackCPU: trackCPU,
		log:      log,
		prevCPU:  make(map[int32]float64),
	}
}

// Enumerate returns one entry per readable process. Processes that disappear
// between listing and reading are skipped; it never fails as a whole.
func (e *Enumerator) Enumerate(ctx context.Context, now time.Time) []model.Process {
	pids, err := e.table.PIDs(ctx)
	if err != nil {
		e.log.Debug("listing processes failed", "err", err)
		return nil
	}

	elapsed := now.Sub(e.prevAt).Seconds()
	curCPU := make(map[int32]float64, len(pids))
	procs := make([]model.Process, 0, len(pids))

	for _, pid := range pids {
		if pid <= 0 {
			continue
		}
		d, err := e.table.Detail(ctx, pid, e.trackCPU)
		if err != nil {
			e.log.Debug("skipping process", "pid", pid, "err", err)
			continue
		}
		entry := model.Process{
			PID:        pid,
			Name:       d.Name,
			ResidentMB: float64(d.RSSBytes) / (1024 * 1024),
		}
		if e.trackCPU {
			curCPU[pid] = d.CPUSeconds
			entry.CPUPercent = e.cpuShare(pid, d.CPUSeconds, elapsed)
		}
		procs = append(procs, entry)
	}

	if e.trackCPU {
		e.prevCPU = curCPU
		e.prevAt = now
	}
	return procs
}

func (e *Enumerator) cpuShare(pid int32, cur, elapsed float64) float64 {
	prev, ok := e.prevCPU[pid]
	if !ok || e.prevAt.IsZero() || elapsed <= 0 || cur < prev {
		return 0
	}
	return 100 * (cur - prev) / elapsed
}
