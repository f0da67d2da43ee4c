package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dicklesworthstone/procmon/internal/model"
)

// Sampler builds one Snapshot per call from host counters and the process table.
type Sampler struct {
	counters CounterReader
	procs    *Enumerator
	cpu      CPUCalculator
	start    time.Time
	log      *slog.Logger
}

// New returns a sampler whose uptime is measured from start.
func New(counters CounterReader, procs *Enumerator, start time.Time, log *slog.Logger) *Sampler {
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{
		counters: counters,
		procs:    procs,
		start:    start,
		log:      log,
	}
}

// NewHost wires a sampler to the local host.
func NewHost(trackProcCPU bool, start time.Time, log *slog.Logger) *Sampler {
	return New(NewHostCounters(), NewEnumerator(HostProcesses{}, trackProcCPU, log), start, log)
}

// Sample reads every source once. Unreadable sources degrade to zero values.
func (s *Sampler) Sample(ctx context.Context, now time.Time) model.Snapshot {
	var cpuPercent float64
	cpuCounters, err := s.counters.ReadCPU(ctx)
	if err != nil {
		s.log.Debug("cpu counters degraded", "err", err)
		s.cpu.Reset()
	} else {
		cpuPercent = s.cpu.Percent(cpuCounters)
	}
	memCounters, err := s.counters.ReadMemory(ctx)
	if err != nil {
		s.log.Debug("memory counters degraded", "err", err)
	}

	snap := model.Snapshot{
		Timestamp:  now,
		CPUPercent: cpuPercent,
		MemPercent: MemPercent(memCounters),
		Uptime:     now.Sub(s.start),
	}
	if snap.Uptime < 0 {
		snap.Uptime = 0
	}

	if hi, ok := s.counters.(HostInfoReader); ok {
		snap.Load, _ = hi.ReadLoad(ctx)
		snap.HostUptime, _ = hi.ReadHostUptime(ctx)
	}

	snap.Processes = s.procs.Enumerate(ctx, now)
	return snap
}
