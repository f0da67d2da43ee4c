package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/tklauser/go-sysconf"

	"github.com/Dicklesworthstone/procmon/internal/model"
)

// ErrIOUnavailable is returned when a host counter source cannot be read or parsed.
var ErrIOUnavailable = errors.New("counter source unavailable")

// defaultClockTicks is USER_HZ on every mainstream Linux build.
const defaultClockTicks = 100

// CounterReader reads raw cumulative host counters.
type CounterReader interface {
	ReadCPU(ctx context.Context) (model.CPUCounters, error)
	ReadMemory(ctx context.Context) (model.MemoryCounters, error)
}

// HostInfoReader is implemented by readers that can also report load and boot uptime.
type HostInfoReader interface {
	ReadLoad(ctx context.Context) (model.Load, error)
	ReadHostUptime(ctx context.Context) (time.Duration, error)
}

// HostCounters reads counters of the local host through gopsutil.
type HostCounters struct {
	clockTicks float64

	cpuTimes      func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	loadAvg       func(ctx context.Context) (*load.AvgStat, error)
	uptime        func(ctx context.Context) (uint64, error)
}

// NewHostCounters returns a reader bound to the running kernel.
func NewHostCounters() *HostCounters {
	return &HostCounters{
		clockTicks:    clockTicks(),
		cpuTimes:      cpu.TimesWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		loadAvg:       load.AvgWithContext,
		uptime:        host.UptimeWithContext,
	}
}

func clockTicks() float64 {
	hz, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || hz <= 0 {
		return defaultClockTicks
	}
	return float64(hz)
}

// ReadCPU returns the aggregate CPU line. gopsutil reports seconds, so the values
// are scaled back to clock ticks.
func (h *HostCounters) ReadCPU(ctx context.Context) (model.CPUCounters, error) {
	times, err := h.cpuTimes(ctx, false)
	if err != nil {
		return model.CPUCounters{}, fmt.Errorf("reading cpu times: %w: %v", ErrIOUnavailable, err)
	}
	if len(times) == 0 {
		return model.CPUCounters{}, fmt.Errorf("reading cpu times: %w: no aggregate line", ErrIOUnavailable)
	}
	t := times[0]
	return model.CPUCounters{
		User:    h.ticks(t.User),
		Nice:    h.ticks(t.Nice),
		System:  h.ticks(t.System),
		Idle:    h.ticks(t.Idle),
		IOWait:  h.ticks(t.Iowait),
		IRQ:     h.ticks(t.Irq),
		SoftIRQ: h.ticks(t.Softirq),
		Steal:   h.ticks(t.Steal),
	}, nil
}

// ReadMemory returns total and available memory in kilobytes.
func (h *HostCounters) ReadMemory(ctx context.Context) (model.MemoryCounters, error) {
	vm, err := h.virtualMemory(ctx)
	if err != nil {
		return model.MemoryCounters{}, fmt.Errorf("reading meminfo: %w: %v", ErrIOUnavailable, err)
	}
	if vm == nil {
		return model.MemoryCounters{}, fmt.Errorf("reading meminfo: %w: empty result", ErrIOUnavailable)
	}
	return model.MemoryCounters{
		TotalKB:     vm.Total / 1024,
		AvailableKB: vm.Available / 1024,
	}, nil
}

// ReadLoad returns the load averages.
func (h *HostCounters) ReadLoad(ctx context.Context) (model.Load, error) {
	avg, err := h.loadAvg(ctx)
	if err != nil || avg == nil {
		return model.Load{}, fmt.Errorf("reading loadavg: %w", ErrIOUnavailable)
	}
	return model.Load{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

// ReadHostUptime returns the time since boot.
func (h *HostCounters) ReadHostUptime(ctx context.Context) (time.Duration, error) {
	secs, err := h.uptime(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading uptime: %w: %v", ErrIOUnavailable, err)
	}
	return time.Duration(secs) * time.Second, nil
}

func (h *HostCounters) ticks(seconds float64) uint64 {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return uint64(math.Round(seconds * h.clockTicks))
}
