package model

import (
	"fmt"
	"time"
)

// CPUCounters holds the cumulative host CPU times in clock ticks.
type CPUCounters struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// IsZero reports whether no counter has been recorded yet.
func (c CPUCounters) IsZero() bool { return c == CPUCounters{} }

// MemoryCounters is the host memory state in kilobytes.
type MemoryCounters struct {
	TotalKB     uint64
	AvailableKB uint64
}

// Load holds the 1, 5 and 15 minute load averages.
type Load struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// Process is one row of the process table.
type Process struct {
	PID        int32
	Name       string
	ResidentMB float64
	CPUPercent float64 // 0 unless per-process tracking is enabled
}

// Snapshot is the full frame exchanged between sampler, loop and renderers.
type Snapshot struct {
	Timestamp  time.Time
	CPUPercent float64 // percent 0-100
	MemPercent float64 // percent 0-100
	Uptime     time.Duration
	HostUptime time.Duration
	Load       Load
	Processes  []Process
}

// Zero returns an empty snapshot for initialization.
func Zero() Snapshot { return Snapshot{Timestamp: time.Now()} }

// Clock formats d as HH:MM:SS; hours are not wrapped at 24.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
