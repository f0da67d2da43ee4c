package sampler

import "github.com/Dicklesworthstone/procmon/internal/model"

// CPUCalculator turns successive cumulative samples into a utilization percentage.
// It owns the previous sample; the zero value is ready to use.
type CPUCalculator struct {
	prev model.CPUCounters
}

// Percent returns the busy share of CPU time since the previous call.
// The first call, and any call where a counter went backwards, returns 0.
// The sample always becomes the new baseline.
func (c *CPUCalculator) Percent(sample model.CPUCounters) float64 {
	prev := c.prev
	c.prev = sample

	if prev.IsZero() || wentBackwards(prev, sample) {
		return 0
	}

	active := (sample.User - prev.User) + (sample.Nice - prev.Nice) + (sample.System - prev.System)
	idle := (sample.Idle + sample.IOWait) - (prev.Idle + prev.IOWait)
	total := active + idle
	if total == 0 {
		return 0
	}
	return 100 * float64(active) / float64(total)
}

// Reset drops the baseline so the next call bootstraps again.
func (c *CPUCalculator) Reset() { c.prev = model.CPUCounters{} }

func wentBackwards(prev, cur model.CPUCounters) bool {
	return cur.User < prev.User ||
		cur.Nice < prev.Nice ||
		cur.System < prev.System ||
		cur.Idle < prev.Idle ||
		cur.IOWait < prev.IOWait
}

// MemPercent returns the used share of memory.
func MemPercent(m model.MemoryCounters) float64 {
	if m.TotalKB == 0 || m.AvailableKB >= m.TotalKB {
		return 0
	}
	return 100 * float64(m.TotalKB-m.AvailableKB) / float64(m.TotalKB)
}
