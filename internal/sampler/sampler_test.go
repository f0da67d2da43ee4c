package sampler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Dicklesworthstone/procmon/internal/model"
)

type scriptedCounters struct {
	cpu []model.CPUCounters
	mem model.MemoryCounters
	err error
	n   int
}

func (s *scriptedCounters) ReadCPU(context.Context) (model.CPUCounters, error) {
	if s.err != nil {
		return model.CPUCounters{}, s.err
	}
	c := s.cpu[s.n]
	s.n++
	return c, nil
}

func (s *scriptedCounters) ReadMemory(context.Context) (model.MemoryCounters, error) {
	if s.err != nil {
		return model.MemoryCounters{}, s.err
	}
	return s.mem, nil
}

func TestSamplerSnapshot(t *testing.T) {
	counters := &scriptedCounters{
		cpu: []model.CPUCounters{
			{User: 100, Idle: 100},
			{User: 175, Idle: 125},
		},
		mem: model.MemoryCounters{TotalKB: 1000, AvailableKB: 400},
	}
	table := &fakeTable{
		pids:    []int32{1},
		details: map[int32]ProcessDetail{1: {Name: "init", RSSBytes: 1 << 20}},
	}
	start := time.Unix(5000, 0)
	s := New(counters, NewEnumerator(table, false, discardLogger()), start, discardLogger())

	first := s.Sample(context.Background(), start.Add(time.Second))
	if first.CPUPercent != 0 {
		t.Errorf("first CPUPercent = %v, want 0", first.CPUPercent)
	}
	if first.MemPercent != 60 {
		t.Errorf("MemPercent = %v, want 60", first.MemPercent)
	}
	if first.Uptime != time.Second {
		t.Errorf("Uptime = %v, want 1s", first.Uptime)
	}

	second := s.Sample(context.Background(), start.Add(65*time.Second))
	if second.CPUPercent != 75 {
		t.Errorf("second CPUPercent = %v, want 75", second.CPUPercent)
	}
	if second.Uptime != 65*time.Second {
		t.Errorf("Uptime = %v, want 65s", second.Uptime)
	}
	if !second.Timestamp.Equal(start.Add(65 * time.Second)) {
		t.Errorf("Timestamp = %v", second.Timestamp)
	}
	if len(second.Processes) != 1 || second.Processes[0].Name != "init" {
		t.Errorf("Processes = %+v", second.Processes)
	}
}

func TestSamplerDegradesToZero(t *testing.T) {
	counters := &scriptedCounters{err: fmt.Errorf("read: %w", ErrIOUnavailable)}
	table := &fakeTable{pids: []int32{}}
	start := time.Now()
	s := New(counters, NewEnumerator(table, false, discardLogger()), start, discardLogger())

	for i := 0; i < 3; i++ {
		snap := s.Sample(context.Background(), start.Add(time.Duration(i)*time.Second))
		if snap.CPUPercent != 0 || snap.MemPercent != 0 {
			t.Errorf("tick %d: cpu %v mem %v, want zeros", i, snap.CPUPercent, snap.MemPercent)
		}
	}
}

type flakyCPU struct {
	reads []error
	cpu   []model.CPUCounters
	n     int
}

func (f *flakyCPU) ReadCPU(context.Context) (model.CPUCounters, error) {
	i := f.n
	f.n++
	if f.reads[i] != nil {
		return model.CPUCounters{}, f.reads[i]
	}
	return f.cpu[i], nil
}

func (f *flakyCPU) ReadMemory(context.Context) (model.MemoryCounters, error) {
	return model.MemoryCounters{}, nil
}

func TestSamplerFailedReadRestartsBaseline(t *testing.T) {
	failed := fmt.Errorf("read: %w", ErrIOUnavailable)
	counters := &flakyCPU{
		reads: []error{nil, nil, failed, nil, nil},
		cpu: []model.CPUCounters{
			{User: 100, Idle: 100},
			{User: 150, Idle: 150},
			{},
			{User: 200, Idle: 200},
			{User: 290, Idle: 210},
		},
	}
	start := time.Now()
	s := New(counters, NewEnumerator(&fakeTable{}, false, discardLogger()), start, discardLogger())

	want := []float64{0, 50, 0, 0, 90}
	for i, w := range want {
		if got := s.Sample(context.Background(), start).CPUPercent; got != w {
			t.Errorf("tick %d: CPUPercent = %v, want %v", i, got, w)
		}
	}
}
