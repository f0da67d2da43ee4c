package model

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{65 * time.Second, "00:01:05"},
		{3*time.Hour + 4*time.Minute + 5*time.Second + 900*time.Millisecond, "03:04:05"},
		{100 * time.Hour, "100:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := Clock(tt.in); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCPUCountersIsZero(t *testing.T) {
	if !(CPUCounters{}).IsZero() {
		t.Error("zero counters not reported as zero")
	}
	if (CPUCounters{Steal: 1}).IsZero() {
		t.Error("non-zero counters reported as zero")
	}
}
