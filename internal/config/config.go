package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Frontend names.
const (
	UIPlain = "plain"
	UITUI   = "tui"
)

// Config carries runtime options for procmon.
type Config struct {
	Interval time.Duration
	Poll     time.Duration
	Grace    time.Duration
	UI       string
	ProcCPU  bool
	LogFile  string
	LogLevel slog.Level
}

func Default() Config {
	return Config{
		Interval: 2 * time.Second,
		Poll:     100 * time.Millisecond,
		Grace:    time.Second,
		UI:       UIPlain,
		ProcCPU:  false,
		LogFile:  "",
		LogLevel: slog.LevelInfo,
	}
}

// FromFlags parses flags and environment overrides. Environment values win
// over defaults but not over flags given on the command line.
func FromFlags(args []string, stderr io.Writer) (Config, error) {
	cfg := Default()
	applyEnv(&cfg)

	fs := flag.NewFlagSet("procmon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "refresh interval")
	fs.DurationVar(&cfg.Poll, "poll", cfg.Poll, "keyboard poll period while waiting for the next refresh")
	fs.DurationVar(&cfg.Grace, "grace", cfg.Grace, "wait after SIGTERM before checking the process")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "frontend: plain|tui")
	fs.BoolVar(&cfg.ProcCPU, "proc-cpu", cfg.ProcCPU, "compute per-process CPU usage between refreshes")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "write logs to this file")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.UI = strings.ToLower(strings.TrimSpace(cfg.UI))
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROCMON_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			cfg.Interval = parsed
		}
	}
	if v := os.Getenv("PROCMON_UI"); v != "" {
		cfg.UI = v
	}
	if v := os.Getenv("PROCMON_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("PROCMON_PROC_CPU"); v == "1" {
		cfg.ProcCPU = true
	}
}

// Validate rejects values the loop cannot run with.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Interval)
	}
	if c.Poll <= 0 {
		return fmt.Errorf("poll must be positive, got %v", c.Poll)
	}
	if c.Grace <= 0 {
		return fmt.Errorf("grace must be positive, got %v", c.Grace)
	}
	if c.UI != UIPlain && c.UI != UITUI {
		return fmt.Errorf("unknown ui %q (want %s or %s)", c.UI, UIPlain, UITUI)
	}
	return nil
}
