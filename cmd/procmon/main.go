package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/procmon/internal/config"
	"github.com/Dicklesworthstone/procmon/internal/console"
	"github.com/Dicklesworthstone/procmon/internal/control"
	"github.com/Dicklesworthstone/procmon/internal/logging"
	"github.com/Dicklesworthstone/procmon/internal/monitor"
	"github.com/Dicklesworthstone/procmon/internal/sampler"
	"github.com/Dicklesworthstone/procmon/internal/terminate"
	"github.com/Dicklesworthstone/procmon/internal/ui"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Printf("procmon: %v", err)
		os.Exit(2)
	}

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Printf("procmon: %v", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second interrupt falls through to the default handler, which
		// matters while the plain frontend is blocked on a prompt.
		<-ctx.Done()
		stop()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("procmon failed", "err", err)
		log.Printf("procmon: %v", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	self := int32(os.Getpid())
	loopCfg := monitor.Config{
		Source:   sampler.NewHost(cfg.ProcCPU, time.Now(), logger),
		Killer:   terminate.New(terminate.UnixSignaler{}, cfg.Grace),
		Interval: cfg.Interval,
		Poll:     cfg.Poll,
		Logger:   logger,
	}
	logger.Info("starting", "ui", cfg.UI, "interval", cfg.Interval, "proc_cpu", cfg.ProcCPU)

	if cfg.UI == config.UITUI {
		fe := ui.NewFrontend(self, tea.WithAltScreen())
		loopCfg.Renderer = fe
		loopCfg.Controller = fe.Controller()
		loopCfg.Operator = fe
		return fe.Run(ctx, monitor.New(loopCfg).Run)
	}

	tty, err := console.Open(os.Stdin)
	if err != nil {
		return err
	}
	if err := tty.EnableRawMode(); err != nil {
		return err
	}
	defer func() {
		if err := tty.DisableRawMode(); err != nil {
			logger.Warn("restoring terminal failed", "err", err)
		}
	}()

	loopCfg.Renderer = console.NewRenderer(os.Stdout, self, func() int { return console.Height(os.Stdout) })
	loopCfg.Controller = control.NewHandler(tty)
	loopCfg.Operator = console.NewOperator(tty, os.Stdout)
	return monitor.New(loopCfg).Run(ctx)
}
