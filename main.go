// Package main implements the Retro24 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retro24/internal/cli"
	"github.com/retroenv/retro24/internal/config"
	"github.com/retroenv/retro24/internal/display"
	"github.com/retroenv/retro24/internal/fileprocessor"
	"github.com/retroenv/retro24/internal/loader"
	"github.com/retroenv/retro24/internal/machine"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/runner"
	"github.com/retroenv/retro24/internal/statsview"
	"github.com/retroenv/retro24/internal/trace"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Flags)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, "retro24", opts.Quiet, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Flags)
	fileprocessor.PrintBanner(logger, "retro24", opts.Quiet, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	var dumpRange trace.Range
	if opts.Dump != "" {
		var err error
		if dumpRange, err = trace.ParseRange(opts.Dump); err != nil {
			return fmt.Errorf("parsing dump range: %w", err)
		}
	}

	program, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	m := machine.New(logger)
	m.Init()
	m.Load(program)

	if opts.StatsView {
		statsview.Launch(logger)
	}

	r := runner.New(logger, m, opts)
	disp, err := display.New(logger, r, opts)
	if err != nil {
		return fmt.Errorf("creating display: %w", err)
	}

	if err := emulate(ctx, logger, r, disp); err != nil {
		return err
	}

	logger.Info("Emulation stopped",
		log.Int("steps", int(r.Steps())),
		log.Hex("address", m.CPU().IC()))

	if opts.Screenshot != "" {
		frame, _ := r.Frames().Snapshot()
		if frame == nil {
			frame = m.Graphics().Frame()
		}
		if err := display.Screenshot(opts.Screenshot, frame, opts.Scale); err != nil {
			return fmt.Errorf("writing screenshot: %w", err)
		}
	}

	if opts.Dump != "" {
		if err := trace.Registers(os.Stdout, m.CPU().Registers()); err != nil {
			return fmt.Errorf("dumping registers: %w", err)
		}
		if err := trace.Memory(os.Stdout, m.Memory(), dumpRange); err != nil {
			return fmt.Errorf("dumping memory: %w", err)
		}
	}
	return nil
}

// emulate runs the machine. With a display the emulation keeps showing the
// last frame after the CPU halted until the user closes the display.
func emulate(ctx context.Context, logger *log.Logger, r *runner.Runner, disp display.Display) error {
	if disp == nil {
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := r.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Execution failed", log.Err(err))
		} else {
			err = nil
		}
		done <- err
	}()

	if err := disp.Run(ctx); err != nil {
		return fmt.Errorf("running display: %w", err)
	}
	cancel()
	return <-done
}
