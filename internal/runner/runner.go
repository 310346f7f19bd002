// Package runner drives a Retro24 machine at a target instruction frequency
// and publishes frames for displays.
package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/retroenv/retro24/internal/iochip"
	"github.com/retroenv/retro24/internal/machine"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

// Runner owns the machine while Run executes. All other goroutines talk to
// it through the frame buffer and the joystick state.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine

	frequency int
	maxSteps  uint64
	trace     bool

	frames   FrameBuffer
	joystick atomic.Uint32
	steps    atomic.Uint64
}

// New returns a runner for an initialized machine.
func New(logger *log.Logger, m *machine.Machine, opts options.Program) *Runner {
	return &Runner{
		logger:    logger,
		machine:   m,
		frequency: opts.Frequency,
		maxSteps:  opts.MaxSteps,
		trace:     opts.Trace,
	}
}

// Frames returns the frame buffer that receives published frames.
func (r *Runner) Frames() *FrameBuffer {
	return &r.frames
}

// SetJoystick stores the joystick state that is applied before the next step.
func (r *Runner) SetJoystick(state iochip.Joystick) {
	r.joystick.Store(uint32(state.Byte()))
}

// Steps returns the number of executed instructions.
func (r *Runner) Steps() uint64 {
	return r.steps.Load()
}

// Run executes instructions until the CPU halts, the step limit is reached,
// the context is canceled or an instruction fails.
func (r *Runner) Run(ctx context.Context) error {
	r.publishFrame()

	var tick <-chan time.Time
	if interval := r.interval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for !r.machine.Halted() {
		if r.maxSteps > 0 && r.steps.Load() >= r.maxSteps {
			r.logger.Debug("Step limit reached", log.Int("steps", int(r.maxSteps)))
			return nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.step(); err != nil {
			return err
		}
	}

	r.logger.Debug("CPU halted",
		log.Hex("address", r.machine.CPU().IC()),
		log.Int("steps", int(r.steps.Load())))
	return nil
}

func (r *Runner) step() error {
	r.machine.IO().WriteDigitalInput(byte(r.joystick.Load()))

	if err := r.machine.Step(); err != nil {
		return fmt.Errorf("executing step %d: %w", r.steps.Load()+1, err)
	}
	r.steps.Add(1)

	if r.trace {
		last := r.machine.CPU().LastInstruction()
		r.logger.Debug("Executed",
			log.Hex("address", last.Address),
			log.String("instruction", trace.Instruction(last)))
	}

	r.publishFrame()
	return nil
}

// publishFrame consumes the update flag.
func (r *Runner) publishFrame() {
	gfx := r.machine.Graphics()
	if !gfx.UpdateFlag() {
		return
	}
	r.frames.Update(gfx.Frame())
	gfx.SetUpdateFlag(false)
}

func (r *Runner) interval() time.Duration {
	if r.frequency <= 0 {
		return 0
	}
	return time.Second / time.Duration(r.frequency)
}
