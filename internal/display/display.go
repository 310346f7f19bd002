// Package display implements the output backends of the emulator.
package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retro24/internal/iochip"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedDisplay is returned for unknown or not compiled in backends.
var ErrUnsupportedDisplay = errors.New("unsupported display")

// Display shows published frames and forwards user input until the user
// quits or the context is canceled.
type Display interface {
	Run(ctx context.Context) error
}

// Source provides frames and accepts joystick input, it is implemented by
// the runner.
type Source interface {
	Frames() *runner.FrameBuffer
	SetJoystick(state iochip.Joystick)
}

// New returns the display backend selected by the options. It returns nil
// for the none display.
func New(logger *log.Logger, source Source, opts options.Program) (Display, error) {
	switch opts.Display {
	case options.DisplayNone:
		return nil, nil
	case options.DisplayWindow:
		return newWindow(logger, source, opts.Scale)
	case options.DisplayTerminal:
		return newTerminal(logger, source)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDisplay, opts.Display)
	}
}
