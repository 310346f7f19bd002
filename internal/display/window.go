//go:build !headless

package display

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retro24/internal/graphics"
	"github.com/retroenv/retro24/internal/iochip"
	"github.com/retroenv/retrogolib/log"
)

// window renders frames with ebiten. It has to be run on the main goroutine.
type window struct {
	logger *log.Logger
	source Source
	scale  int

	ctx      context.Context
	screen   *ebiten.Image
	sequence uint64
}

func newWindow(logger *log.Logger, source Source, scale int) (Display, error) {
	if scale < 1 {
		scale = 1
	}
	return &window{
		logger: logger,
		source: source,
		scale:  scale,
	}, nil
}

// Run opens the window and blocks until it is closed.
func (w *window) Run(ctx context.Context) error {
	w.ctx = ctx
	w.screen = ebiten.NewImage(graphics.Width, graphics.Height)

	ebiten.SetWindowSize(graphics.Width*w.scale, graphics.Height*w.scale)
	ebiten.SetWindowTitle("Retro24")
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	w.logger.Debug("Window closed")
	return nil
}

// Update reads the keyboard and is called by ebiten at its tick rate.
func (w *window) Update() error {
	if w.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	w.source.SetJoystick(iochip.Joystick{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Fire:  ebiten.IsKeyPressed(ebiten.KeySpace),
	})
	return nil
}

// Draw uploads the last published frame if it changed since the last call.
func (w *window) Draw(screen *ebiten.Image) {
	frames := w.source.Frames()
	if frames.Sequence() != w.sequence {
		frame, sequence := frames.Snapshot()
		w.screen.WritePixels(Image(frame).Pix)
		w.sequence = sequence
	}
	screen.DrawImage(w.screen, nil)
}

// Layout returns the logical screen size.
func (w *window) Layout(_, _ int) (int, int) {
	return graphics.Width, graphics.Height
}
