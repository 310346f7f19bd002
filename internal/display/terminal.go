package display

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retro24/internal/graphics"
	"github.com/retroenv/retro24/internal/iochip"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	terminalRefresh = time.Second / 30
	// a terminal reports key presses only, a key counts as held for this long
	keyHoldTime = 150 * time.Millisecond
)

var errNotATerminal = errors.New("standard output is not a terminal")

// terminal renders frames with ANSI true color half blocks, two pixel rows
// per character row.
type terminal struct {
	logger *log.Logger
	source Source
	input  *os.File
	output *os.File

	sequence uint64
	pressed  map[byte]time.Time
}

func newTerminal(logger *log.Logger, source Source) (Display, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errNotATerminal
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil, fmt.Errorf("getting terminal size: %w", err)
	}
	if width < graphics.Width || height < graphics.Height/2 {
		logger.Warn("Terminal is smaller than the screen",
			log.Int("columns", width),
			log.Int("rows", height))
	}

	return &terminal{
		logger:  logger,
		source:  source,
		input:   os.Stdin,
		output:  os.Stdout,
		pressed: map[byte]time.Time{},
	}, nil
}

// Run renders frames until q is pressed or the context is canceled.
func (t *terminal) Run(ctx context.Context) error {
	restore, err := enableCBreak(t.input)
	if err != nil {
		t.logger.Warn("Keyboard input not available", log.Err(err))
	} else {
		defer restore()
	}

	done := make(chan struct{})
	defer close(done)
	keys := make(chan byte, 16)
	go readKeys(t.input, keys, done)

	writer := bufio.NewWriter(t.output)
	_, _ = writer.WriteString("\x1b[2J\x1b[?25l")
	defer func() {
		_, _ = writer.WriteString("\x1b[0m\x1b[?25h\n")
		_ = writer.Flush()
	}()

	ticker := time.NewTicker(terminalRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case key, ok := <-keys:
			if !ok || key == 'q' {
				return nil
			}
			t.pressed[key] = time.Now()

		case now := <-ticker.C:
			t.source.SetJoystick(t.joystick(now))
			if err := t.refresh(writer); err != nil {
				return err
			}
		}
	}
}

func (t *terminal) refresh(writer *bufio.Writer) error {
	frames := t.source.Frames()
	if frames.Sequence() == t.sequence {
		return nil
	}

	frame, sequence := frames.Snapshot()
	t.sequence = sequence
	if err := Render(writer, frame); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func (t *terminal) joystick(now time.Time) iochip.Joystick {
	held := func(keys ...byte) bool {
		for _, key := range keys {
			if pressed, ok := t.pressed[key]; ok && now.Sub(pressed) < keyHoldTime {
				return true
			}
		}
		return false
	}

	return iochip.Joystick{
		Up:    held('w', 'W'),
		Down:  held('s', 'S'),
		Left:  held('a', 'A'),
		Right: held('d', 'D'),
		Fire:  held(' '),
	}
}

// Render writes the frame at the top left corner of an ANSI terminal.
func Render(w io.Writer, frame []byte) error {
	buf := make([]byte, 0, graphics.PlaneSize*24)
	buf = append(buf, "\x1b[H"...)

	for y := 0; y < graphics.Height; y += 2 {
		for x := range graphics.Width {
			top := FrameColor(frame, x, y)
			bottom := FrameColor(frame, x, y+1)
			buf = fmt.Appendf(buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		buf = append(buf, "\x1b[0m\r\n"...)
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// readKeys forwards bytes read from r until reading fails or done is closed.
func readKeys(r io.Reader, keys chan<- byte, done <-chan struct{}) {
	defer close(keys)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n != 1 {
			continue
		}

		select {
		case keys <- buf[0]:
		case <-done:
			return
		}
	}
}
