package display

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// enableCBreak switches the terminal to unbuffered input without echo and
// returns a function that restores the previous mode.
func enableCBreak(file *os.File) (func(), error) {
	var saved unix.Termios
	if err := termios.Tcgetattr(file.Fd(), &saved); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}

	cbreak := saved
	termios.Cfmakecbreak(&cbreak)
	if err := termios.Tcsetattr(file.Fd(), termios.TCSANOW, &cbreak); err != nil {
		return nil, fmt.Errorf("setting cbreak mode: %w", err)
	}

	return func() {
		_ = termios.Tcsetattr(file.Fd(), termios.TCSANOW, &saved)
	}, nil
}
