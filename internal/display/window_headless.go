//go:build headless

package display

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

func newWindow(_ *log.Logger, _ Source, _ int) (Display, error) {
	return nil, fmt.Errorf("%w: window support is not compiled in", ErrUnsupportedDisplay)
}
