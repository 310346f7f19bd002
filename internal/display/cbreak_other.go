//go:build !linux

package display

import (
	"errors"
	"os"
)

func enableCBreak(_ *os.File) (func(), error) {
	return nil, errors.New("cbreak mode is not supported on this platform")
}
