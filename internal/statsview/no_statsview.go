//go:build !statsview

package statsview

import "github.com/retroenv/retrogolib/log"

// Launch logs that the statistics server is not compiled in.
func Launch(logger *log.Logger) {
	logger.Warn("Stats server not available, build with the statsview tag")
}

// Available returns true if the statistics server is compiled in.
func Available() bool {
	return false
}
