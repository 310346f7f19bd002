// Package loader handles program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retro24/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

var errEmptyProgram = errors.New("program is empty")

// Loader handles loading raw program binaries from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new program loader.
func New(logger *log.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads a raw headerless program binary.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading file %s: %w", path, err)
	}
	return data, nil
}

// LoadFromReader reads a raw headerless program binary from a reader.
func (l *Loader) LoadFromReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if len(data) == 0 {
		return nil, errEmptyProgram
	}

	l.logger.Debug("Program loaded",
		log.Int("size", len(data)),
		log.Hex("start", memory.ProgramStart),
		log.Hex("end", memory.ProgramStart+len(data)-1))
	return data, nil
}
