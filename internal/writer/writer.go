// Package writer implements the assembly file writing functionality.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retro24/internal/program"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const dataBytesPerLine = 16

type lineWriterFunc func(line string, byteCount int) error

// Writer writes a disassembled program as assembly source.
type Writer struct {
	app     *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool
	OffsetComments bool
}

// New creates a new writer.
func New(app *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		app:     app,
		options: options,
		writer:  writer,
	}
}

// Write writes the header, the constants and all offsets of the program.
func (w Writer) Write() error {
	if err := w.WriteCommentHeader(); err != nil {
		return err
	}
	if err := w.OutputAliasMap(w.app.Constants); err != nil {
		return err
	}
	return w.ProcessOffsets()
}

// ProcessOffsets writes all code offsets, labels and their comments.
func (w Writer) ProcessOffsets() error {
	var previousLineWasCode bool

	for i := 0; i < len(w.app.Offsets); i++ {
		offset := w.app.Offsets[i]

		if err := w.writeLabel(i, offset); err != nil {
			return err
		}

		// print an empty line in case of data after code and vice versa
		if i > 0 && offset.Label == "" && offset.IsType(program.CodeOffset) != previousLineWasCode {
			if _, err := fmt.Fprintln(w.writer); err != nil {
				return fmt.Errorf("writing line: %w", err)
			}
		}
		previousLineWasCode = offset.IsType(program.CodeOffset)

		adjustment, err := w.writeOffset(i, offset)
		if err != nil {
			return err
		}
		i += adjustment
	}
	return nil
}

// BundleDataWrites bundles writes of data bytes to print dataBytesPerLine bytes per line.
func (w Writer) BundleDataWrites(data []byte, lineWriter lineWriterFunc) error {
	remaining := len(data)
	for i := 0; remaining > 0; {
		toWrite := min(remaining, dataBytesPerLine)

		buf := &strings.Builder{}
		buf.WriteString(".byte ")
		for j := range toWrite {
			if _, err := fmt.Fprintf(buf, "$%02X, ", data[i+j]); err != nil {
				return fmt.Errorf("writing data byte: %w", err)
			}
		}

		line := strings.TrimRight(buf.String(), ", ")

		if lineWriter != nil {
			if err := lineWriter(line, toWrite); err != nil {
				return fmt.Errorf("writing data line using custom writer: %w", err)
			}
		} else {
			if _, err := fmt.Fprintf(w.writer, "%s\n", line); err != nil {
				return fmt.Errorf("writing data line: %w", err)
			}
		}

		i += toWrite
		remaining -= toWrite
	}

	return nil
}

// OutputAliasMap outputs an alias map of constants.
func (w Writer) OutputAliasMap(aliases map[string]uint16) error {
	if len(aliases) == 0 {
		return nil
	}

	// sort the aliases by name before outputting to avoid random map order
	names := maps.Keys(aliases)
	slices.Sort(names)

	for _, constant := range names {
		address := aliases[constant]
		if _, err := fmt.Fprintf(w.writer, "%s = $%04X\n", constant, address); err != nil {
			return fmt.Errorf("writing alias: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// WriteCommentHeader writes the CRC32 checksum and code base address as comments to the output.
func (w Writer) WriteCommentHeader() error {
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n", w.app.Checksum); err != nil {
		return fmt.Errorf("writing checksum: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04x\n\n", w.app.CodeBaseAddress); err != nil {
		return fmt.Errorf("writing code base address: %w", err)
	}
	return nil
}

func (w Writer) writeOffset(index int, offset program.Offset) (int, error) {
	if len(offset.Data) == 0 {
		return 0, nil
	}

	if offset.IsType(program.DataOffset) {
		count, err := w.bundleDataWrites(index)
		if err != nil {
			return 0, err
		}
		return count - 1, nil
	}

	if err := w.writeCodeLine(index, offset); err != nil {
		return 0, fmt.Errorf("writing code line: %w", err)
	}
	return len(offset.Data) - 1, nil
}

func (w Writer) writeLabel(index int, offset program.Offset) error {
	if offset.Label == "" {
		return nil
	}

	if index > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w.writer, "%s:\n", offset.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeCodeLine(index int, offset program.Offset) error {
	comment, err := w.lineComment(index, offset)
	if err != nil {
		return err
	}

	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "  %s\n", offset.Code)
	} else {
		_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", offset.Code, comment)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// lineComment combines the address, the hex bytes and the offset comment.
func (w Writer) lineComment(index int, offset program.Offset) (string, error) {
	var parts []string
	if w.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", w.app.Address(index)))
	}
	if w.options.HexComments && offset.IsType(program.CodeOffset) {
		hexComment, err := offset.HexCodeComment()
		if err != nil {
			return "", fmt.Errorf("creating hex comment: %w", err)
		}
		parts = append(parts, hexComment)
	}
	if offset.Comment != "" {
		parts = append(parts, offset.Comment)
	}
	return strings.Join(parts, "  "), nil
}

// bundleDataWrites collects the data bytes starting at the index to create
// bundled writes of data bytes per line.
func (w Writer) bundleDataWrites(startIndex int) (int, error) {
	data := w.collectData(startIndex)

	currentIndex := startIndex
	lineWriter := func(line string, byteCount int) error {
		comment, err := w.lineComment(currentIndex, w.app.Offsets[currentIndex])
		if err != nil {
			return err
		}

		if comment == "" {
			_, err = fmt.Fprintf(w.writer, "  %s\n", line)
		} else {
			_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", line, comment)
		}
		if err != nil {
			return fmt.Errorf("writing data line: %w", err)
		}

		currentIndex += byteCount
		return nil
	}

	if err := w.BundleDataWrites(data, lineWriter); err != nil {
		return 0, fmt.Errorf("writing data: %w", err)
	}
	return len(data), nil
}

// collectData returns the consecutive data bytes starting at the index,
// stopping at the next label, code offset or commented offset.
func (w Writer) collectData(startIndex int) []byte {
	var data []byte

	for i := startIndex; i < len(w.app.Offsets); i++ {
		offset := w.app.Offsets[i]
		if !offset.IsType(program.DataOffset) || len(offset.Data) == 0 {
			break
		}
		if i > startIndex && (offset.Label != "" || offset.Comment != "") {
			break
		}
		data = append(data, offset.Data...)
	}

	return data
}
