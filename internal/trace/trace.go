// Package trace formats instruction traces, register and memory dumps.
package trace

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/retro24/internal/cpu"
	"github.com/retroenv/retro24/internal/isa"
	"github.com/retroenv/retro24/internal/memory"
)

const bytesPerLine = 16

// MaxDumpRange is the largest distance between start and end address of a dump.
const MaxDumpRange = 0x1FF

var errInvalidRange = errors.New("invalid dump range")

// Range is an inclusive address range.
type Range struct {
	Start uint16
	End   uint16
}

// Reader reads a byte of memory.
type Reader interface {
	Read(address int) byte
}

// Instruction renders an executed instruction as mnemonic followed by its
// operand bytes, for example "MAR $00 $02".
func Instruction(last cpu.LastInstruction) string {
	if last.Instruction == nil {
		return "-"
	}

	var sb strings.Builder
	sb.WriteString(last.Instruction.Name)
	for _, op := range last.Operands {
		fmt.Fprintf(&sb, " $%02X", op)
	}
	return sb.String()
}

// Registers writes a dump of the register file.
func Registers(w io.Writer, regs isa.Registers) error {
	_, err := fmt.Fprintf(w, "R0: 0x%02X R1: 0x%02X R2: 0x%02X R3: 0x%02X IC: 0x%04X AR: 0x%04X\n",
		regs.R0, regs.R1, regs.R2, regs.R3, regs.IC, regs.AR)
	if err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}
	return nil
}

// Memory writes a hex dump of the inclusive range, 16 bytes per line.
func Memory(w io.Writer, mem Reader, r Range) error {
	if _, err := fmt.Fprintf(w, "Memory 0x%04X - 0x%04X:\n", r.Start, r.End); err != nil {
		return fmt.Errorf("writing memory header: %w", err)
	}

	for address := int(r.Start); address <= int(r.End); address += bytesPerLine {
		var sb strings.Builder
		fmt.Fprintf(&sb, "0x%04X:", address)
		for offset := 0; offset < bytesPerLine && address+offset <= int(r.End); offset++ {
			fmt.Fprintf(&sb, " %02X", mem.Read(address+offset))
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return fmt.Errorf("writing memory line: %w", err)
		}
	}
	return nil
}

// ParseRange parses a range in the form "start-end" with hexadecimal
// addresses, optionally prefixed by "$" or "0x".
func ParseRange(s string) (Range, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, fmt.Errorf("%w: missing '-' separator in '%s'", errInvalidRange, s)
	}

	start, err := parseAddress(startStr)
	if err != nil {
		return Range{}, fmt.Errorf("parsing start address: %w", err)
	}
	end, err := parseAddress(endStr)
	if err != nil {
		return Range{}, fmt.Errorf("parsing end address: %w", err)
	}

	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks that start is not behind end and that the range does not
// exceed MaxDumpRange.
func (r Range) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("%w: start $%04X is behind end $%04X", errInvalidRange, r.Start, r.End)
	}
	if int(r.End)-int(r.Start) > MaxDumpRange {
		return fmt.Errorf("%w: range exceeds $%X bytes", errInvalidRange, MaxDumpRange)
	}
	return nil
}

func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")

	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	if value >= memory.Size {
		return 0, fmt.Errorf("%w: address $%X outside of memory", errInvalidRange, value)
	}
	return uint16(value), nil
}
