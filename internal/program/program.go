// Package program represents a disassembled Retro24 program.
package program

import (
	"fmt"
	"strings"
)

// Offset defines the content of an offset in a program that can represent data or code.
type Offset struct {
	Data []byte // data byte or all opcode bytes of the instruction, empty for operand offsets

	Type OffsetType

	Label   string // name of label if referenced by a MAR instruction
	Code    string // asm output of this instruction
	Comment string
}

// HexCodeComment returns the offset bytes as a space separated hex string.
func (o *Offset) HexCodeComment() (string, error) {
	buf := &strings.Builder{}
	for i, b := range o.Data {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if _, err := fmt.Fprintf(buf, "%02X", b); err != nil {
			return "", fmt.Errorf("writing hex comment: %w", err)
		}
	}
	return buf.String(), nil
}

// Program defines a Retro24 program that contains code or data.
type Program struct {
	Offsets []Offset // offsets indexed relative to CodeBaseAddress

	CodeBaseAddress uint16
	Checksum        uint32 // CRC32 of the program binary

	// memory map constants referenced by the code
	Constants map[string]uint16
}

// New creates a new program initialized with a program code size.
func New(codeBaseAddress uint16, size int) *Program {
	return &Program{
		Offsets:         make([]Offset, size),
		CodeBaseAddress: codeBaseAddress,
		Constants:       map[string]uint16{},
	}
}

// Address returns the memory address of the offset index.
func (p *Program) Address(index int) uint16 {
	return p.CodeBaseAddress + uint16(index)
}

// Index returns the offset index of a memory address and whether the
// address is part of the program.
func (p *Program) Index(address uint16) (int, bool) {
	index := int(address) - int(p.CodeBaseAddress)
	if index < 0 || index >= len(p.Offsets) {
		return 0, false
	}
	return index, true
}
