// Package assembler implements a two-pass assembler for Retro24 source files.
//
// Supported syntax:
//
//	; comment
//	NAME = $E000          constant definition
//	.org $0100            set the current address, gaps are filled with HLT
//	label:  MAR label     instructions with label or numeric 16 bit operands
//	        MR0 #$05      8 bit operands, '#' prefix is optional
//	        MRW $01, $02
//	        .byte $01, 2, %101
//
// Numbers are decimal, hexadecimal with '$' or '0x' prefix, or binary with '%'.
package assembler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/retroenv/retro24/internal/isa"
	"github.com/retroenv/retro24/internal/memory"
)

var (
	errUnknownInstruction = errors.New("unknown instruction")
	errOperandCount       = errors.New("wrong operand count")
	errUndefinedSymbol    = errors.New("undefined symbol")
	errDuplicateSymbol    = errors.New("duplicate symbol")
	errInvalidOrigin      = errors.New("invalid origin")
	errValueRange         = errors.New("value out of range")
)

// fillByte is written into gaps created by .org directives.
const fillByte = isa.HLT

type statementKind int

const (
	instructionStatement statementKind = iota
	byteStatement
	orgStatement
)

type statement struct {
	line    int
	kind    statementKind
	address uint16
	ins     *isa.Instruction
	args    []string
}

// Assembler converts Retro24 source into a program image that starts at
// memory.ProgramStart.
type Assembler struct {
	symbols    map[string]uint16
	statements []statement
	address    int
}

// New returns a new assembler.
func New() *Assembler {
	return &Assembler{
		symbols: map[string]uint16{},
		address: memory.ProgramStart,
	}
}

// Assemble is a helper that assembles the source read from r.
func Assemble(r io.Reader) ([]byte, error) {
	return New().Assemble(r)
}

// Assemble assembles the source read from r and returns the program bytes
// starting at memory.ProgramStart.
func (a *Assembler) Assemble(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		if err := a.parseLine(line, scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	return a.emit()
}

// Symbols returns the resolved labels and constants.
func (a *Assembler) Symbols() map[string]uint16 {
	return a.symbols
}

// parseLine is the first pass: it records symbols and computes the address
// of every statement.
func (a *Assembler) parseLine(line int, text string) error {
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if name, value, ok := strings.Cut(text, "="); ok {
		return a.defineConstant(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if i := strings.IndexByte(text, ':'); i >= 0 {
		if err := a.defineSymbol(strings.TrimSpace(text[:i]), uint16(a.address)); err != nil {
			return err
		}
		text = strings.TrimSpace(text[i+1:])
		if text == "" {
			return nil
		}
	}

	word, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		word, rest = text[:i], text[i+1:]
	}
	args := splitArguments(rest)

	switch strings.ToLower(word) {
	case ".org":
		return a.parseOrigin(line, args)

	case ".byte", ".db":
		if len(args) == 0 {
			return fmt.Errorf("%w: .byte needs at least one value", errOperandCount)
		}
		a.addStatement(statement{line: line, kind: byteStatement, args: args}, len(args))
		return nil

	default:
		ins, ok := isa.ByName(word)
		if !ok {
			return fmt.Errorf("%w '%s'", errUnknownInstruction, word)
		}
		expected := ins.OperandCount()
		if ins.Opcode == isa.MAR {
			expected = 1
		}
		if len(args) != expected {
			return fmt.Errorf("%w: %s expects %d operands but got %d", errOperandCount, ins.Name, expected, len(args))
		}
		a.addStatement(statement{line: line, kind: instructionStatement, ins: ins, args: args}, ins.Size)
		return nil
	}
}

func (a *Assembler) addStatement(st statement, size int) {
	st.address = uint16(a.address)
	a.statements = append(a.statements, st)
	a.address += size
}

func (a *Assembler) parseOrigin(line int, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: .org expects one address", errOperandCount)
	}
	value, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	if value < a.address || value > memory.ProgramEnd {
		return fmt.Errorf("%w: $%04X, current address is $%04X", errInvalidOrigin, value, a.address)
	}
	a.statements = append(a.statements, statement{line: line, kind: orgStatement, address: uint16(value)})
	a.address = value
	return nil
}

func (a *Assembler) defineConstant(name, value string) error {
	number, err := parseNumber(value)
	if err != nil {
		resolved, ok := a.symbols[value]
		if !ok {
			return fmt.Errorf("constant '%s': %w", name, err)
		}
		number = int(resolved)
	}
	if number < 0 || number > 0xFFFF {
		return fmt.Errorf("%w: constant '%s' = %d", errValueRange, name, number)
	}
	return a.defineSymbol(name, uint16(number))
}

func (a *Assembler) defineSymbol(name string, value uint16) error {
	if !isIdentifier(name) {
		return fmt.Errorf("invalid symbol name '%s'", name)
	}
	if _, ok := a.symbols[name]; ok {
		return fmt.Errorf("%w '%s'", errDuplicateSymbol, name)
	}
	a.symbols[name] = value
	return nil
}

// emit is the second pass: it resolves symbol references and writes the
// program bytes.
func (a *Assembler) emit() ([]byte, error) {
	out := make([]byte, 0, a.address-memory.ProgramStart)

	for _, st := range a.statements {
		var err error
		switch st.kind {
		case orgStatement:
			for len(out) < int(st.address)-memory.ProgramStart {
				out = append(out, fillByte)
			}

		case byteStatement:
			out, err = a.emitBytes(out, st.args)

		case instructionStatement:
			out, err = a.emitInstruction(out, st)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", st.line, err)
		}
	}

	return out, nil
}

func (a *Assembler) emitBytes(out []byte, args []string) ([]byte, error) {
	for _, arg := range args {
		value, err := a.resolve(arg)
		if err != nil {
			return nil, err
		}
		if value > 0xFF {
			return nil, fmt.Errorf("%w: byte value $%X", errValueRange, value)
		}
		out = append(out, byte(value))
	}
	return out, nil
}

func (a *Assembler) emitInstruction(out []byte, st statement) ([]byte, error) {
	out = append(out, st.ins.Opcode)

	if st.ins.Opcode == isa.MAR {
		value, err := a.resolve(strings.TrimPrefix(st.args[0], "#"))
		if err != nil {
			return nil, err
		}
		return append(out, byte(value), byte(value>>8)), nil
	}

	for _, arg := range st.args {
		value, err := a.resolve(strings.TrimPrefix(arg, "#"))
		if err != nil {
			return nil, err
		}
		if value > 0xFF {
			return nil, fmt.Errorf("%w: %s operand $%X", errValueRange, st.ins.Name, value)
		}
		out = append(out, byte(value))
	}
	return out, nil
}

// resolve returns the value of a numeric literal or a symbol.
func (a *Assembler) resolve(arg string) (int, error) {
	if value, err := parseNumber(arg); err == nil {
		if value < 0 || value > 0xFFFF {
			return 0, fmt.Errorf("%w: %d", errValueRange, value)
		}
		return value, nil
	}
	value, ok := a.symbols[arg]
	if !ok {
		return 0, fmt.Errorf("%w '%s'", errUndefinedSymbol, arg)
	}
	return int(value), nil
}

func splitArguments(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
