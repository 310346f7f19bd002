// Package isa defines the Retro24 instruction set: the register file, the
// execution result of an instruction and the immutable opcode table.
package isa

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOpcode is returned for a byte that has no instruction assigned.
	ErrInvalidOpcode = errors.New("invalid opcode")
	// ErrInvalidOperandIndex is returned when an instruction asks for an operand
	// byte outside of its encoded length.
	ErrInvalidOperandIndex = errors.New("invalid operand index")
)

// OpcodeError describes an unassigned opcode found while executing.
// It matches ErrInvalidOpcode with errors.Is.
type OpcodeError struct {
	Address uint16
	Opcode  byte
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode $%02X at address $%04X", e.Opcode, e.Address)
}

// Is reports whether target is ErrInvalidOpcode.
func (e *OpcodeError) Is(target error) bool {
	return target == ErrInvalidOpcode
}

// Registers is the register file of the CPU.
type Registers struct {
	R0 uint8
	R1 uint8
	R2 uint8
	R3 uint8

	IC uint16 // instruction counter
	AR uint16 // address register
}

// State is the view that an executing instruction has of the machine.
type State interface {
	// Registers returns the mutable register file.
	Registers() *Registers
	// Read returns the memory byte at the address, taken mod 65536.
	Read(address int) byte
	// Write stores the value mod 256 at the address, taken mod 65536.
	Write(address int, value int)
	// Operand returns the operand byte at the 0 based index following the opcode.
	Operand(index int) (byte, error)
	// Halt stops the CPU until the next reset.
	Halt()
}

// Result tells the CPU how to update the instruction counter after an
// instruction was executed.
type Result struct {
	jump   bool
	target uint16
}

// Advance returns a result that moves the instruction counter past the instruction.
func Advance() Result {
	return Result{}
}

// JumpTo returns a result that sets the instruction counter to target.
func JumpTo(target uint16) Result {
	return Result{jump: true, target: target}
}

// Jump returns the jump target and whether the result is a jump.
func (r Result) Jump() (uint16, bool) {
	return r.target, r.jump
}

// Instruction describes a single opcode of the instruction set.
type Instruction struct {
	Opcode byte
	Name   string
	Size   int // total encoded length in bytes, 1 to 3

	execute func(State) (Result, error)
}

// Execute applies the instruction to the state.
func (i *Instruction) Execute(s State) (Result, error) {
	return i.execute(s)
}

// OperandCount returns the number of operand bytes following the opcode.
func (i *Instruction) OperandCount() int {
	return i.Size - 1
}

// IsJump returns whether the instruction can transfer control to AR.
func (i *Instruction) IsJump() bool {
	switch i.Opcode {
	case JMP, JZ0, JGW, JEW, JE0:
		return true
	default:
		return false
	}
}

// IsHalt returns whether the instruction halts the CPU.
func (i *Instruction) IsHalt() bool {
	return i.Opcode == HLT
}

// ModifiesAR returns whether the instruction writes the address register.
func (i *Instruction) ModifiesAR() bool {
	switch i.Opcode {
	case MAR, RAR, AAR:
		return true
	default:
		return false
	}
}
