package isa

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Opcode values of the instruction set.
const (
	NUL = 0x00
	MAR = 0x01
	SIC = 0x02
	RAR = 0x03
	AAR = 0x04
	IR0 = 0x05
	A01 = 0x06
	DR0 = 0x07
	S01 = 0x08
	X12 = 0x09
	X01 = 0x10
	JMP = 0x11
	SR0 = 0x12
	SRW = 0x13
	LR0 = 0x14
	LRW = 0x15
	TAW = 0x16
	MR0 = 0x17
	MRW = 0x18
	JZ0 = 0x19
	JGW = 0x20
	JEW = 0x21
	OR0 = 0x22
	AN0 = 0x23
	JE0 = 0x24
	C01 = 0x25
	C02 = 0x26
	IRW = 0x27
	DRW = 0x28
	X03 = 0x29
	C03 = 0x2A
	C30 = 0x2B
	PL0 = 0x2C
	PR0 = 0x2D
	HLT = 0xFF
)

var (
	table  = buildTable()
	byName = buildNameIndex(table)
)

// Lookup returns the instruction for the opcode byte.
func Lookup(opcode byte) (*Instruction, error) {
	ins := table[opcode]
	if ins == nil {
		return nil, fmt.Errorf("opcode $%02X: %w", opcode, ErrInvalidOpcode)
	}
	return ins, nil
}

// ByName returns the instruction for a case insensitive mnemonic.
func ByName(name string) (*Instruction, bool) {
	ins, ok := byName[strings.ToUpper(name)]
	return ins, ok
}

// Instructions returns all defined instructions sorted by opcode.
func Instructions() []*Instruction {
	instructions := make([]*Instruction, 0, len(byName))
	for _, ins := range table {
		if ins != nil {
			instructions = append(instructions, ins)
		}
	}
	return instructions
}

// Mnemonics returns all mnemonics sorted alphabetically.
func Mnemonics() []string {
	names := maps.Keys(byName)
	slices.Sort(names)
	return names
}

func buildNameIndex(t [256]*Instruction) map[string]*Instruction {
	m := make(map[string]*Instruction, len(t))
	for _, ins := range t {
		if ins != nil {
			m[ins.Name] = ins
		}
	}
	return m
}

func buildTable() [256]*Instruction {
	var t [256]*Instruction
	add := func(opcode byte, name string, size int, execute func(State) (Result, error)) {
		t[opcode] = &Instruction{Opcode: opcode, Name: name, Size: size, execute: execute}
	}

	add(NUL, "NUL", 1, func(State) (Result, error) { return Advance(), nil })
	add(MAR, "MAR", 3, execMAR)
	add(SIC, "SIC", 1, execSIC)
	add(RAR, "RAR", 1, registers(func(r *Registers) { r.AR = uint16(r.R1)<<8 | uint16(r.R2) }))
	add(AAR, "AAR", 1, registers(func(r *Registers) { r.AR += uint16(r.R0) }))
	add(IR0, "IR0", 1, registers(func(r *Registers) {
		if r.R0 != 0xFF {
			r.R0++
		}
	}))
	add(A01, "A01", 1, registers(func(r *Registers) { addWord(r, r.R0) }))
	add(DR0, "DR0", 1, registers(func(r *Registers) {
		if r.R0 != 0 {
			r.R0--
		}
	}))
	add(S01, "S01", 1, registers(func(r *Registers) { subWord(r, r.R0) }))
	add(X12, "X12", 1, registers(func(r *Registers) { r.R1, r.R2 = r.R2, r.R1 }))
	add(X01, "X01", 1, registers(func(r *Registers) { r.R0, r.R1 = r.R1, r.R0 }))
	add(JMP, "JMP", 1, jumpIf(func(*Registers) bool { return true }))
	add(SR0, "SR0", 1, func(s State) (Result, error) {
		r := s.Registers()
		s.Write(int(r.AR), int(r.R0))
		return Advance(), nil
	})
	add(SRW, "SRW", 1, func(s State) (Result, error) {
		r := s.Registers()
		s.Write(int(r.AR), int(r.R1))
		s.Write(int(r.AR)+1, int(r.R2))
		return Advance(), nil
	})
	add(LR0, "LR0", 1, func(s State) (Result, error) {
		r := s.Registers()
		r.R0 = s.Read(int(r.AR))
		return Advance(), nil
	})
	add(LRW, "LRW", 1, func(s State) (Result, error) {
		r := s.Registers()
		r.R1 = s.Read(int(r.AR))
		r.R2 = s.Read(int(r.AR) + 1)
		return Advance(), nil
	})
	add(TAW, "TAW", 1, registers(func(r *Registers) {
		r.R1 = uint8(r.AR >> 8)
		r.R2 = uint8(r.AR)
	}))
	add(MR0, "MR0", 2, withOperand(func(r *Registers, op byte) { r.R0 = op }))
	add(MRW, "MRW", 3, execMRW)
	add(JZ0, "JZ0", 1, jumpIf(func(r *Registers) bool { return r.R0 == 0 }))
	add(JGW, "JGW", 1, jumpIf(func(r *Registers) bool { return r.R1 > r.R2 }))
	add(JEW, "JEW", 1, jumpIf(func(r *Registers) bool { return r.R1 == r.R2 }))
	add(OR0, "OR0", 2, withOperand(func(r *Registers, op byte) { r.R0 |= op }))
	add(AN0, "AN0", 2, withOperand(func(r *Registers, op byte) { r.R0 &= op }))
	add(JE0, "JE0", 2, execJE0)
	add(C01, "C01", 1, registers(func(r *Registers) { r.R1 = r.R0 }))
	add(C02, "C02", 1, registers(func(r *Registers) { r.R2 = r.R0 }))
	add(IRW, "IRW", 1, registers(func(r *Registers) { addWord(r, 1) }))
	add(DRW, "DRW", 1, registers(func(r *Registers) { subWord(r, 1) }))
	add(X03, "X03", 1, registers(func(r *Registers) { r.R0, r.R3 = r.R3, r.R0 }))
	add(C03, "C03", 1, registers(func(r *Registers) { r.R3 = r.R0 }))
	add(C30, "C30", 1, registers(func(r *Registers) { r.R0 = r.R3 }))
	add(PL0, "PL0", 1, registers(func(r *Registers) { r.R0 <<= 1 }))
	add(PR0, "PR0", 1, registers(func(r *Registers) { r.R0 >>= 1 }))
	add(HLT, "HLT", 1, func(s State) (Result, error) {
		s.Halt()
		return Advance(), nil
	})

	return t
}

// registers wraps a register only transition that always advances.
func registers(fn func(r *Registers)) func(State) (Result, error) {
	return func(s State) (Result, error) {
		fn(s.Registers())
		return Advance(), nil
	}
}

// withOperand wraps a register transition that consumes the first operand byte.
func withOperand(fn func(r *Registers, op byte)) func(State) (Result, error) {
	return func(s State) (Result, error) {
		op, err := s.Operand(0)
		if err != nil {
			return Result{}, err
		}
		fn(s.Registers(), op)
		return Advance(), nil
	}
}

// jumpIf jumps to AR when the condition holds.
func jumpIf(cond func(r *Registers) bool) func(State) (Result, error) {
	return func(s State) (Result, error) {
		r := s.Registers()
		if cond(r) {
			return JumpTo(r.AR), nil
		}
		return Advance(), nil
	}
}

func execMAR(s State) (Result, error) {
	low, err := s.Operand(0)
	if err != nil {
		return Result{}, err
	}
	high, err := s.Operand(1)
	if err != nil {
		return Result{}, err
	}
	s.Registers().AR = uint16(high)<<8 | uint16(low)
	return Advance(), nil
}

func execMRW(s State) (Result, error) {
	op1, err := s.Operand(0)
	if err != nil {
		return Result{}, err
	}
	op2, err := s.Operand(1)
	if err != nil {
		return Result{}, err
	}
	r := s.Registers()
	r.R1 = op1
	r.R2 = op2
	return Advance(), nil
}

// execSIC stores the address of the SIC instruction itself, low byte first.
func execSIC(s State) (Result, error) {
	r := s.Registers()
	s.Write(int(r.AR), int(r.IC&0xFF))
	s.Write(int(r.AR)+1, int(r.IC>>8))
	return Advance(), nil
}

func execJE0(s State) (Result, error) {
	op, err := s.Operand(0)
	if err != nil {
		return Result{}, err
	}
	r := s.Registers()
	if r.R0 == op {
		return JumpTo(r.AR), nil
	}
	return Advance(), nil
}

// addWord adds value to R1 carrying into R2. If R2 overflows as well, both
// registers saturate at 0xFF.
func addWord(r *Registers, value uint8) {
	sum := uint16(r.R1) + uint16(value)
	if sum <= 0xFF {
		r.R1 = uint8(sum)
		return
	}
	if r.R2 == 0xFF {
		r.R1 = 0xFF
		r.R2 = 0xFF
		return
	}
	r.R2++
	r.R1 = uint8(sum)
}

// subWord subtracts value from R1. A negative result stores its absolute
// value in R1 and borrows from R2. If R2 underflows, both registers become 0.
func subWord(r *Registers, value uint8) {
	diff := int(r.R1) - int(value)
	if diff >= 0 {
		r.R1 = uint8(diff)
		return
	}
	if r.R2 == 0 {
		r.R1 = 0
		r.R2 = 0
		return
	}
	r.R1 = uint8(-diff)
	r.R2--
}
