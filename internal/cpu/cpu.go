// Package cpu implements the Retro24 processor: the register file, the
// tick/tock counters and the fetch-decode-execute step.
package cpu

import (
	"fmt"

	"github.com/retroenv/retro24/internal/isa"
	"github.com/retroenv/retro24/internal/memory"
)

// InitialTock is the value of the tock counter after a reset.
const InitialTock = 0xFF

// Memory is the bus the CPU reads instructions and data from.
type Memory interface {
	Read(address int) byte
	Write(address int, value int)
}

// LastInstruction describes the most recently executed instruction.
type LastInstruction struct {
	Instruction *isa.Instruction // nil until the first step after a reset
	Address     uint16
	Operands    []byte
}

// CPU is the Retro24 processor. It is not safe for concurrent use.
type CPU struct {
	mem  Memory
	regs isa.Registers

	tick   uint8
	tock   uint8
	halted bool

	last LastInstruction

	// operands of the instruction currently executing
	operands []byte
}

// Compile-time check that the step adapter satisfies the instruction state.
var _ isa.State = (*stepState)(nil)

// New returns a CPU connected to the given memory in reset state.
func New(mem Memory) *CPU {
	c := &CPU{
		mem:      mem,
		operands: make([]byte, 0, 2),
	}
	c.Reset()
	return c
}

// Reset sets all registers to their power on values and clears the halt state.
// Memory is not modified.
func (c *CPU) Reset() {
	c.regs = isa.Registers{IC: memory.ProgramStart}
	c.tick = 0
	c.tock = InitialTock
	c.halted = false
	c.last = LastInstruction{}
}

// Step executes a single instruction. A halted CPU ignores the call.
// On error the CPU state is left unchanged.
func (c *CPU) Step() error {
	if c.halted {
		return nil
	}

	address := c.regs.IC
	opcode := c.mem.Read(int(address))
	ins, err := isa.Lookup(opcode)
	if err != nil {
		return &isa.OpcodeError{Address: address, Opcode: opcode}
	}

	c.operands = c.operands[:0]
	for i := 1; i < ins.Size; i++ {
		c.operands = append(c.operands, c.mem.Read(int(address)+i))
	}

	before := c.regs
	state := &stepState{cpu: c}
	result, err := ins.Execute(state)
	if err != nil {
		c.regs = before
		return fmt.Errorf("executing %s at $%04X: %w", ins.Name, address, err)
	}

	if target, ok := result.Jump(); ok {
		c.regs.IC = target
	} else {
		c.regs.IC = address + uint16(ins.Size)
	}
	if state.halt {
		c.halted = true
	}

	c.tick++
	if c.tock > 0 {
		c.tock--
	}
	c.mem.Write(memory.TickAddress, int(c.tick))
	c.mem.Write(memory.TockAddress, int(c.tock))

	c.last = LastInstruction{
		Instruction: ins,
		Address:     address,
		Operands:    append([]byte(nil), c.operands...),
	}
	return nil
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() isa.Registers {
	return c.regs
}

// SetRegisters replaces the register file.
func (c *CPU) SetRegisters(regs isa.Registers) {
	c.regs = regs
}

// R0 returns register R0.
func (c *CPU) R0() uint8 { return c.regs.R0 }

// R1 returns register R1.
func (c *CPU) R1() uint8 { return c.regs.R1 }

// R2 returns register R2.
func (c *CPU) R2() uint8 { return c.regs.R2 }

// R3 returns register R3.
func (c *CPU) R3() uint8 { return c.regs.R3 }

// IC returns the instruction counter.
func (c *CPU) IC() uint16 { return c.regs.IC }

// AR returns the address register.
func (c *CPU) AR() uint16 { return c.regs.AR }

// SetR0 sets register R0.
func (c *CPU) SetR0(value uint8) { c.regs.R0 = value }

// SetIC sets the instruction counter.
func (c *CPU) SetIC(value uint16) { c.regs.IC = value }

// SetAR sets the address register.
func (c *CPU) SetAR(value uint16) { c.regs.AR = value }

// Tick returns the wrapping step counter.
func (c *CPU) Tick() uint8 { return c.tick }

// Tock returns the countdown counter.
func (c *CPU) Tock() uint8 { return c.tock }

// Halted returns whether a HLT instruction was executed since the last reset.
func (c *CPU) Halted() bool { return c.halted }

// LastInstruction returns the most recently executed instruction.
func (c *CPU) LastInstruction() LastInstruction { return c.last }

// stepState exposes the CPU to an executing instruction.
type stepState struct {
	cpu  *CPU
	halt bool
}

func (s *stepState) Registers() *isa.Registers {
	return &s.cpu.regs
}

func (s *stepState) Read(address int) byte {
	return s.cpu.mem.Read(address)
}

func (s *stepState) Write(address int, value int) {
	s.cpu.mem.Write(address, value)
}

func (s *stepState) Operand(index int) (byte, error) {
	if index < 0 || index >= len(s.cpu.operands) {
		return 0, fmt.Errorf("operand %d of %d: %w", index, len(s.cpu.operands), isa.ErrInvalidOperandIndex)
	}
	return s.cpu.operands[index], nil
}

func (s *stepState) Halt() {
	s.halt = true
}
