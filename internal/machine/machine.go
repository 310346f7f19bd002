// Package machine wires the Retro24 components together and provides the
// entry points used by a driver: Init, Load and Step.
package machine

import (
	"github.com/retroenv/retro24/internal/cpu"
	"github.com/retroenv/retro24/internal/graphics"
	"github.com/retroenv/retro24/internal/iochip"
	"github.com/retroenv/retro24/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// Machine is a complete Retro24 computer. It is not safe for concurrent use,
// a driver that renders from another goroutine has to copy frames while
// holding its own lock.
type Machine struct {
	logger *log.Logger

	mem *memory.AddressSpace
	cpu *cpu.CPU
	gfx *graphics.Chip
	io  *iochip.Chip
}

// New returns a machine in its power on state. Call Init before loading
// a program.
func New(logger *log.Logger) *Machine {
	mem := memory.New()
	return &Machine{
		logger: logger,
		mem:    mem,
		cpu:    cpu.New(mem),
		gfx:    graphics.New(mem),
		io:     iochip.New(mem),
	}
}

// Init clears the I/O page, fills the program area with HLT instructions,
// resets the CPU and draws the startup screen.
func (m *Machine) Init() {
	m.mem.Fill(memory.IOPageStart, memory.IOPageEnd, 0x00)
	m.mem.Fill(memory.ProgramStart, memory.ProgramEnd, 0xFF)
	m.cpu.Reset()
	m.gfx.Init()
}

// Load copies the program verbatim to the program start address. Programs
// that do not fit into the program area are not truncated, they overwrite
// video memory and wrap around the end of the address space.
func (m *Machine) Load(program []byte) {
	end := memory.ProgramStart + len(program) - 1
	if end > memory.ProgramEnd {
		m.logger.Warn("Program exceeds program area",
			log.Int("size", len(program)),
			log.Hex("end", end),
			log.Hex("limit", memory.ProgramEnd))
	}
	m.mem.Load(memory.ProgramStart, program)
}

// Step executes a single CPU instruction.
func (m *Machine) Step() error {
	return m.cpu.Step()
}

// Halted returns whether the CPU executed a HLT instruction.
func (m *Machine) Halted() bool {
	return m.cpu.Halted()
}

// Memory returns the address space.
func (m *Machine) Memory() *memory.AddressSpace {
	return m.mem
}

// CPU returns the processor.
func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

// Graphics returns the graphics chip.
func (m *Machine) Graphics() *graphics.Chip {
	return m.gfx
}

// IO returns the input chip.
func (m *Machine) IO() *iochip.Chip {
	return m.io
}
