// Package iochip implements the Retro24 input chip that exposes the digital
// joystick state in a single memory cell.
package iochip

import "github.com/retroenv/retro24/internal/memory"

// Joystick bits of the digital input cell.
const (
	Up    = 0x01
	Down  = 0x02
	Left  = 0x04
	Right = 0x08
	Fire  = 0x10
)

// Memory is the write side of the address space.
type Memory interface {
	Read(address int) byte
	Write(address int, value int)
}

// Chip is the input chip.
type Chip struct {
	mem Memory
}

// New returns an input chip writing to the given memory.
func New(mem Memory) *Chip {
	return &Chip{mem: mem}
}

// WriteDigitalInput stores the joystick state in the joystick port cell.
func (c *Chip) WriteDigitalInput(state byte) {
	c.mem.Write(memory.JoystickPort, int(state))
}

// DigitalInput returns the joystick state as currently seen by programs.
func (c *Chip) DigitalInput() byte {
	return c.mem.Read(memory.JoystickPort)
}

// Joystick is the direction and fire state of a digital joystick.
type Joystick struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Fire  bool
}

// Byte encodes the joystick state into the bit layout of the joystick port.
func (j Joystick) Byte() byte {
	var b byte
	if j.Up {
		b |= Up
	}
	if j.Down {
		b |= Down
	}
	if j.Left {
		b |= Left
	}
	if j.Right {
		b |= Right
	}
	if j.Fire {
		b |= Fire
	}
	return b
}
