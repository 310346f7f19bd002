// Package consts manages the memory map constants in the disassembled program.
package consts

import (
	"github.com/retroenv/retro24/internal/memory"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Constant is a named memory cell of the Retro24 memory map.
type Constant struct {
	Address uint16
	Name    string
	Comment string
}

// Constants returns the memory map constants of the Retro24.
func Constants() []Constant {
	return []Constant{
		{Address: memory.UpdateFlag, Name: "UPDATE_FLAG", Comment: "frame ready handshake"},
		{Address: memory.TickAddress, Name: "TICK", Comment: "wrapping step counter"},
		{Address: memory.TockAddress, Name: "TOCK", Comment: "countdown counter"},
		{Address: memory.JoystickPort, Name: "JOYSTICK", Comment: "digital input bits"},
		{Address: memory.BrightnessPlaneStart, Name: "VIDEO_BRIGHTNESS", Comment: "brightness bitplane"},
		{Address: memory.ColorPlaneStart, Name: "VIDEO_COLOR", Comment: "color bitplane"},
	}
}

// Consts manages constants in the disassembled program.
type Consts struct {
	constants map[uint16]Constant
	used      map[uint16]Constant
}

// New creates a new constants manager.
func New() *Consts {
	c := &Consts{
		constants: map[uint16]Constant{},
		used:      map[uint16]Constant{},
	}
	for _, constant := range Constants() {
		c.constants[constant.Address] = constant
	}
	return c
}

// Get returns the constant for the address.
func (c *Consts) Get(address uint16) (Constant, bool) {
	constant, ok := c.constants[address]
	return constant, ok
}

// ReplaceParameter returns the constant name for an address parameter and
// marks the constant as used.
func (c *Consts) ReplaceParameter(address uint16) (string, bool) {
	constant, ok := c.constants[address]
	if !ok {
		return "", false
	}
	c.used[address] = constant
	return constant.Name, true
}

// Used returns all referenced constants sorted by address.
func (c *Consts) Used() []Constant {
	addresses := maps.Keys(c.used)
	slices.Sort(addresses)

	used := make([]Constant, 0, len(addresses))
	for _, address := range addresses {
		used = append(used, c.used[address])
	}
	return used
}

// UsedMap returns the referenced constants as name to address map.
func (c *Consts) UsedMap() map[string]uint16 {
	m := make(map[string]uint16, len(c.used))
	for _, constant := range c.used {
		m[constant.Name] = constant.Address
	}
	return m
}
