// Package memory implements the flat 64KB Retro24 address space.
package memory

// Size is the number of addressable bytes.
const Size = 0x10000

// Memory layout of the Retro24.
//
//	0x0000-0x00FF: I/O page (update flag, tick/tock, joystick)
//	0x0100-0xDFFF: program and data area
//	0xE000-0xEFFF: video brightness bitplane
//	0xF000-0xFFFF: video color/mode bitplane
const (
	IOPageStart = 0x0000
	IOPageEnd   = 0x00FF

	ProgramStart = 0x0100
	ProgramEnd   = 0xDFFF

	BrightnessPlaneStart = 0xE000
	BrightnessPlaneEnd   = 0xEFFF
	ColorPlaneStart      = 0xF000
	ColorPlaneEnd        = 0xFFFF

	// UpdateFlag is set to 1 by the producer of a frame and cleared by the renderer.
	UpdateFlag = 0x000A
	// TickAddress mirrors the wrapping step counter.
	TickAddress = 0x0010
	// TockAddress mirrors the countdown counter that holds at zero.
	TockAddress = 0x0011
	// JoystickPort holds the digital input bits.
	JoystickPort = 0x0020
)

// AddressSpace is the byte store of the machine. Every address is reduced
// modulo Size and every value modulo 256 before it is stored.
type AddressSpace struct {
	data [Size]byte
}

// New returns a zero filled address space.
func New() *AddressSpace {
	return &AddressSpace{}
}

// Wrap reduces an arbitrary address into the addressable range.
func Wrap(address int) uint16 {
	return uint16(((address % Size) + Size) % Size)
}

// Read returns the byte at the given address.
func (m *AddressSpace) Read(address int) byte {
	return m.data[Wrap(address)]
}

// Write stores the low 8 bits of value at the given address.
func (m *AddressSpace) Write(address int, value int) {
	m.data[Wrap(address)] = byte(value)
}

// ReadRange returns a copy of the inclusive range from..to. The range wraps
// from 0xFFFF to 0x0000 if to is below from.
func (m *AddressSpace) ReadRange(from, to int) []byte {
	start := int(Wrap(from))
	end := int(Wrap(to))
	length := end - start + 1
	if length <= 0 {
		length += Size
	}

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = m.data[(start+i)%Size]
	}
	return buf
}

// Load writes data sequentially starting at origin, wrapping at the end of
// the address space.
func (m *AddressSpace) Load(origin int, data []byte) {
	start := int(Wrap(origin))
	for i, b := range data {
		m.data[(start+i)%Size] = b
	}
}

// Fill sets every byte of the inclusive range from..to to value.
func (m *AddressSpace) Fill(from, to int, value byte) {
	start := int(Wrap(from))
	end := int(Wrap(to))
	length := end - start + 1
	if length <= 0 {
		length += Size
	}
	for i := range length {
		m.data[(start+i)%Size] = value
	}
}
