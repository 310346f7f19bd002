// Package graphics implements the Retro24 graphics chip. It maps the two
// video bitplanes of the address space to a 64x64 pixel framebuffer.
package graphics

import (
	"errors"
	"fmt"

	"github.com/retroenv/retro24/internal/memory"
)

// Framebuffer geometry.
const (
	Width     = 64
	Height    = 64
	PlaneSize = Width * Height
	FrameSize = 2 * PlaneSize
)

// ErrInvalidCoordinate is returned for a pixel coordinate outside of the screen.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// CoordinateError describes a pixel coordinate outside of 1..Width and 1..Height.
// It matches ErrInvalidCoordinate with errors.Is.
type CoordinateError struct {
	X int
	Y int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate x=%d y=%d", e.X, e.Y)
}

// Is reports whether target is ErrInvalidCoordinate.
func (e *CoordinateError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}

// Memory is the part of the address space the chip works on.
type Memory interface {
	Read(address int) byte
	Write(address int, value int)
	ReadRange(from, to int) []byte
	Fill(from, to int, value byte)
}

// Chip is the graphics chip. The brightness plane is stored at
// memory.BrightnessPlaneStart and the color plane at memory.ColorPlaneStart,
// one byte per pixel with only bit 0 being significant.
type Chip struct {
	mem Memory
}

// New returns a graphics chip that works on the given memory.
func New(mem Memory) *Chip {
	return &Chip{mem: mem}
}

// PixelAddress returns the brightness and color plane addresses of the 1
// based pixel coordinate. Pixels are stored row-major.
func PixelAddress(x, y int) (brightness, color int, err error) {
	if x < 1 || x > Width || y < 1 || y > Height {
		return 0, 0, &CoordinateError{X: x, Y: y}
	}
	offset := (y-1)*Width + (x - 1)
	return memory.BrightnessPlaneStart + offset, memory.ColorPlaneStart + offset, nil
}

// SetPixel sets the brightness and color bits of a pixel.
func (c *Chip) SetPixel(x, y int, brightness, color bool) error {
	brightnessAddress, colorAddress, err := PixelAddress(x, y)
	if err != nil {
		return err
	}
	c.mem.Write(brightnessAddress, boolToInt(brightness))
	c.mem.Write(colorAddress, boolToInt(color))
	return nil
}

// Pixel returns the brightness and color bits of a pixel.
func (c *Chip) Pixel(x, y int) (brightness, color bool, err error) {
	brightnessAddress, colorAddress, err := PixelAddress(x, y)
	if err != nil {
		return false, false, err
	}
	brightness = c.mem.Read(brightnessAddress)&1 == 1
	color = c.mem.Read(colorAddress)&1 == 1
	return brightness, color, nil
}

// Frame returns a copy of both bitplanes, brightness plane first.
func (c *Chip) Frame() []byte {
	return c.mem.ReadRange(memory.BrightnessPlaneStart, memory.ColorPlaneEnd)
}

// UpdateFlag returns whether a new frame is ready to be rendered.
func (c *Chip) UpdateFlag() bool {
	return c.mem.Read(memory.UpdateFlag) == 1
}

// SetUpdateFlag sets or clears the frame ready flag.
func (c *Chip) SetUpdateFlag(set bool) {
	c.mem.Write(memory.UpdateFlag, boolToInt(set))
}

// ResetFrame clears both bitplanes.
func (c *Chip) ResetFrame() {
	c.mem.Fill(memory.BrightnessPlaneStart, memory.ColorPlaneEnd, 0)
}

// Init clears the screen, draws the startup image and signals a new frame.
func (c *Chip) Init() {
	c.ResetFrame()
	drawStartScreen(c)
	c.SetUpdateFlag(true)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
