package memory

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAddressSpace_ReadWriteWrap(t *testing.T) {
	tests := []struct {
		name    string
		address int
		value   int
		readAt  int
		want    byte
	}{
		{"plain", 0x1234, 0x56, 0x1234, 0x56},
		{"address above range", 0x10005, 0x11, 0x0005, 0x11},
		{"negative address", -1, 0x22, 0xFFFF, 0x22},
		{"value above byte", 0x0200, 0x1AB, 0x0200, 0xAB},
		{"negative value", 0x0201, -1, 0x0201, 0xFF},
		{"read wraps too", 0x0300, 0x33, 0x10300, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.Write(tt.address, tt.value)
			assert.Equal(t, tt.want, m.Read(tt.readAt))
		})
	}
}

func TestAddressSpace_WriteReadRoundTrip(t *testing.T) {
	m := New()
	for _, address := range []int{0, 1, 0x00FF, 0x0100, 0xDFFF, 0xE000, 0xFFFF, 0x12345, -0x10} {
		for _, value := range []int{0, 1, 0x7F, 0x80, 0xFF, 0x100, 0x2FF} {
			m.Write(address, value)
			assert.Equal(t, byte(((value%256)+256)%256), m.Read(((address%Size)+Size)%Size))
		}
	}
}

func TestAddressSpace_ReadRange(t *testing.T) {
	m := New()
	m.Write(0xFFFE, 1)
	m.Write(0xFFFF, 2)
	m.Write(0x0000, 3)
	m.Write(0x0001, 4)

	assert.Equal(t, []byte{1, 2}, m.ReadRange(0xFFFE, 0xFFFF))
	assert.Equal(t, []byte{1, 2, 3, 4}, m.ReadRange(0xFFFE, 0x0001))
	assert.Equal(t, []byte{3}, m.ReadRange(0, 0))
	assert.Len(t, m.ReadRange(0, 0xFFFF), Size)

	snapshot := m.ReadRange(0, 1)
	snapshot[0] = 0x99
	assert.Equal(t, byte(3), m.Read(0))
}

func TestAddressSpace_Load(t *testing.T) {
	m := New()
	m.Load(ProgramStart, []byte{0x17, 0x05, 0xFF})
	assert.Equal(t, []byte{0x17, 0x05, 0xFF}, m.ReadRange(ProgramStart, ProgramStart+2))

	m.Load(0xFFFF, []byte{0xAA, 0xBB})
	assert.Equal(t, byte(0xAA), m.Read(0xFFFF))
	assert.Equal(t, byte(0xBB), m.Read(0x0000))
}

func TestAddressSpace_Fill(t *testing.T) {
	m := New()
	m.Fill(ProgramStart, ProgramEnd, 0xFF)
	assert.Equal(t, byte(0), m.Read(ProgramStart-1))
	assert.Equal(t, byte(0xFF), m.Read(ProgramStart))
	assert.Equal(t, byte(0xFF), m.Read(ProgramEnd))
	assert.Equal(t, byte(0), m.Read(BrightnessPlaneStart))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, uint16(0), Wrap(Size))
	assert.Equal(t, uint16(0xFFFF), Wrap(-1))
	assert.Equal(t, uint16(0x0102), Wrap(0x30102))
}
