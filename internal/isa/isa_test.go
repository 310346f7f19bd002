package isa

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// testState is a minimal State backed by a flat byte slice.
type testState struct {
	regs     Registers
	mem      [0x10000]byte
	operands []byte
	halted   bool
}

func (s *testState) Registers() *Registers { return &s.regs }

func (s *testState) Read(address int) byte { return s.mem[uint16(address)] }

func (s *testState) Write(address int, value int) { s.mem[uint16(address)] = byte(value) }

func (s *testState) Operand(index int) (byte, error) {
	if index < 0 || index >= len(s.operands) {
		return 0, ErrInvalidOperandIndex
	}
	return s.operands[index], nil
}

func (s *testState) Halt() { s.halted = true }

func execute(t *testing.T, opcode byte, s *testState) Result {
	t.Helper()
	ins, err := Lookup(opcode)
	assert.NoError(t, err)
	res, err := ins.Execute(s)
	assert.NoError(t, err)
	return res
}

func TestLookup(t *testing.T) {
	tests := []struct {
		opcode byte
		name   string
		size   int
	}{
		{NUL, "NUL", 1}, {MAR, "MAR", 3}, {SIC, "SIC", 1}, {RAR, "RAR", 1},
		{AAR, "AAR", 1}, {IR0, "IR0", 1}, {A01, "A01", 1}, {DR0, "DR0", 1},
		{S01, "S01", 1}, {X12, "X12", 1}, {X01, "X01", 1}, {JMP, "JMP", 1},
		{SR0, "SR0", 1}, {SRW, "SRW", 1}, {LR0, "LR0", 1}, {LRW, "LRW", 1},
		{TAW, "TAW", 1}, {MR0, "MR0", 2}, {MRW, "MRW", 3}, {JZ0, "JZ0", 1},
		{JGW, "JGW", 1}, {JEW, "JEW", 1}, {OR0, "OR0", 2}, {AN0, "AN0", 2},
		{JE0, "JE0", 2}, {C01, "C01", 1}, {C02, "C02", 1}, {IRW, "IRW", 1},
		{DRW, "DRW", 1}, {X03, "X03", 1}, {C03, "C03", 1}, {C30, "C30", 1},
		{PL0, "PL0", 1}, {PR0, "PR0", 1}, {HLT, "HLT", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := Lookup(tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.opcode, ins.Opcode)
			assert.Equal(t, tt.name, ins.Name)
			assert.Equal(t, tt.size, ins.Size)

			byName, ok := ByName(tt.name)
			assert.True(t, ok)
			assert.Equal(t, ins, byName)
		})
	}

	assert.Len(t, Instructions(), len(tests))
	assert.Len(t, Mnemonics(), len(tests))
}

func TestLookup_Invalid(t *testing.T) {
	for _, opcode := range []byte{0x0A, 0x0F, 0x1A, 0x2E, 0x80, 0xFE} {
		ins, err := Lookup(opcode)
		assert.Nil(t, ins)
		assert.True(t, errors.Is(err, ErrInvalidOpcode))
	}
}

func TestOpcodeError(t *testing.T) {
	var err error = &OpcodeError{Address: 0x0123, Opcode: 0x0A}
	assert.True(t, errors.Is(err, ErrInvalidOpcode))
	assert.False(t, errors.Is(err, ErrInvalidOperandIndex))
	assert.Equal(t, "invalid opcode $0A at address $0123", err.Error())
}

func TestByName_CaseInsensitive(t *testing.T) {
	ins, ok := ByName("mr0")
	assert.True(t, ok)
	assert.Equal(t, byte(MR0), ins.Opcode)

	_, ok = ByName("LDA")
	assert.False(t, ok)
}

func TestIncrementDecrementSaturation(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		r0     uint8
		want   uint8
	}{
		{"IR0 increments", IR0, 0x10, 0x11},
		{"IR0 saturates", IR0, 0xFF, 0xFF},
		{"DR0 decrements", DR0, 0x10, 0x0F},
		{"DR0 saturates", DR0, 0x00, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &testState{regs: Registers{R0: tt.r0}}
			execute(t, tt.opcode, s)
			assert.Equal(t, tt.want, s.regs.R0)
		})
	}
}

func TestAddWord(t *testing.T) {
	tests := []struct {
		name           string
		opcode         byte
		r0, r1, r2     uint8
		wantR1, wantR2 uint8
	}{
		{"A01 no carry", A01, 0x10, 0x20, 0x05, 0x30, 0x05},
		{"A01 exact byte", A01, 0x01, 0xFE, 0x00, 0xFF, 0x00},
		{"A01 carry", A01, 0x10, 0xF8, 0x05, 0x08, 0x06},
		{"A01 carry saturates", A01, 0x10, 0xF8, 0xFF, 0xFF, 0xFF},
		{"IRW no carry", IRW, 0x99, 0x41, 0x00, 0x42, 0x00},
		{"IRW carry", IRW, 0x99, 0xFF, 0x00, 0x00, 0x01},
		{"IRW carry saturates", IRW, 0x00, 0xFF, 0xFF, 0xFF, 0xFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &testState{regs: Registers{R0: tt.r0, R1: tt.r1, R2: tt.r2}}
			execute(t, tt.opcode, s)
			assert.Equal(t, tt.wantR1, s.regs.R1)
			assert.Equal(t, tt.wantR2, s.regs.R2)
			assert.Equal(t, tt.r0, s.regs.R0)
		})
	}
}

func TestAddWord_CarryLaw(t *testing.T) {
	for r0 := 0; r0 < 256; r0 += 15 {
		for r1 := 0; r1 < 256; r1 += 17 {
			for _, r2 := range []int{0, 1, 0x7F, 0xFE} {
				s := &testState{regs: Registers{R0: uint8(r0), R1: uint8(r1), R2: uint8(r2)}}
				execute(t, A01, s)
				assert.Equal(t, uint8((r1+r0)%256), s.regs.R1)
				if r1+r0 > 0xFF {
					assert.Equal(t, uint8(r2+1), s.regs.R2)
				} else {
					assert.Equal(t, uint8(r2), s.regs.R2)
				}
			}
		}
	}
}

func TestSubWord(t *testing.T) {
	tests := []struct {
		name           string
		opcode         byte
		r0, r1, r2     uint8
		wantR1, wantR2 uint8
	}{
		{"S01 no borrow", S01, 0x10, 0x30, 0x05, 0x20, 0x05},
		{"S01 zero result", S01, 0x30, 0x30, 0x05, 0x00, 0x05},
		{"S01 borrow stores magnitude", S01, 0x30, 0x10, 0x05, 0x20, 0x04},
		{"S01 borrow underflow", S01, 0x30, 0x10, 0x00, 0x00, 0x00},
		{"DRW no borrow", DRW, 0x99, 0x42, 0x01, 0x41, 0x01},
		{"DRW borrow", DRW, 0x99, 0x00, 0x02, 0x01, 0x01},
		{"DRW borrow underflow", DRW, 0x99, 0x00, 0x00, 0x00, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &testState{regs: Registers{R0: tt.r0, R1: tt.r1, R2: tt.r2}}
			execute(t, tt.opcode, s)
			assert.Equal(t, tt.wantR1, s.regs.R1)
			assert.Equal(t, tt.wantR2, s.regs.R2)
		})
	}
}

func TestSubWord_BorrowLaw(t *testing.T) {
	for r0 := 0; r0 < 256; r0 += 13 {
		for r1 := 0; r1 < 256; r1 += 19 {
			for _, r2 := range []int{1, 2, 0x80, 0xFF} {
				s := &testState{regs: Registers{R0: uint8(r0), R1: uint8(r1), R2: uint8(r2)}}
				execute(t, S01, s)
				if r1 >= r0 {
					assert.Equal(t, uint8(r1-r0), s.regs.R1)
					assert.Equal(t, uint8(r2), s.regs.R2)
				} else {
					assert.Equal(t, uint8(r0-r1), s.regs.R1)
					assert.Equal(t, uint8(r2-1), s.regs.R2)
				}
			}
		}
	}
}

func TestRegisterMoves(t *testing.T) {
	tests := []struct {
		name   string
		opcode byte
		before Registers
		after  Registers
	}{
		{"X12", X12, Registers{R1: 1, R2: 2}, Registers{R1: 2, R2: 1}},
		{"X01", X01, Registers{R0: 1, R1: 2}, Registers{R0: 2, R1: 1}},
		{"X03", X03, Registers{R0: 1, R3: 3}, Registers{R0: 3, R3: 1}},
		{"C01", C01, Registers{R0: 7}, Registers{R0: 7, R1: 7}},
		{"C02", C02, Registers{R0: 7}, Registers{R0: 7, R2: 7}},
		{"C03", C03, Registers{R0: 7}, Registers{R0: 7, R3: 7}},
		{"C30", C30, Registers{R3: 9}, Registers{R0: 9, R3: 9}},
		{"PL0", PL0, Registers{R0: 0x81}, Registers{R0: 0x02}},
		{"PR0", PR0, Registers{R0: 0x81}, Registers{R0: 0x40}},
		{"RAR", RAR, Registers{R1: 0x12, R2: 0x34}, Registers{R1: 0x12, R2: 0x34, AR: 0x1234}},
		{"TAW", TAW, Registers{AR: 0xABCD}, Registers{R1: 0xAB, R2: 0xCD, AR: 0xABCD}},
		{"AAR", AAR, Registers{R0: 0x10, AR: 0x0100}, Registers{R0: 0x10, AR: 0x0110}},
		{"AAR wraps", AAR, Registers{R0: 0x10, AR: 0xFFF8}, Registers{R0: 0x10, AR: 0x0008}},
		{"NUL", NUL, Registers{R0: 1, R1: 2, R2: 3, R3: 4, AR: 5}, Registers{R0: 1, R1: 2, R2: 3, R3: 4, AR: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &testState{regs: tt.before}
			res := execute(t, tt.opcode, s)
			assert.Equal(t, tt.after, s.regs)
			_, jump := res.Jump()
			assert.False(t, jump)
		})
	}
}

func TestRARTAWRoundTrip(t *testing.T) {
	s := &testState{regs: Registers{AR: 0xBEEF}}
	execute(t, TAW, s)
	s.regs.AR = 0
	execute(t, RAR, s)
	assert.Equal(t, uint16(0xBEEF), s.regs.AR)
}

func TestOperandInstructions(t *testing.T) {
	tests := []struct {
		name     string
		opcode   byte
		before   Registers
		operands []byte
		after    Registers
	}{
		{"MAR", MAR, Registers{}, []byte{0x00, 0x02}, Registers{AR: 0x0200}},
		{"MAR little endian", MAR, Registers{}, []byte{0x34, 0x12}, Registers{AR: 0x1234}},
		{"MR0", MR0, Registers{}, []byte{0x05}, Registers{R0: 0x05}},
		{"MRW", MRW, Registers{}, []byte{0x11, 0x22}, Registers{R1: 0x11, R2: 0x22}},
		{"OR0", OR0, Registers{R0: 0xF0}, []byte{0x0F}, Registers{R0: 0xFF}},
		{"AN0", AN0, Registers{R0: 0xF3}, []byte{0x0F}, Registers{R0: 0x03}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &testState{regs: tt.before, operands: tt.operands}
			execute(t, tt.opcode, s)
			assert.Equal(t, tt.after, s.regs)
		})
	}
}

func TestOperandMissing(t *testing.T) {
	for _, opcode := range []byte{MAR, MR0, MRW, OR0, AN0, JE0} {
		ins, err := Lookup(opcode)
		assert.NoError(t, err)
		s := &testState{regs: Registers{R0: 0x42}}
		_, err = ins.Execute(s)
		assert.True(t, errors.Is(err, ErrInvalidOperandIndex))
	}
}

func TestJumps(t *testing.T) {
	tests := []struct {
		name     string
		opcode   byte
		regs     Registers
		operands []byte
		jump     bool
	}{
		{"JMP", JMP, Registers{}, nil, true},
		{"JZ0 taken", JZ0, Registers{R0: 0}, nil, true},
		{"JZ0 not taken", JZ0, Registers{R0: 1}, nil, false},
		{"JGW taken", JGW, Registers{R1: 0x80, R2: 0x7F}, nil, true},
		{"JGW equal", JGW, Registers{R1: 0x80, R2: 0x80}, nil, false},
		{"JGW unsigned", JGW, Registers{R1: 0xFF, R2: 0x01}, nil, true},
		{"JEW taken", JEW, Registers{R1: 5, R2: 5}, nil, true},
		{"JEW not taken", JEW, Registers{R1: 5, R2: 6}, nil, false},
		{"JE0 taken", JE0, Registers{R0: 0x42}, []byte{0x42}, true},
		{"JE0 not taken", JE0, Registers{R0: 0x42}, []byte{0x43}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.regs.AR = 0x4321
			s := &testState{regs: tt.regs, operands: tt.operands}
			res := execute(t, tt.opcode, s)
			target, jump := res.Jump()
			assert.Equal(t, tt.jump, jump)
			if jump {
				assert.Equal(t, uint16(0x4321), target)
			}

			ins, _ := Lookup(tt.opcode)
			assert.True(t, ins.IsJump())
		})
	}
}

func TestMemoryInstructions(t *testing.T) {
	s := &testState{regs: Registers{R0: 0x7A, R1: 0x11, R2: 0x22, AR: 0xFFFF, IC: 0x0234}}

	execute(t, SR0, s)
	assert.Equal(t, byte(0x7A), s.mem[0xFFFF])

	execute(t, SRW, s)
	assert.Equal(t, byte(0x11), s.mem[0xFFFF])
	assert.Equal(t, byte(0x22), s.mem[0x0000])

	s.regs.AR = 0x0300
	execute(t, SIC, s)
	assert.Equal(t, byte(0x34), s.mem[0x0300])
	assert.Equal(t, byte(0x02), s.mem[0x0301])

	s.regs = Registers{AR: 0x0300}
	execute(t, LR0, s)
	assert.Equal(t, uint8(0x34), s.regs.R0)
	execute(t, LRW, s)
	assert.Equal(t, uint8(0x34), s.regs.R1)
	assert.Equal(t, uint8(0x02), s.regs.R2)
}

func TestHalt(t *testing.T) {
	s := &testState{}
	res := execute(t, HLT, s)
	assert.True(t, s.halted)
	_, jump := res.Jump()
	assert.False(t, jump)

	ins, _ := Lookup(HLT)
	assert.True(t, ins.IsHalt())
}

func TestModifiesAR(t *testing.T) {
	for _, ins := range Instructions() {
		want := ins.Opcode == MAR || ins.Opcode == RAR || ins.Opcode == AAR
		assert.Equal(t, want, ins.ModifiesAR(), ins.Name)
	}
}
