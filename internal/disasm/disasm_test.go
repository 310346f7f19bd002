package disasm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retro24/internal/assembler"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/program"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func disassemble(t *testing.T, data []byte, opts options.Disassembler) (string, *program.Program) {
	t.Helper()
	var buf bytes.Buffer
	dis := New(log.NewTestLogger(t), data, opts)
	app, err := dis.Process(context.Background(), &buf)
	assert.NoError(t, err)
	return buf.String(), app
}

func TestProcess_Output(t *testing.T) {
	// MAR loop target, MR0 $03, DR0, JZ0 taken to end, JMP back, HLT
	source := `
	MR0 $03
loop:
	DR0
	MAR done
	JZ0
	MAR loop
	JMP
done:
	MAR $E000
	SR0
	HLT`
	data, err := assembler.Assemble(strings.NewReader(source))
	assert.NoError(t, err)

	output, app := disassemble(t, data, options.Disassembler{})

	expected := []string{
		"VIDEO_BRIGHTNESS = $E000",
		"  MR0 $03\n",
		"_label_0102:\n  DR0\n  MAR _label_010b\n  JZ0\n  MAR _label_0102\n  JMP\n",
		"_label_010b:\n  MAR VIDEO_BRIGHTNESS\n  SR0\n  HLT\n",
	}
	for _, s := range expected {
		assert.True(t, strings.Contains(output, s), "missing: "+s)
	}

	assert.Equal(t, map[string]uint16{"VIDEO_BRIGHTNESS": 0xE000}, app.Constants)
	assert.True(t, app.Offsets[2].IsType(program.JumpDestination))
}

func TestProcess_Comments(t *testing.T) {
	data := []byte{0x17, 0x05, 0xFF}

	output, _ := disassemble(t, data, options.NewDisassembler())
	assert.Contains(t, output, "; $0100  17 05")
	assert.Contains(t, output, "; $0102  FF")

	output, _ = disassemble(t, data, options.Disassembler{HexComments: true})
	assert.Contains(t, output, "; 17 05")
	assert.False(t, strings.Contains(output, "; $0100"))
}

func TestProcess_DataBytes(t *testing.T) {
	// invalid opcodes and truncated MRW and MAR at the end
	data := []byte{0x00, 0x0A, 0x0B, 0xFF, 0x18, 0x01}

	output, app := disassemble(t, data, options.Disassembler{})
	assert.Contains(t, output, "  NUL\n")
	assert.Contains(t, output, ".byte $0A, $0B\n")
	assert.Contains(t, output, "  HLT\n")
	assert.Contains(t, output, ".byte $18, $01\n")
	assert.True(t, app.Offsets[1].IsType(program.DataOffset))
}

func TestProcess_DataBundling(t *testing.T) {
	data := bytes.Repeat([]byte{0x0A}, 20)

	output, _ := disassemble(t, data, options.Disassembler{})
	lines := strings.Count(output, ".byte")
	assert.Equal(t, 2, lines)
}

func TestProcess_DataReference(t *testing.T) {
	source := `
	MAR value
	LR0
	HLT
value:
	.byte $0A`
	data, err := assembler.Assemble(strings.NewReader(source))
	assert.NoError(t, err)

	output, _ := disassemble(t, data, options.Disassembler{})
	assert.Contains(t, output, "MAR _data_0105")
	assert.Contains(t, output, "_data_0105:\n  .byte $0A")
}

func TestProcess_ReferenceIntoInstruction(t *testing.T) {
	// MAR $0105 points at the operand of MR0 $11
	data := []byte{0x01, 0x05, 0x01, 0x11, 0x17, 0x11, 0xFF}

	output, app := disassemble(t, data, options.Disassembler{})
	assert.Contains(t, output, "_label_0105:")
	assert.Contains(t, output, "MAR _label_0105")
	assert.True(t, app.Offsets[4].IsType(program.DataOffset))
	assert.True(t, app.Offsets[5].IsType(program.DataOffset))
	assert.Contains(t, output, "reference into instruction detected")
}

func TestProcess_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"scenario store", []byte{0x01, 0x00, 0x02, 0x12, 0xFF}},
		{"all opcodes", []byte{
			0x00, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x10, 0x12, 0x13, 0x14, 0x15, 0x16,
			0x17, 0x42, 0x18, 0x01, 0x02, 0x19, 0x20, 0x21, 0x22, 0x0F, 0x23, 0xF0, 0x24, 0x33,
			0x25, 0x26, 0x27, 0x28, 0x29, 0x2A, 0x2B, 0x2C, 0x2D, 0x11, 0xFF,
		}},
		{"jump into instruction", []byte{0x01, 0x05, 0x01, 0x11, 0x17, 0x11, 0xFF}},
		{"data and truncated instruction", []byte{0x80, 0x81, 0x00, 0x18, 0x01}},
		{"io constants", []byte{0x01, 0x0A, 0x00, 0x12, 0x01, 0x20, 0x00, 0x14, 0x01, 0x00, 0xF0, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, _ := disassemble(t, tt.data, options.NewDisassembler())
			reassembled, err := assembler.Assemble(strings.NewReader(output))
			assert.NoError(t, err)
			assert.Equal(t, tt.data, reassembled)
		})
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dis := New(log.NewTestLogger(t), []byte{0x00}, options.NewDisassembler())
	_, err := dis.Process(ctx, &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
}
