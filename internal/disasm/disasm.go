// Package disasm implements a Retro24 disassembler.
package disasm

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/retroenv/retro24/internal/consts"
	"github.com/retroenv/retro24/internal/isa"
	"github.com/retroenv/retro24/internal/memory"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/program"
	"github.com/retroenv/retro24/internal/writer"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	data []byte
	app  *program.Program

	constants *consts.Consts

	jumpDestinations set.Set[uint16] // MAR targets that are followed by a jump instruction
	dataReferences   set.Set[uint16] // MAR targets that are used for memory access
}

// New creates a new disassembler for a program binary that is loaded at
// memory.ProgramStart.
func New(logger *log.Logger, data []byte, options options.Disassembler) *Disasm {
	return &Disasm{
		logger:           logger,
		options:          options,
		data:             data,
		app:              program.New(memory.ProgramStart, len(data)),
		constants:        consts.New(),
		jumpDestinations: set.New[uint16](),
		dataReferences:   set.New[uint16](),
	}
}

// Process disassembles the program and writes the assembly to the writer.
func (dis *Disasm) Process(ctx context.Context, w io.Writer) (*program.Program, error) {
	if err := dis.sweep(ctx); err != nil {
		return nil, err
	}

	dis.processReferences()
	if err := dis.formatCode(); err != nil {
		return nil, err
	}

	dis.app.Checksum = crc32.ChecksumIEEE(dis.data)
	dis.app.Constants = dis.constants.UsedMap()

	out := writer.New(dis.app, w, writer.Options{
		HexComments:    dis.options.HexComments,
		OffsetComments: dis.options.OffsetComments,
	})
	if err := out.Write(); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	return dis.app, nil
}

// sweep decodes the program linearly. Bytes that are not a valid opcode or
// an instruction that is cut off at the end of the program become data.
// It tracks the value of AR to find the targets of jump and memory
// access instructions.
func (dis *Disasm) sweep(ctx context.Context) error {
	var (
		arKnown bool
		ar      uint16
	)

	for index := 0; index < len(dis.data); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("disassembling: %w", err)
		}

		offsetInfo := &dis.app.Offsets[index]
		address := dis.app.Address(index)

		ins, err := isa.Lookup(dis.data[index])
		if err != nil || index+ins.Size > len(dis.data) {
			dis.logger.Debug("Data byte in code",
				log.Hex("address", address),
				log.Hex("value", dis.data[index]))
			offsetInfo.Data = dis.data[index : index+1]
			offsetInfo.SetType(program.DataOffset)
			arKnown = false
			index++
			continue
		}

		offsetInfo.Data = dis.data[index : index+ins.Size]
		offsetInfo.SetType(program.CodeOffset)
		for i := 1; i < ins.Size; i++ {
			dis.app.Offsets[index+i].SetType(program.CodeOffset)
		}

		switch {
		case ins.Opcode == isa.MAR:
			ar = uint16(offsetInfo.Data[2])<<8 | uint16(offsetInfo.Data[1])
			arKnown = true

		case ins.ModifiesAR():
			arKnown = false

		case arKnown && ins.IsJump():
			dis.jumpDestinations.Add(ar)

		case arKnown && accessesMemory(ins):
			dis.dataReferences.Add(ar)
		}

		// the code following an unconditional jump or halt can be reached with any AR value
		if ins.Opcode == isa.JMP || ins.IsHalt() {
			arKnown = false
		}

		index += ins.Size
	}
	return nil
}

func accessesMemory(ins *isa.Instruction) bool {
	switch ins.Opcode {
	case isa.SIC, isa.SR0, isa.SRW, isa.LR0, isa.LRW:
		return true
	default:
		return false
	}
}
