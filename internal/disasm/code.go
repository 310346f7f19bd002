package disasm

import (
	"fmt"

	"github.com/retroenv/retro24/internal/isa"
	"github.com/retroenv/retro24/internal/program"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	dataNaming  = "_data_%04x"
	labelNaming = "_label_%04x"
)

// processReferences assigns labels to all jump destinations and data
// references that are part of the program.
func (dis *Disasm) processReferences() {
	dis.assignLabels(dis.jumpDestinations, labelNaming, program.JumpDestination)
	dis.assignLabels(dis.dataReferences, dataNaming, program.DataReference)
}

func (dis *Disasm) assignLabels(addresses set.Set[uint16], naming string, typ program.OffsetType) {
	sorted := maps.Keys(addresses)
	slices.Sort(sorted)

	for _, address := range sorted {
		index, ok := dis.app.Index(address)
		if !ok {
			continue
		}

		offsetInfo := &dis.app.Offsets[index]
		offsetInfo.SetType(typ)
		if offsetInfo.Label == "" {
			offsetInfo.Label = fmt.Sprintf(naming, address)
		}

		// the reference points into the operand bytes of an instruction
		if len(offsetInfo.Data) == 0 {
			dis.handleReferenceIntoInstruction(index)
		}
	}
}

// handleReferenceIntoInstruction converts an instruction that has a label
// inside its operand bytes into data bytes.
func (dis *Disasm) handleReferenceIntoInstruction(index int) {
	start := index - 1
	for len(dis.app.Offsets[start].Data) == 0 {
		start--
	}

	size := len(dis.app.Offsets[start].Data)
	dis.logger.Debug("Reference into instruction detected",
		log.Hex("address", dis.app.Address(index)),
		log.Hex("instruction", dis.app.Address(start)))

	for i := start; i < start+size; i++ {
		offsetInfo := &dis.app.Offsets[i]
		offsetInfo.Data = dis.data[i : i+1]
		offsetInfo.ClearType(program.CodeOffset)
		offsetInfo.SetType(program.DataOffset)
	}
	dis.app.Offsets[start].Comment = "reference into instruction detected"
}

// formatCode creates the assembly text of all code offsets.
func (dis *Disasm) formatCode() error {
	for i := range dis.app.Offsets {
		offsetInfo := &dis.app.Offsets[i]
		if !offsetInfo.IsType(program.CodeOffset) || len(offsetInfo.Data) == 0 {
			continue
		}

		ins, err := isa.Lookup(offsetInfo.Data[0])
		if err != nil {
			return fmt.Errorf("formatting offset $%04X: %w", dis.app.Address(i), err)
		}
		offsetInfo.Code = dis.formatInstruction(ins, offsetInfo.Data[1:])
	}
	return nil
}

func (dis *Disasm) formatInstruction(ins *isa.Instruction, operands []byte) string {
	switch {
	case ins.Opcode == isa.MAR:
		address := uint16(operands[1])<<8 | uint16(operands[0])
		return fmt.Sprintf("%s %s", ins.Name, dis.addressParameter(address))

	case len(operands) == 2:
		return fmt.Sprintf("%s $%02X, $%02X", ins.Name, operands[0], operands[1])

	case len(operands) == 1:
		return fmt.Sprintf("%s $%02X", ins.Name, operands[0])

	default:
		return ins.Name
	}
}

// addressParameter returns the label, memory map constant or the hex
// representation of an address.
func (dis *Disasm) addressParameter(address uint16) string {
	if index, ok := dis.app.Index(address); ok {
		if label := dis.app.Offsets[index].Label; label != "" {
			return label
		}
	}
	if name, ok := dis.constants.ReplaceParameter(address); ok {
		return name
	}
	return fmt.Sprintf("$%04X", address)
}
