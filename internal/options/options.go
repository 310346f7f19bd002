// Package options contains the program options.
package options

// Display backends of the emulator.
const (
	DisplayWindow   = "window"
	DisplayTerminal = "terminal"
	DisplayNone     = "none"
)

// DefaultFrequency is the default number of instructions executed per second.
const DefaultFrequency = 1000

// Flags contains behavior options shared by all commands.
type Flags struct {
	Debug bool
	Quiet bool
}

// Program options of the emulator.
type Program struct {
	Flags

	Input      string // program binary to run
	Display    string // window, terminal or none
	Dump       string // memory range to dump on exit, for example 0100-01FF
	Screenshot string // PNG file to write the last frame to on exit

	Frequency int    // instructions per second, 0 runs unthrottled
	MaxSteps  uint64 // stop after this many steps, 0 runs until halt
	Scale     int    // window and screenshot scale factor

	StatsView bool // serve runtime statistics if compiled in
	Trace     bool // log every executed instruction
}

// Disasm options of the disassembler command.
type Disasm struct {
	Flags

	Input  string
	Output string
	Batch  string

	AssembleTest bool
}

// Assembler options of the assembler command.
type Assembler struct {
	Flags

	Input  string
	Output string
}

// Disassembler defines options to control the disassembler output.
type Disassembler struct {
	HexComments    bool
	OffsetComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}
