// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retro24/internal/options"
)

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: %s\n\n", e.usage)
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// ParseFlags parses the command line flags of the emulator.
func ParseFlags() (options.Program, error) {
	const usage = "retro24 [options] <program to run>"

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readProgramFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags, usage: usage, msg: "missing program to run"}
	}
	if err := validateArgs(args, usage); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if err := normalizeProgramOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// ParseDisasmFlags parses the command line flags of the disassembler.
func ParseDisasmFlags() (options.Disasm, options.Disassembler, error) {
	const usage = "retro24disasm [options] <file to disassemble>"

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Disasm
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example *.bin")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated output by assembling it and check if it matches the input")
	readSharedFlags(flags, &opts.Flags)

	disasmOptions := options.NewDisassembler()
	var noHexComments, noOffsets bool
	flags.BoolVar(&noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&noOffsets, "nooffsets", false, "do not output offsets in comments")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "") {
		return opts, disasmOptions, &UsageError{flags: flags, usage: usage, msg: "missing file to disassemble"}
	}
	if err := validateArgs(args, usage); err != nil {
		return opts, disasmOptions, err
	}
	if opts.Batch == "" {
		opts.Input = args[0]
	}

	disasmOptions.HexComments = !noHexComments
	disasmOptions.OffsetComments = !noOffsets
	return opts, disasmOptions, nil
}

// ParseAssemblerFlags parses the command line flags of the assembler.
func ParseAssemblerFlags() (options.Assembler, error) {
	const usage = "retro24asm [options] <file to assemble>"

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Assembler
	flags.StringVar(&opts.Output, "o", "", "name of the output binary, defaults to the input name with .bin extension")
	readSharedFlags(flags, &opts.Flags)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags, usage: usage, msg: "missing file to assemble"}
	}
	if err := validateArgs(args, usage); err != nil {
		return opts, err
	}
	opts.Input = args[0]
	return opts, nil
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string, usage string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				usage: usage,
				msg:   fmt.Sprintf("Potential argument %s found after input file, please pass the input file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeProgramOptions normalizes and validates option values
func normalizeProgramOptions(opts *options.Program) error {
	opts.Display = strings.ToLower(opts.Display)

	validDisplays := []string{options.DisplayWindow, options.DisplayTerminal, options.DisplayNone}
	valid := false
	for _, display := range validDisplays {
		if opts.Display == display {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported display: %s. Valid options: %s",
			opts.Display, strings.Join(validDisplays, ", "))
	}

	if opts.Frequency < 0 {
		return fmt.Errorf("invalid frequency %d", opts.Frequency)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("invalid scale %d", opts.Scale)
	}
	return nil
}

func readProgramFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Display, "display", options.DisplayWindow, "display backend to use (window/terminal/none)")
	flags.StringVar(&opts.Dump, "dump", "", "memory range to dump on exit, for example 0100-01FF")
	flags.StringVar(&opts.Screenshot, "screenshot", "", "write the last frame as PNG to the given file on exit")
	flags.IntVar(&opts.Frequency, "f", options.DefaultFrequency, "instructions per second, 0 runs unthrottled")
	flags.Uint64Var(&opts.MaxSteps, "steps", 0, "stop after the given number of instructions, 0 runs until halt")
	flags.IntVar(&opts.Scale, "scale", 8, "scale factor of the window and screenshot")
	flags.BoolVar(&opts.StatsView, "stats", false, "serve runtime statistics on localhost:12600 if compiled in")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	readSharedFlags(flags, &opts.Flags)
}

func readSharedFlags(flags *flag.FlagSet, opts *options.Flags) {
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
