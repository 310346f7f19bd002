// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retro24/internal/assembler"
	"github.com/retroenv/retro24/internal/disasm"
	"github.com/retroenv/retro24/internal/loader"
	"github.com/retroenv/retro24/internal/options"
	"github.com/retroenv/retro24/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile disassembles a single file and optionally verifies the output.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Disasm, disasmOptions options.Disassembler) error {
	data, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	if !opts.Quiet {
		logger.Info("Processing Retro24 program",
			log.String("file", opts.Input),
			log.Int("size", len(data)))
	}

	var buf bytes.Buffer
	dis := disasm.New(logger, data, disasmOptions)
	if _, err := dis.Process(ctx, &buf); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if err := writeOutput(opts.Output, buf.Bytes()); err != nil {
		return err
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(logger, data, bytes.NewReader(buf.Bytes())); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}

	return nil
}

// AssembleFile assembles a source file into a program binary.
func AssembleFile(logger *log.Logger, opts options.Assembler) error {
	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := assembler.Assemble(file)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", opts.Input, err)
	}

	output := opts.Output
	if output == "" {
		output = GenerateOutputFilename(opts.Input, ".bin")
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("writing output file %s: %w", output, err)
	}

	logger.Info("Program assembled",
		log.String("file", output),
		log.Int("size", len(data)))
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Disasm) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename replaces the extension of the input file.
func GenerateOutputFilename(inputFile, extension string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + extension
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, name string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info(name, log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file %s: %w", path, err)
		}
		defer func() { _ = file.Close() }()
		w = file
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
