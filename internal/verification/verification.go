// Package verification verifies that the generated output file recreates the input.
package verification

import (
	"fmt"
	"io"

	"github.com/retroenv/retro24/internal/assembler"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput assembles the generated source and compares the result with
// the original program binary.
func VerifyOutput(logger *log.Logger, input []byte, source io.Reader) error {
	output, err := assembler.Assemble(source)
	if err != nil {
		return fmt.Errorf("reassembling output: %w", err)
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
