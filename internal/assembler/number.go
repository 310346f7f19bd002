package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

// parseNumber parses a decimal, hexadecimal ($ or 0x prefix) or binary (%)
// number.
func parseNumber(s string) (int, error) {
	var (
		digits string
		base   int
	)

	switch {
	case strings.HasPrefix(s, "$"):
		digits, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		digits, base = s[2:], 16
	case strings.HasPrefix(s, "%"):
		digits, base = s[1:], 2
	default:
		digits, base = s, 10
	}

	value, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s': %w", s, err)
	}
	return int(value), nil
}
