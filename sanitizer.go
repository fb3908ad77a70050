package voyant

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize caps a single prompt at 4KB.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize names the environment variable that overrides the cap.
	EnvMaxInputSize = "VOYANT_MAX_INPUT_SIZE"
)

var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrInputTooLarge = errors.New("input exceeds the size limit")
	ErrInvalidUTF8   = errors.New("input is not valid UTF-8")
)

// SanitizeInput normalizes one user prompt before it reaches the agent.
// The size cap applies to the raw byte length, before any trimming, and
// oversized input is rejected rather than truncated. Control characters
// other than newline, tab and carriage return are removed. Input that
// trims down to nothing fails with ErrEmptyInput.
func SanitizeInput(input string) (string, error) {
	if limit := maxInputSize(); len(input) > limit {
		return "", fmt.Errorf("%w: got %d bytes, limit %d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := strings.TrimSpace(strings.Map(dropUnsafeRune, input))
	if clean == "" {
		return "", ErrEmptyInput
	}
	return clean, nil
}

// dropUnsafeRune maps control runes to -1 so strings.Map removes them.
// Newline, tab and carriage return survive for the terminal renderer.
func dropUnsafeRune(r rune) rune {
	switch r {
	case '\n', '\t', '\r':
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func maxInputSize() int {
	raw := os.Getenv(EnvMaxInputSize)
	if raw == "" {
		return DefaultMaxInputSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultMaxInputSize
	}
	return n
}
