// Package sanitize cleans text arriving from the HTTP and chat edges before it
// reaches the dialogue core.
package sanitize

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
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "KITCHEN_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Input enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func Input(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated so the turn stays deterministic.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Slot is Input for single-line slot values: whitespace runs collapse to one space.
func Slot(value string) (string, error) {
	clean, err := Input(value)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(clean), " "), nil
}

// Slots sanitizes every value of a slot map, returning a new map.
func Slots(slots map[string]string) (map[string]string, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(slots))
	for k, v := range slots {
		clean, err := Slot(v)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", k, err)
		}
		out[k] = clean
	}
	return out, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
