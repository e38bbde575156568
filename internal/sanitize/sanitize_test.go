package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Input(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	_, err := Input("yogurt")
	assert.NoError(t, err)
	_, err = Input("greek yogurt")
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "ricotta cheese", "ricotta cheese"},
		{"Safe Controls", "Line1\nLine2\tTabbed", "Line1\nLine2\tTabbed"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Input(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInput_InvalidUTF8(t *testing.T) {
	_, err := Input("yog\xffurt")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSlot(t *testing.T) {
	got, err := Slot("  ricotta \n\t cheese\x00 ")
	require.NoError(t, err)
	assert.Equal(t, "ricotta cheese", got)
}

func TestSlots(t *testing.T) {
	got, err := Slots(map[string]string{"foodToCook": " greek   yogurt "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"foodToCook": "greek yogurt"}, got)

	got, err = Slots(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Slots(map[string]string{"foodToCook": "\xff"})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
