package disasm

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInstruction(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected string
	}{
		{"CLS instruction", 0x00E0, "cls"},
		{"RET instruction", 0x00EE, "ret"},
		{"JP instruction", 0x1234, "jp $234"},
		{"JP V0 instruction", 0xB234, "jp V0, $234"},
		{"CALL instruction", 0x2234, "call $234"},
		{"SE Vx, byte", 0x3234, "se V2, $34"},
		{"SE Vx, Vy", 0x5230, "se V2, V3"},
		{"SNE Vx, Vy", 0x9230, "sne V2, V3"},
		{"LD Vx, byte", 0x6142, "ld V1, $42"},
		{"LD I, addr", 0xA234, "ld I, $234"},
		{"ADD Vx, Vy", 0x8234, "add V2, V3"},
		{"SUBN Vx, Vy", 0x8237, "subn V2, V3"},
		{"SHL Vx", 0x823E, "shl V2"},
		{"DRW Vx, Vy, n", 0xD235, "drw V2, V3, $5"},
		{"SKNP Vx", 0xE2A1, "sknp V2"},
		{"scroll down", 0x00C4, "scd $4"},
		{"scroll up", 0x00D2, "scu $2"},
		{"exit", 0x00FD, "exit"},
		{"high resolution", 0x00FF, "high"},
		{"long I load", 0xF000, "ld I, long"},
		{"plane select", 0xF201, "plane $2"},
		{"large glyph", 0xF330, "ld HF, V3"},
		{"store range", 0x5132, "save V1 - V3"},
		{"load range descending", 0x5313, "load V3 - V1"},
		{"RPL store", 0xF775, "ld R, V7"},
		{"unknown", 0xE1FF, "dw $E1FF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Instruction(tt.opcode))
		})
	}
}

func TestListing(t *testing.T) {
	memory := []byte{0x61, 0x42, 0x00, 0xE0, 0x12}

	var buf bytes.Buffer
	err := Listing(&buf, memory, 0, len(memory))
	assert.NoError(t, err)

	expected := "0000  61 42    ld V1, $42\n" +
		"0002  00 E0    cls\n" +
		"0004  12       db $12\n"
	assert.Equal(t, expected, buf.String())
}

func TestListingClampsEnd(t *testing.T) {
	var buf bytes.Buffer
	err := Listing(&buf, []byte{0x00, 0xEE}, 0, 100)
	assert.NoError(t, err)
	assert.Equal(t, "0000  00 EE    ret\n", buf.String())
}
