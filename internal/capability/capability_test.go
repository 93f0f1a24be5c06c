package capability

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestInstructionSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     InstructionSet
		wantErr bool
	}{
		{name: "empty", set: InstructionSet{}},
		{name: "super chip", set: InstructionSet{SuperChip10: true, SuperChip11: true, ScrollUp00BN: true}},
		{name: "xo chip", set: InstructionSet{SuperChip10: true, SuperChip11: true, XOChip: true}},
		{name: "fxf2 with chip8e", set: InstructionSet{Chip8E: true, SetRD0FXF2: true}},
		{name: "chip8e and chip8x", set: InstructionSet{Chip8E: true, Chip8X: true}, wantErr: true},
		{name: "chip8e and xochip", set: InstructionSet{Chip8E: true, XOChip: true}, wantErr: true},
		{name: "chip8x and xochip", set: InstructionSet{Chip8X: true, XOChip: true}, wantErr: true},
		{name: "all exclusive extensions", set: InstructionSet{Chip8E: true, Chip8X: true, XOChip: true}, wantErr: true},
		{name: "chip8x with fxf2 and 00bn", set: InstructionSet{Chip8X: true, SetRD0FXF2: true, ScrollUp00BN: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrConflict))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuirksValidate(t *testing.T) {
	assert.NoError(t, Quirks{Fx55Fx65IncrementLess: true}.Validate())
	assert.NoError(t, Quirks{Fx55Fx65NoIncrement: true}.Validate())

	err := Quirks{Fx55Fx65IncrementLess: true, Fx55Fx65NoIncrement: true}.Validate()
	assert.True(t, errors.Is(err, ErrConflict))

	err = Quirks{BnnnBxnnUseVx: true, BnnnUseRD0: true}.Validate()
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestEnabled(t *testing.T) {
	s := InstructionSet{SuperChip10: true, XOChip: true}
	assert.Equal(t, []string{"super_chip_1_0", "xochip"}, s.Enabled())

	q := Quirks{ShiftVx: true, Fx30AllowHex: true}
	assert.Equal(t, []string{"8xy6_8xye_shift_vx", "fx30_allow_hex"}, q.Enabled())

	assert.Empty(t, Quirks{}.Enabled())
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	err := Dump(&buf, InstructionSet{Chip8E: true}, Quirks{DxynNoWrapping: true})
	assert.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "instruction set:\n"))
	assert.Contains(t, out, "quirks:\n")
	assert.Contains(t, out, "chip8e                        true")
	assert.Contains(t, out, "dxyn_no_wrapping              true")
	assert.Contains(t, out, "fx30_allow_hex                false")
}
