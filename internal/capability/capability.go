// Package capability contains the instruction set extensions and behavior
// quirks that together describe how a CHIP-8 dialect interprets opcodes.
package capability

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrConflict is returned when a configuration enables flags that can not
// be active at the same time.
var ErrConflict = errors.New("conflicting configuration")

// InstructionSet contains the enabled opcode extensions.
type InstructionSet struct {
	Chip8E       bool // CHIP-8E control, range transfer and relative jump opcodes
	SuperChip10  bool // SUPER-CHIP 1.0 halt, resolution and RPL flag opcodes
	SuperChip11  bool // SUPER-CHIP 1.1 scrolling and large font opcodes
	ScrollUp00BN bool // 00Bn scrolls the display up (SCHPC)
	SetRD0FXF2   bool // FxF2 sets the RD.0 register
	Chip8X       bool // CHIP-8X colour, keypad 2 and sound opcodes
	XOChip       bool // XO-CHIP planes, long I load, audio and range transfer opcodes
	Stop0000     bool // 0000 halts execution
	Chip8Run     bool // chip8run halt and resolution opcodes
}

// Quirks contains the behavior variations of opcodes that are shared
// between dialects.
type Quirks struct {
	BnnnBxnnUseVx              bool // bnnn jumps to xnn + Vx
	Fx55Fx65IncrementLess      bool // fx55/fx65 increment I by x
	Fx55Fx65NoIncrement        bool // fx55/fx65 leave I unchanged
	ShiftVx                    bool // 8xy6/8xye shift Vx instead of Vy
	Dxy016x16HighRes           bool // dxy0 draws a 16x16 sprite in high resolution
	Dxy016x16LowRes            bool // dxy0 draws a 16x16 sprite in low resolution
	Dxy08x16LowRes             bool // dxy0 draws an 8x16 sprite in low resolution
	Fx29DigitsHighRes          bool // fx29 points to large digits for 0x10 <= Vx <= 0x19
	DxynCountCollisionsHighRes bool // dxyn sets VF to the number of collided or clipped rows in high resolution
	DxynNoWrapping             bool // dxyn clips sprites at the screen border
	Fx55Fx65UseRD0             bool // fx55/fx65 transfer V(RD.0) to Vx
	BnnnUseRD0                 bool // bnnn jumps to nnn + V(RD.0)
	Fx75Fx85AllowAll           bool // fx75/fx85 accept all 16 registers
	ClearOnResolutionChange    bool // 00fe/00ff clear the screen
	Fx1ESetVF                  bool // fx1e sets VF on I overflow
	Fx1EOverflowAtMemorySize   bool // fx1e overflows at the memory size instead of 0x10000
	ClearAllPlanes             bool // resolution changes clear inactive planes as well
	LowResDoubleScroll         bool // scroll distances are doubled in low resolution
	Fx30AllowHex               bool // fx30 supports the large hex glyphs A-F
}

// exclusiveExtensions returns the enabled extensions that redefine the
// same opcode encodings (5xy1-5xy3, Bxnn, Fx03 and others) with different
// meanings. At most one of them can be enabled.
func (s InstructionSet) exclusiveExtensions() []string {
	var enabled []string
	if s.Chip8E {
		enabled = append(enabled, "CHIP-8E")
	}
	if s.Chip8X {
		enabled = append(enabled, "CHIP-8X")
	}
	if s.XOChip {
		enabled = append(enabled, "XO-CHIP")
	}
	return enabled
}

// Validate returns an error if extensions are enabled that reuse the same
// opcode encodings with a different meaning.
func (s InstructionSet) Validate() error {
	enabled := s.exclusiveExtensions()
	if len(enabled) > 1 {
		return fmt.Errorf("%w: extensions %s are mutually exclusive",
			ErrConflict, strings.Join(enabled, ", "))
	}
	return nil
}

// Validate returns an error for mutually exclusive quirks.
func (q Quirks) Validate() error {
	if q.Fx55Fx65IncrementLess && q.Fx55Fx65NoIncrement {
		return fmt.Errorf("%w: fx55/fx65 increment quirks are mutually exclusive", ErrConflict)
	}
	if q.BnnnBxnnUseVx && q.BnnnUseRD0 {
		return fmt.Errorf("%w: bnnn register quirks are mutually exclusive", ErrConflict)
	}
	return nil
}

type field struct {
	name    string
	enabled bool
}

func (s InstructionSet) fields() []field {
	return []field{
		{"chip8e", s.Chip8E},
		{"super_chip_1_0", s.SuperChip10},
		{"super_chip_1_1", s.SuperChip11},
		{"scroll_up_00bn", s.ScrollUp00BN},
		{"set_rd0_fxf2", s.SetRD0FXF2},
		{"chip8x", s.Chip8X},
		{"xochip", s.XOChip},
		{"stop_0000", s.Stop0000},
		{"chip8run", s.Chip8Run},
	}
}

func (q Quirks) fields() []field {
	return []field{
		{"bnnn_bxnn_use_vx", q.BnnnBxnnUseVx},
		{"fx55_fx65_increment_less", q.Fx55Fx65IncrementLess},
		{"fx55_fx65_no_increment", q.Fx55Fx65NoIncrement},
		{"8xy6_8xye_shift_vx", q.ShiftVx},
		{"dxy0_16x16_highres", q.Dxy016x16HighRes},
		{"dxy0_16x16_lowres", q.Dxy016x16LowRes},
		{"dxy0_8x16_lowres", q.Dxy08x16LowRes},
		{"fx29_digits_highres", q.Fx29DigitsHighRes},
		{"dxyn_count_collisions_highres", q.DxynCountCollisionsHighRes},
		{"dxyn_no_wrapping", q.DxynNoWrapping},
		{"fx55_fx65_use_rd0", q.Fx55Fx65UseRD0},
		{"bnnn_use_rd0", q.BnnnUseRD0},
		{"fx75_fx85_allow_all", q.Fx75Fx85AllowAll},
		{"00fe_00ff_clear_screen", q.ClearOnResolutionChange},
		{"fx1e_set_vf", q.Fx1ESetVF},
		{"fx1e_overflow_at_memory_size", q.Fx1EOverflowAtMemorySize},
		{"00fe_00ff_clear_all_planes", q.ClearAllPlanes},
		{"lowres_double_scroll", q.LowResDoubleScroll},
		{"fx30_allow_hex", q.Fx30AllowHex},
	}
}

// Enabled returns the names of all enabled extensions.
func (s InstructionSet) Enabled() []string {
	return enabled(s.fields())
}

// Enabled returns the names of all enabled quirks.
func (q Quirks) Enabled() []string {
	return enabled(q.fields())
}

func enabled(fields []field) []string {
	var names []string
	for _, f := range fields {
		if f.enabled {
			names = append(names, f.name)
		}
	}
	return names
}

// Dump writes a diagnostic table of all instruction set and quirk flags.
func Dump(w io.Writer, s InstructionSet, q Quirks) error {
	sections := []struct {
		title  string
		fields []field
	}{
		{"instruction set", s.fields()},
		{"quirks", q.fields()},
	}

	width := 0
	for _, section := range sections {
		for _, f := range section.fields {
			width = max(width, len(f.name))
		}
	}

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s:\n", section.title)
		for _, f := range section.fields {
			fmt.Fprintf(&b, "  %-*s %t\n", width, f.name, f.enabled)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing capability dump: %w", err)
	}
	return nil
}
