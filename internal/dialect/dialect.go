// Package dialect contains the presets of the supported CHIP-8 dialects.
// A dialect combines an instruction set, a set of quirks and the hardware
// parameters of one historical interpreter.
package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/retroenv/chip8/internal/capability"
	"github.com/retroenv/chip8/internal/hardware"
	"github.com/retroenv/chip8/internal/palette"
)

// ErrUnknown is returned for an unsupported dialect name.
var ErrUnknown = errors.New("unknown dialect")

// Dialect describes one CHIP-8 variant.
type Dialect struct {
	Name           string
	Description    string
	InstructionSet capability.InstructionSet
	Quirks         capability.Quirks
	Hardware       hardware.Config
	Palette        palette.Kind
}

// Validate checks the dialect for conflicting settings.
func (d Dialect) Validate() error {
	if err := d.InstructionSet.Validate(); err != nil {
		return fmt.Errorf("dialect %s: %w", d.Name, err)
	}
	if err := d.Quirks.Validate(); err != nil {
		return fmt.Errorf("dialect %s: %w", d.Name, err)
	}
	if err := d.Hardware.Validate(); err != nil {
		return fmt.Errorf("dialect %s: %w", d.Name, err)
	}
	return nil
}

// Default is the name of the dialect that is used when none is selected.
const Default = "chip8"

var (
	lowRes = hardware.Config{
		MemorySize:   4096,
		Width:        64,
		Height:       32,
		Planes:       1,
		ProgramStart: hardware.DefaultProgramStart,
	}
	chip10Screen = hardware.Config{
		MemorySize:   4096,
		Width:        128,
		Height:       64,
		Planes:       1,
		ProgramStart: hardware.DefaultProgramStart,
	}
	superChipScreen = hardware.Config{
		MemorySize:   4096,
		Width:        128,
		Height:       64,
		Planes:       1,
		AllowHighRes: true,
		ProgramStart: hardware.DefaultProgramStart,
	}
	xoChipScreen = hardware.Config{
		MemorySize:   0x10000,
		Width:        128,
		Height:       64,
		Planes:       2,
		AllowHighRes: true,
		ProgramStart: hardware.DefaultProgramStart,
	}
)

var (
	chip48Quirks = capability.Quirks{
		BnnnBxnnUseVx:         true,
		Fx55Fx65IncrementLess: true,
		ShiftVx:               true,
		DxynNoWrapping:        true,
	}
	schip10Quirks = capability.Quirks{
		BnnnBxnnUseVx:         true,
		Fx55Fx65IncrementLess: true,
		ShiftVx:               true,
		Dxy016x16HighRes:      true,
		Dxy08x16LowRes:        true,
		Fx29DigitsHighRes:     true,
		DxynNoWrapping:        true,
	}
	schip11Quirks = capability.Quirks{
		BnnnBxnnUseVx:              true,
		Fx55Fx65NoIncrement:        true,
		ShiftVx:                    true,
		Dxy016x16HighRes:           true,
		Dxy08x16LowRes:             true,
		DxynCountCollisionsHighRes: true,
		DxynNoWrapping:             true,
	}
	xoChipQuirks = capability.Quirks{
		Dxy016x16HighRes:        true,
		Dxy016x16LowRes:         true,
		Fx75Fx85AllowAll:        true,
		ClearOnResolutionChange: true,
		ClearAllPlanes:          true,
	}

	superChip = capability.InstructionSet{SuperChip10: true, SuperChip11: true}
	schpc     = capability.InstructionSet{SuperChip10: true, SuperChip11: true, ScrollUp00BN: true}
	xoChip    = capability.InstructionSet{SuperChip10: true, SuperChip11: true, XOChip: true}
)

var presets = map[string]Dialect{
	"chip8": {
		Description: "original CHIP-8 of the COSMAC VIP",
		Hardware:    lowRes,
	},
	"chip10": {
		Description: "CHIP-10 with a 128x64 screen",
		Hardware:    chip10Screen,
	},
	"chip8e": {
		Description:    "CHIP-8E with additional control and transfer opcodes",
		InstructionSet: capability.InstructionSet{Chip8E: true},
		Hardware:       lowRes,
	},
	"chip48": {
		Description: "CHIP-48 of the HP-48 calculators",
		Quirks:      chip48Quirks,
		Hardware:    lowRes,
	},
	"chip8fxf2": {
		Description:    "CHIP-8 with the FxF2 RD.0 register for fx55/fx65 and bnnn",
		InstructionSet: capability.InstructionSet{SetRD0FXF2: true},
		Quirks:         capability.Quirks{Fx55Fx65UseRD0: true, BnnnUseRD0: true},
		Hardware:       lowRes,
	},
	"chip8fxf2fx55fx65": {
		Description:    "CHIP-8 with the FxF2 RD.0 register for fx55/fx65",
		InstructionSet: capability.InstructionSet{SetRD0FXF2: true},
		Quirks:         capability.Quirks{Fx55Fx65UseRD0: true},
		Hardware:       lowRes,
	},
	"chip8fxf2bnnn": {
		Description:    "CHIP-8 with the FxF2 RD.0 register for bnnn",
		InstructionSet: capability.InstructionSet{SetRD0FXF2: true},
		Quirks:         capability.Quirks{BnnnUseRD0: true},
		Hardware:       lowRes,
	},
	"schip10": {
		Description:    "SUPER-CHIP 1.0",
		InstructionSet: capability.InstructionSet{SuperChip10: true},
		Quirks:         schip10Quirks,
		Hardware:       superChipScreen,
	},
	"schip11": {
		Description:    "SUPER-CHIP 1.1",
		InstructionSet: superChip,
		Quirks:         schip11Quirks,
		Hardware:       superChipScreen,
	},
	"schip11scu": {
		Description:    "SUPER-CHIP 1.1 with fx1e overflow detection",
		InstructionSet: superChip,
		Quirks:         withFx1E(schip11Quirks),
		Hardware:       superChipScreen,
	},
	"schpc": {
		Description:    "SUPER-CHIP compatibility interpreter for the PC",
		InstructionSet: schpc,
		Quirks:         capability.Quirks{Dxy016x16HighRes: true},
		Hardware:       superChipScreen,
	},
	"schpcfx1e": {
		Description:    "SUPER-CHIP compatibility interpreter for the PC with fx1e overflow detection",
		InstructionSet: schpc,
		Quirks:         withFx1E(capability.Quirks{Dxy016x16HighRes: true}),
		Hardware:       superChipScreen,
	},
	"chip8x": {
		Description:    "CHIP-8X with colour and a second keypad",
		InstructionSet: capability.InstructionSet{Chip8X: true},
		Hardware:       chip8xScreen(),
		Palette:        palette.KindCHIP8X,
	},
	"xochip": {
		Description:    "XO-CHIP with two planes, 64 KiB memory and audio patterns",
		InstructionSet: xoChip,
		Quirks:         xoChipQuirks,
		Hardware:       xoChipScreen,
		Palette:        palette.KindXOChip,
	},
	"octo": {
		Description:    "XO-CHIP as implemented by Octo",
		InstructionSet: xoChip,
		Quirks:         octoQuirks(),
		Hardware:       withLargeHexFont(xoChipScreen),
		Palette:        palette.KindXOChip,
	},
	"chip8run": {
		Description:    "chip8run with SUPER-CHIP resolution switching",
		InstructionSet: capability.InstructionSet{Chip8Run: true, Stop0000: true},
		Quirks: capability.Quirks{
			ShiftVx:          true,
			Dxy016x16HighRes: true,
			DxynNoWrapping:   true,
		},
		Hardware: superChipScreen,
	},
}

func withFx1E(q capability.Quirks) capability.Quirks {
	q.Fx1ESetVF = true
	q.Fx1EOverflowAtMemorySize = true
	return q
}

func octoQuirks() capability.Quirks {
	q := xoChipQuirks
	q.LowResDoubleScroll = true
	q.Fx30AllowHex = true
	return q
}

func withLargeHexFont(c hardware.Config) hardware.Config {
	c.LargeHexFont = true
	return c
}

func chip8xScreen() hardware.Config {
	c := lowRes
	c.ProgramStart = 0x300
	return c
}

// Lookup returns the dialect with the given name, the name is case
// insensitive.
func Lookup(name string) (Dialect, error) {
	name = strings.ToLower(name)
	d, ok := presets[name]
	if !ok {
		return Dialect{}, fmt.Errorf("%w '%s', supported dialects: %s",
			ErrUnknown, name, strings.Join(Names(), ", "))
	}
	d.Name = name
	return d, nil
}

// Names returns the sorted names of all dialects.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all dialects sorted by name.
func All() []Dialect {
	dialects := make([]Dialect, 0, len(presets))
	for _, name := range Names() {
		d, _ := Lookup(name)
		dialects = append(dialects, d)
	}
	return dialects
}
