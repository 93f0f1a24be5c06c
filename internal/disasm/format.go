package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// formatInstruction formats the parameters of a standard CHIP-8
// instruction. It returns false for instructions without a known format.
func formatInstruction(name string, opcode uint16) (string, bool) {
	switch name {
	case chip8.ClsName, chip8.RetName:
		return "", true // No parameters
	case chip8.JpName:
		return formatJumpInstruction(opcode)
	case chip8.CallName:
		return fmt.Sprintf("$%03X", opcode&0x0FFF), true
	case chip8.SeName, chip8.SneName:
		return formatCompareInstruction(opcode)
	case chip8.LdName:
		return formatLoadInstruction(opcode)
	case chip8.AddName:
		return formatAddInstruction(opcode)
	case chip8.OrName, chip8.AndName, chip8.XorName, chip8.SubName, chip8.SubnName:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode)), true
	case chip8.ShrName, chip8.ShlName, chip8.SkpName, chip8.SknpName:
		return fmt.Sprintf("V%X", registerX(opcode)), true
	case chip8.RndName:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF), true
	case chip8.DrwName:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F), true
	}
	return "", false
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) (string, bool) {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF), true
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF), true
	}
	return "", false
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) (string, bool) {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode)), true
	}
	return "", false
}

// formatLoadInstruction formats the load instruction forms.
func formatLoadInstruction(opcode uint16) (string, bool) {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode)), true
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF), true
	case 0xF000:
		return formatTimerLoadInstruction(opcode)
	}
	return "", false
}

// timerLoadFormats maps the low byte of Fxnn load instructions to their
// parameter format.
var timerLoadFormats = map[uint16]string{
	0x07: "V%X, DT",
	0x0A: "V%X, K",
	0x15: "DT, V%X",
	0x18: "ST, V%X",
	0x29: "F, V%X",
	0x33: "B, V%X",
	0x55: "[I], V%X",
	0x65: "V%X, [I]",
}

func formatTimerLoadInstruction(opcode uint16) (string, bool) {
	format, ok := timerLoadFormats[opcode&0x00FF]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(format, registerX(opcode)), true
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) (string, bool) {
	x := registerX(opcode)
	switch {
	case opcode&0xF000 == 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF), true
	case opcode&0xF000 == 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode)), true
	case opcode&0xF0FF == 0xF01E:
		return fmt.Sprintf("I, V%X", x), true
	}
	return "", false
}

// formatExtension formats opcodes of the SUPER-CHIP and XO-CHIP extensions
// that are not part of the standard instruction table.
func formatExtension(opcode uint16) (string, bool) {
	x := registerX(opcode)
	switch {
	case opcode == 0x00FB:
		return "scr", true
	case opcode == 0x00FC:
		return "scl", true
	case opcode == 0x00FD:
		return "exit", true
	case opcode == 0x00FE:
		return "low", true
	case opcode == 0x00FF:
		return "high", true
	case opcode&0xFFF0 == 0x00C0:
		return fmt.Sprintf("scd $%X", opcode&0x000F), true
	case opcode&0xFFF0 == 0x00D0:
		return fmt.Sprintf("scu $%X", opcode&0x000F), true
	case opcode == 0xF000:
		return "ld I, long", true
	case opcode == 0xF002:
		return "audio", true
	case opcode&0xF00F == 0x5002:
		return fmt.Sprintf("save V%X - V%X", x, registerY(opcode)), true
	case opcode&0xF00F == 0x5003:
		return fmt.Sprintf("load V%X - V%X", x, registerY(opcode)), true
	}

	switch opcode & 0xF0FF {
	case 0xF001:
		return fmt.Sprintf("plane $%X", x), true
	case 0xF030:
		return fmt.Sprintf("ld HF, V%X", x), true
	case 0xF03A:
		return fmt.Sprintf("pitch V%X", x), true
	case 0xF075:
		return fmt.Sprintf("ld R, V%X", x), true
	case 0xF085:
		return fmt.Sprintf("ld V%X, R", x), true
	}
	return "", false
}

// registerX extracts the X register nibble from a CHIP-8 opcode.
func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// registerY extracts the Y register nibble from a CHIP-8 opcode.
func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
