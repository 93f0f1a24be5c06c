// Package disasm converts CHIP-8 opcodes to assembly text. It is used for
// program listings and the execution trace of the interpreter.
//
// Standard opcodes are identified using the CHIP-8 instruction table of
// retrogolib, opcodes of the SUPER-CHIP and XO-CHIP extensions are
// formatted by this package.
package disasm

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Instruction returns the assembly text of the opcode. Unknown opcodes are
// returned as a data word.
func Instruction(opcode uint16) string {
	if code, ok := formatExtension(opcode); ok {
		return code
	}

	ins := lookup(opcode)
	if ins == nil {
		return dataWord(opcode)
	}

	params, ok := formatInstruction(ins.Name, opcode)
	if !ok {
		return dataWord(opcode)
	}
	if params == "" {
		return ins.Name
	}
	return fmt.Sprintf("%s %s", ins.Name, params)
}

// lookup returns the instruction of the retrogolib opcode table that
// matches the opcode.
func lookup(opcode uint16) *chip8.Instruction {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

func dataWord(opcode uint16) string {
	return fmt.Sprintf("dw $%04X", opcode)
}

// Listing writes the disassembly of the memory range from start to end,
// one opcode per line prefixed by its address and bytes.
func Listing(w io.Writer, memory []byte, start, end int) error {
	end = min(end, len(memory))
	for address := start; address < end; address += opcodeSize {
		var line string
		if address+1 >= end {
			line = fmt.Sprintf("%04X  %02X       db $%02X\n", address, memory[address], memory[address])
		} else {
			opcode := uint16(memory[address])<<8 | uint16(memory[address+1])
			line = fmt.Sprintf("%04X  %02X %02X    %s\n", address, memory[address], memory[address+1], Instruction(opcode))
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing listing line: %w", err)
		}
	}
	return nil
}
