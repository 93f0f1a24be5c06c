package interpreter

import (
	"fmt"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/hardware"
)

// executeChip8E executes the CHIP-8E opcodes.
func (i *Interpreter) executeChip8E(_ frontend.Frontend, op opcode) (bool, error) {
	hw := i.hw
	switch op.raw {
	case 0x00ed: // 00ed - stop execution
		i.halt()
		return true, nil
	case 0x00f2: // 00f2 - no operation
		return true, nil
	case 0x0151: // 0151 - wait until the delay timer reaches 0
		i.state = WaitingForTimer
		return true, nil
	case 0x0188: // 0188 - skip the next instruction
		i.skip = true
		return true, nil
	}

	switch op.class {
	case 0x5:
		switch op.n {
		case 0x1: // 5xy1 - skip if Vx > Vy
			i.skipIf(hw.V[op.x] > hw.V[op.y])
			return true, nil
		case 0x2: // 5xy2 - store Vx to Vy at I, I is advanced
			if op.x > op.y {
				return true, nil
			}
			registers := registerRange(op.x, op.y)
			if err := i.transferToMemory(registers); err != nil {
				return false, err
			}
			hw.I += uint16(len(registers))
			return true, nil
		case 0x3: // 5xy3 - load Vx to Vy from I, I is advanced
			if op.x > op.y {
				return true, nil
			}
			registers := registerRange(op.x, op.y)
			if err := i.transferFromMemory(registers); err != nil {
				return false, err
			}
			hw.I += uint16(len(registers))
			return true, nil
		}

	case 0xb:
		// relative jumps are based on the address of the jump itself
		current := hw.PC - 2
		switch op.x {
		case 0xb: // bbnn - jump back nn bytes
			hw.PC = current - uint16(op.nn)
			return true, nil
		case 0xf: // bfnn - jump forward nn bytes
			hw.PC = current + uint16(op.nn)
			return true, nil
		}

	case 0xf:
		switch op.nn {
		case 0x03: // fx03 - output Vx to port 3
			return false, fmt.Errorf("%w: output port", ErrUnimplemented)
		case 0x1b: // fx1b - skip Vx bytes
			hw.PC += uint16(hw.V[op.x])
			return true, nil
		case 0x4f: // fx4f - delay timer = Vx, wait until it reaches 0
			hw.DelayTimer = hw.V[op.x]
			i.state = WaitingForTimer
			return true, nil
		case 0xe3: // fxe3 - wait for strobe and read Vx from input port 3
			return false, fmt.Errorf("%w: input port strobe", ErrUnimplemented)
		case 0xe7: // fxe7 - read Vx from input port 3
			return false, fmt.Errorf("%w: input port", ErrUnimplemented)
		}
	}
	return false, nil
}

// executeSuperChip10 executes the SUPER-CHIP 1.0 opcodes.
func (i *Interpreter) executeSuperChip10(f frontend.Frontend, op opcode) (bool, error) {
	if handled := i.executeResolution(f, op); handled {
		return true, nil
	}
	if op.class != 0xf {
		return false, nil
	}

	switch op.nn {
	case 0x75: // fx75 - store V0 to Vx in the RPL flags
		if err := i.checkFlagRegister(op); err != nil {
			return false, err
		}
		copy(i.hw.Flags[:op.x+1], i.hw.V[:op.x+1])
		return true, nil

	case 0x85: // fx85 - load V0 to Vx from the RPL flags
		if err := i.checkFlagRegister(op); err != nil {
			return false, err
		}
		copy(i.hw.V[:op.x+1], i.hw.Flags[:op.x+1])
		return true, nil
	}
	return false, nil
}

// executeResolution executes the halt and resolution opcodes that
// SUPER-CHIP and chip8run share.
func (i *Interpreter) executeResolution(f frontend.Frontend, op opcode) bool {
	switch op.raw {
	case 0x00fd: // 00fd - stop execution
		i.halt()
	case 0x00fe: // 00fe - low resolution
		i.setResolution(f, false)
	case 0x00ff: // 00ff - high resolution
		i.setResolution(f, true)
	default:
		return false
	}
	return true
}

// checkFlagRegister returns an error if fx75/fx85 use more registers than
// the RPL flags of the dialect support.
func (i *Interpreter) checkFlagRegister(op opcode) error {
	if op.x > 7 && !i.quirks.Fx75Fx85AllowAll {
		return fmt.Errorf("%w: RPL flags support only V0 to V7, got V%X", ErrInvalidOperand, op.x)
	}
	return nil
}

// executeSuperChip11 executes the SUPER-CHIP 1.1 opcodes.
func (i *Interpreter) executeSuperChip11(f frontend.Frontend, op opcode) (bool, error) {
	switch {
	case op.raw&0xfff0 == 0x00c0: // 00cn - scroll down n pixels
		i.scroll(f, 0, int(op.n))
	case op.raw == 0x00fb: // 00fb - scroll right 4 pixels
		i.scroll(f, 4, 0)
	case op.raw == 0x00fc: // 00fc - scroll left 4 pixels
		i.scroll(f, -4, 0)
	case op.class == 0xf && op.nn == 0x30: // fx30 - I = address of the large glyph of digit Vx
		return true, i.loadLargeGlyphAddress(i.hw.V[op.x])
	default:
		return false, nil
	}
	return true, nil
}

func (i *Interpreter) loadLargeGlyphAddress(digit uint8) error {
	limit := uint8(10)
	if i.quirks.Fx30AllowHex {
		limit = 16
	}
	if digit >= limit {
		return fmt.Errorf("%w: no large glyph for digit %02X", ErrInvalidOperand, digit)
	}
	i.hw.I = hardware.LargeFontAddress + uint16(digit)*hardware.LargeFontHeight
	return nil
}

// executeScrollUp00BN executes 00bn, scroll up n pixels.
func (i *Interpreter) executeScrollUp00BN(f frontend.Frontend, op opcode) (bool, error) {
	if op.raw&0xfff0 != 0x00b0 {
		return false, nil
	}
	i.scroll(f, 0, -int(op.n))
	return true, nil
}

// executeSetRD0 executes fxf2, RD.0 = x.
func (i *Interpreter) executeSetRD0(_ frontend.Frontend, op opcode) (bool, error) {
	if op.class != 0xf || op.nn != 0xf2 {
		return false, nil
	}
	i.hw.RD0 = uint8(op.x)
	return true, nil
}

// executeStop0000 executes 0000, stop execution.
func (i *Interpreter) executeStop0000(_ frontend.Frontend, op opcode) (bool, error) {
	if op.raw != 0x0000 {
		return false, nil
	}
	i.halt()
	return true, nil
}

// executeChip8Run executes the chip8run halt and resolution opcodes.
func (i *Interpreter) executeChip8Run(f frontend.Frontend, op opcode) (bool, error) {
	return i.executeResolution(f, op), nil
}
