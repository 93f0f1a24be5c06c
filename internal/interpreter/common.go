package interpreter

import (
	"fmt"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/hardware"
)

// executeCommon executes the opcodes that all dialects share. It is the
// last table that is consulted, every opcode that it does not know is a
// decode error.
func (i *Interpreter) executeCommon(f frontend.Frontend, op opcode) (bool, error) {
	hw := i.hw
	switch op.class {
	case 0x0:
		return i.executeSystem(f, op)

	case 0x1: // 1nnn - jump to nnn
		hw.PC = op.nnn

	case 0x2: // 2nnn - call subroutine at nnn
		hw.Push(hw.PC)
		hw.PC = op.nnn

	case 0x3: // 3xnn - skip if Vx == nn
		i.skipIf(hw.V[op.x] == op.nn)

	case 0x4: // 4xnn - skip if Vx != nn
		i.skipIf(hw.V[op.x] != op.nn)

	case 0x5: // 5xy0 - skip if Vx == Vy
		if op.n != 0 {
			return false, nil
		}
		i.skipIf(hw.V[op.x] == hw.V[op.y])

	case 0x6: // 6xnn - Vx = nn
		hw.V[op.x] = op.nn

	case 0x7: // 7xnn - Vx += nn
		hw.V[op.x] += op.nn

	case 0x8:
		return i.executeArithmetic(op)

	case 0x9: // 9xy0 - skip if Vx != Vy
		if op.n != 0 {
			return false, nil
		}
		i.skipIf(hw.V[op.x] != hw.V[op.y])

	case 0xa: // annn - I = nnn
		hw.I = op.nnn

	case 0xb:
		return true, i.jumpWithOffset(op)

	case 0xc: // cxnn - Vx = random & nn
		hw.V[op.x] = uint8(i.rng.IntN(256)) & op.nn

	case 0xd: // dxyn - draw sprite
		return true, i.draw(f, op)

	case 0xe:
		switch op.nn {
		case 0x9e: // ex9e - skip if key Vx is pressed
			i.skipIf(hw.Key(0, hw.V[op.x]))
		case 0xa1: // exa1 - skip if key Vx is not pressed
			i.skipIf(!hw.Key(0, hw.V[op.x]))
		default:
			return false, nil
		}

	case 0xf:
		return i.executeMisc(f, op)
	}
	return true, nil
}

func (i *Interpreter) executeSystem(f frontend.Frontend, op opcode) (bool, error) {
	switch op.raw {
	case 0x00e0: // 00e0 - clear the active planes
		i.hw.ClearPlanes(i.hw.PlaneMask, f)

	case 0x00ee: // 00ee - return from subroutine
		address, err := i.hw.Pop()
		if err != nil {
			return false, fmt.Errorf("returning from subroutine: %w", err)
		}
		i.hw.PC = address

	default: // 0nnn - call machine language routine
		return false, fmt.Errorf("%w: machine language routine at %03X", ErrUnimplemented, op.nnn)
	}
	return true, nil
}

// executeArithmetic executes the 8xyn opcodes. The flag is computed from
// the operands before the destination is written and VF is written last.
func (i *Interpreter) executeArithmetic(op opcode) (bool, error) {
	v := &i.hw.V
	vx, vy := v[op.x], v[op.y]

	switch op.n {
	case 0x0: // 8xy0 - Vx = Vy
		v[op.x] = vy
	case 0x1: // 8xy1 - Vx |= Vy
		v[op.x] = vx | vy
	case 0x2: // 8xy2 - Vx &= Vy
		v[op.x] = vx & vy
	case 0x3: // 8xy3 - Vx ^= Vy
		v[op.x] = vx ^ vy

	case 0x4: // 8xy4 - Vx += Vy, VF = carry
		carry := boolToFlag(uint16(vx)+uint16(vy) > 0xff)
		v[op.x] = vx + vy
		v[0xf] = carry

	case 0x5: // 8xy5 - Vx -= Vy, VF = not borrow
		notBorrow := boolToFlag(vx >= vy)
		v[op.x] = vx - vy
		v[0xf] = notBorrow

	case 0x6: // 8xy6 - Vx = Vy >> 1, VF = shifted out bit
		source := vy
		if i.quirks.ShiftVx {
			source = vx
		}
		v[op.x] = source >> 1
		v[0xf] = source & 1

	case 0x7: // 8xy7 - Vx = Vy - Vx, VF = not borrow
		notBorrow := boolToFlag(vy >= vx)
		v[op.x] = vy - vx
		v[0xf] = notBorrow

	case 0xe: // 8xye - Vx = Vy << 1, VF = shifted out bit
		source := vy
		if i.quirks.ShiftVx {
			source = vx
		}
		v[op.x] = source << 1
		v[0xf] = source >> 7

	default:
		return false, nil
	}
	return true, nil
}

// jumpWithOffset executes bnnn, the offset register is selected by quirks.
func (i *Interpreter) jumpWithOffset(op opcode) error {
	hw := i.hw
	switch {
	case i.quirks.BnnnBxnnUseVx: // bxnn - jump to xnn + Vx
		hw.PC = op.nnn + uint16(hw.V[op.x])

	case i.quirks.BnnnUseRD0: // bnnn - jump to nnn + V(RD.0)
		offset, err := hw.Register(int(hw.RD0))
		if err != nil {
			return fmt.Errorf("reading RD.0 register: %w", err)
		}
		hw.PC = op.nnn + uint16(offset)

	default: // bnnn - jump to nnn + V0
		hw.PC = op.nnn + uint16(hw.V[0])
	}
	return nil
}

func (i *Interpreter) executeMisc(f frontend.Frontend, op opcode) (bool, error) {
	hw := i.hw
	switch op.nn {
	case 0x07: // fx07 - Vx = delay timer
		hw.V[op.x] = hw.DelayTimer

	case 0x0a: // fx0a - wait for a key press, Vx = key
		i.state = WaitingForKey
		i.waitRegister = op.x

	case 0x15: // fx15 - delay timer = Vx
		hw.DelayTimer = hw.V[op.x]

	case 0x18: // fx18 - sound timer = Vx
		hw.SoundTimer = hw.V[op.x]
		switch {
		case hw.SoundTimer > 1:
			f.SetAudioState(true)
		case hw.SoundTimer == 0:
			f.SetAudioState(false)
		}

	case 0x1e: // fx1e - I += Vx
		i.addToIndex(hw.V[op.x])

	case 0x29: // fx29 - I = address of the small glyph of digit Vx
		return true, i.loadGlyphAddress(hw.V[op.x])

	case 0x33: // fx33 - store BCD of Vx at I
		return true, i.storeBCD(hw.V[op.x])

	case 0x55: // fx55 - store V0 to Vx at I
		first := 0
		if i.quirks.Fx55Fx65UseRD0 {
			first = int(hw.RD0)
		}
		return true, i.storeRegisters(first, op.x)

	case 0x65: // fx65 - load V0 to Vx from I
		first := 0
		if i.quirks.Fx55Fx65UseRD0 {
			first = int(hw.RD0)
		}
		return true, i.loadRegisters(first, op.x)

	default:
		return false, nil
	}
	return true, nil
}

// addToIndex adds the value to I. I overflows at 0x10000 or, with a quirk,
// at the memory size, another quirk reports the overflow in VF.
func (i *Interpreter) addToIndex(value uint8) {
	hw := i.hw
	limit := 0x10000
	if i.quirks.Fx1EOverflowAtMemorySize {
		limit = len(hw.Memory)
	}

	sum := int(hw.I) + int(value)
	overflow := sum >= limit
	hw.I = uint16(sum % limit)
	if i.quirks.Fx1ESetVF {
		hw.V[0xf] = boolToFlag(overflow)
	}
}

func (i *Interpreter) loadGlyphAddress(digit uint8) error {
	switch {
	case digit < 0x10:
		i.hw.I = hardware.SmallFontAddress + uint16(digit)*hardware.SmallFontHeight
	case i.quirks.Fx29DigitsHighRes && digit <= 0x19:
		i.hw.I = hardware.LargeFontAddress + uint16(digit&0xf)*hardware.LargeFontHeight
	default:
		return fmt.Errorf("%w: no glyph for digit %02X", ErrInvalidOperand, digit)
	}
	return nil
}

func (i *Interpreter) storeBCD(value uint8) error {
	digits := [3]uint8{value / 100, value / 10 % 10, value % 10}
	for j, digit := range digits {
		if err := i.hw.WriteMemory(int(i.hw.I)+j, digit); err != nil {
			return fmt.Errorf("storing BCD: %w", err)
		}
	}
	return nil
}

// registerRange returns the register indexes from first to last, in
// descending order if first is larger than last.
func registerRange(first, last int) []int {
	step := 1
	if first > last {
		step = -1
	}
	indexes := make([]int, 0, max(first-last, last-first)+1)
	for r := first; ; r += step {
		indexes = append(indexes, r)
		if r == last {
			return indexes
		}
	}
}

// storeRegisters copies the registers first to last to memory starting at I
// and adjusts I. A first register above the last one transfers nothing.
func (i *Interpreter) storeRegisters(first, last int) error {
	if first > last {
		return nil
	}
	if err := i.transferToMemory(registerRange(first, last)); err != nil {
		return err
	}
	i.adjustIndex(last - first + 1)
	return nil
}

// loadRegisters copies memory starting at I to the registers first to last
// and adjusts I.
func (i *Interpreter) loadRegisters(first, last int) error {
	if first > last {
		return nil
	}
	if err := i.transferFromMemory(registerRange(first, last)); err != nil {
		return err
	}
	i.adjustIndex(last - first + 1)
	return nil
}

func (i *Interpreter) transferToMemory(registers []int) error {
	for offset, r := range registers {
		value, err := i.hw.Register(r)
		if err != nil {
			return fmt.Errorf("storing registers: %w", err)
		}
		if err := i.hw.WriteMemory(int(i.hw.I)+offset, value); err != nil {
			return fmt.Errorf("storing registers: %w", err)
		}
	}
	return nil
}

func (i *Interpreter) transferFromMemory(registers []int) error {
	for offset, r := range registers {
		value, err := i.hw.ReadMemory(int(i.hw.I) + offset)
		if err != nil {
			return fmt.Errorf("loading registers: %w", err)
		}
		if err := i.hw.SetRegister(r, value); err != nil {
			return fmt.Errorf("loading registers: %w", err)
		}
	}
	return nil
}

// adjustIndex advances I after a transfer of count registers.
func (i *Interpreter) adjustIndex(count int) {
	switch {
	case i.quirks.Fx55Fx65NoIncrement:
	case i.quirks.Fx55Fx65IncrementLess:
		i.hw.I += uint16(count - 1)
	default:
		i.hw.I += uint16(count)
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
