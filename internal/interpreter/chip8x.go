package interpreter

import (
	"fmt"

	"github.com/retroenv/chip8/internal/frontend"
)

// CHIP-8X colour zones are 8 pixels wide and 4 pixels high.
const (
	colorZoneWidth  = 8
	colorZoneHeight = 4
)

// chip8xToneBase is the frequency divided by Vx+1 for fxf8.
const chip8xToneBase = 27535.0

// executeChip8X executes the CHIP-8X opcodes.
func (i *Interpreter) executeChip8X(f frontend.Frontend, op opcode) (bool, error) {
	hw := i.hw
	switch {
	case op.raw == 0x02a0: // 02a0 - cycle the background colour
		hw.SetBackgroundColor(hw.BackgroundColor()+1, f)

	case op.class == 0x5 && op.n == 0x1: // 5xy1 - add Vy to Vx per 3 bit nibble
		vx, vy := hw.V[op.x], hw.V[op.y]
		high := (vx>>4 + vy>>4) & 7
		low := (vx&0xf + vy&0xf) & 7
		hw.V[op.x] = high<<4 | low

	case op.class == 0xb:
		return true, i.setColorZone(f, op)

	case op.class == 0xe && op.nn == 0xf2: // exf2 - skip if key Vx of keypad 2 is pressed
		i.skipIf(hw.Key(1, hw.V[op.x]))

	case op.class == 0xe && op.nn == 0xf5: // exf5 - skip if key Vx of keypad 2 is not pressed
		i.skipIf(!hw.Key(1, hw.V[op.x]))

	case op.class == 0xf && op.nn == 0xf8: // fxf8 - set the tone frequency from Vx
		f.SetAudioFrequency(chip8xToneBase / float64(int(hw.V[op.x])+1))

	case op.class == 0xf && op.nn == 0xfb: // fxfb - wait for input port and read Vx
		return false, fmt.Errorf("%w: input port", ErrUnimplemented)

	default:
		return false, nil
	}
	return true, nil
}

// setColorZone executes bxy0 and bxyn. bxy0 colours a rectangle of colour
// zones: the low nibble of Vx is the first zone column and its high nibble
// the number of additional columns, V(x+1) selects the rows the same way.
// bxyn colours n pixel rows of the 8 pixel wide column at (Vx, V(x+1)).
// The colour is the low 3 bits of Vy.
func (i *Interpreter) setColorZone(f frontend.Frontend, op opcode) error {
	hw := i.hw
	vx := hw.V[op.x]
	vx1, err := hw.Register(op.x + 1)
	if err != nil {
		return fmt.Errorf("reading colour zone row: %w", err)
	}
	color := hw.V[op.y] & 7

	var left, top, right, bottom int
	if op.n == 0 {
		left = int(vx&0xf) * colorZoneWidth
		right = left + (int(vx>>4)+1)*colorZoneWidth
		top = int(vx1&0xf) * colorZoneHeight
		bottom = top + (int(vx1>>4)+1)*colorZoneHeight
	} else {
		left = int(vx) &^ (colorZoneWidth - 1)
		right = left + colorZoneWidth
		top = int(vx1)
		bottom = top + int(op.n)
	}

	right = min(right, hw.Width())
	bottom = min(bottom, hw.Height())
	for y := top; y < bottom; y++ {
		for x := left; x < right; x++ {
			hw.SetForegroundColor(x, y, color, f)
		}
	}
	return nil
}
