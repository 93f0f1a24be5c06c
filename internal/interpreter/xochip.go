package interpreter

import (
	"fmt"
	"math"

	"github.com/retroenv/chip8/internal/frontend"
)

// XO-CHIP pitch parameters for fx3a.
const (
	pitchBaseFrequency  = 4000.0
	pitchCenter         = 64
	pitchStepsPerOctave = 48.0
)

// executeXOChip executes the XO-CHIP opcodes.
func (i *Interpreter) executeXOChip(f frontend.Frontend, op opcode) (bool, error) {
	hw := i.hw
	switch {
	case op.raw&0xfff0 == 0x00d0: // 00dn - scroll up n pixels
		i.scroll(f, 0, -int(op.n))

	case op.class == 0x5 && op.n == 0x2: // 5xy2 - store Vx to Vy at I
		return true, i.storeRegisterRange(op.x, op.y)

	case op.class == 0x5 && op.n == 0x3: // 5xy3 - load Vx to Vy from I
		return true, i.loadRegisterRange(op.x, op.y)

	case op.raw == 0xf000: // f000 nnnn - I = nnnn
		address, err := hw.ReadWord(int(hw.PC))
		if err != nil {
			return false, fmt.Errorf("reading long address: %w", err)
		}
		hw.I = address
		hw.PC += 2

	case op.class == 0xf && op.nn == 0x01: // fn01 - select the planes n
		hw.PlaneMask = uint8(op.x) & (1<<hw.Planes() - 1)

	case op.raw == 0xf002: // f002 - load the audio pattern from I
		return true, i.loadAudioPattern(f)

	case op.class == 0xf && op.nn == 0x3a: // fx3a - set the pattern pitch to Vx
		f.SetAudioFrequency(pitchFrequency(hw.V[op.x]))

	default:
		return false, nil
	}
	return true, nil
}

// storeRegisterRange stores the registers x to y, which can be descending,
// to memory at I and adjusts I like fx55.
func (i *Interpreter) storeRegisterRange(x, y int) error {
	registers := registerRange(x, y)
	if err := i.transferToMemory(registers); err != nil {
		return err
	}
	i.adjustIndex(len(registers))
	return nil
}

// loadRegisterRange loads the registers x to y, which can be descending,
// from memory at I and adjusts I like fx65.
func (i *Interpreter) loadRegisterRange(x, y int) error {
	registers := registerRange(x, y)
	if err := i.transferFromMemory(registers); err != nil {
		return err
	}
	i.adjustIndex(len(registers))
	return nil
}

func (i *Interpreter) loadAudioPattern(f frontend.Frontend) error {
	for j := range frontend.AudioPatternSize {
		value, err := i.hw.ReadMemory(int(i.hw.I) + j)
		if err != nil {
			return fmt.Errorf("loading audio pattern: %w", err)
		}
		f.SetAudioPattern(j, value)
	}
	return nil
}

// pitchFrequency returns the audio pattern playback rate for the pitch.
func pitchFrequency(pitch uint8) float64 {
	return pitchBaseFrequency * math.Pow(2, (float64(pitch)-pitchCenter)/pitchStepsPerOctave)
}
