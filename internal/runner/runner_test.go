package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/chip8/internal/dialect"
	"github.com/retroenv/chip8/internal/frontend/headless"
	"github.com/retroenv/chip8/internal/hardware"
	"github.com/retroenv/chip8/internal/interpreter"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestRunner(t *testing.T, mode string, opts Options, program ...byte) (*Runner, *interpreter.Interpreter, *headless.Headless) {
	t.Helper()

	d, err := dialect.Lookup(mode)
	assert.NoError(t, err)
	pal, err := palette.New(d.Palette)
	assert.NoError(t, err)
	hw, err := hardware.New(d.Hardware, pal)
	assert.NoError(t, err)
	hw.Load(program)

	interp, err := interpreter.New(hw, d.InstructionSet, d.Quirks, interpreter.WithSeed(1))
	assert.NoError(t, err)

	device := headless.New(d.Hardware.Width, d.Hardware.Height)
	return New(log.NewTestLogger(t), interp, device, opts), interp, device
}

func TestRunHalts(t *testing.T) {
	r, interp, device := newTestRunner(t, "schip11", Options{},
		0x61, 0x42, // V1 = 0x42
		0x00, 0xfd, // exit
	)

	result, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), result.Cycles)
	assert.Equal(t, 2, result.Addresses)
	assert.Equal(t, uint8(0x42), interp.Hardware().V[1])
	assert.Equal(t, interpreter.Halted, interp.State())
	assert.True(t, device.Refreshes() > 0)
}

func TestRunCycleLimit(t *testing.T) {
	r, _, _ := newTestRunner(t, "chip8", Options{MaxCycles: 100},
		0x12, 0x00, // jump to itself
	)

	result, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), result.Cycles)
	assert.Equal(t, 1, result.Addresses)
}

func TestRunError(t *testing.T) {
	r, _, _ := newTestRunner(t, "chip8", Options{},
		0x01, 0x23, // machine language routine
	)

	result, err := r.Run(context.Background())
	assert.True(t, errors.Is(err, interpreter.ErrUnimplemented))
	assert.Equal(t, uint64(1), result.Cycles)
}

func TestRunQuit(t *testing.T) {
	r, _, device := newTestRunner(t, "chip8", Options{}, 0x12, 0x00)
	device.Quit()

	result, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), result.Cycles)
}

func TestRunCancelled(t *testing.T) {
	r, _, _ := newTestRunner(t, "chip8", Options{Frequency: DefaultFrequency}, 0x12, 0x00)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunPassesKeys(t *testing.T) {
	r, interp, device := newTestRunner(t, "chip8", Options{MaxCycles: 10},
		0xf3, 0x0a, // V3 = key
		0x12, 0x02, // loop
	)
	device.SetKey(1, 7, true)

	_, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint8(7), interp.Hardware().V[3])
}

func TestRunThrottled(t *testing.T) {
	r, _, device := newTestRunner(t, "chip8", Options{Frequency: 10000, MaxCycles: 20}, 0x12, 0x00)

	result, err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(20), result.Cycles)
	assert.True(t, device.Refreshes() >= 1)
}
