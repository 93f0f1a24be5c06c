package interpreter

import (
	"errors"
	"testing"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/retrogolib/assert"
)

func TestChip8ESkipGreater(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"), 0x6005, 0x6103, 0x5011, 0x6201, 0x6302)
	m.step(t, 4)
	assert.Equal(t, uint8(0), m.hw.V[2])
	assert.Equal(t, uint8(2), m.hw.V[3])

	// 5xy1 is not an opcode of the original CHIP-8
	m = newTestMachine(t, lookupDialect(t, "chip8"), 0x5011)
	_, err := m.Execute(m.f)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestChip8ERegisterRange(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"),
		0x6011, 0x6122, 0x6233, 0xa300, 0x5022, 0x5202,
		0x6000, 0x6100, 0x6200, 0xa300, 0x5023)

	m.step(t, 5)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, m.hw.Memory[0x300:0x303])
	assert.Equal(t, uint16(0x303), m.hw.I)

	// descending ranges are ignored
	m.step(t, 1)
	assert.Equal(t, uint16(0x303), m.hw.I)

	m.step(t, 5)
	assert.Equal(t, [3]uint8{0x11, 0x22, 0x33}, [3]uint8(m.hw.V[:3]))
	assert.Equal(t, uint16(0x303), m.hw.I)
}

func TestChip8ERelativeJumps(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"), 0xbf06, 0x6142, 0x0000, 0xbb04)
	m.step(t, 1)
	assert.Equal(t, uint16(0x206), m.hw.PC)

	m.step(t, 1)
	assert.Equal(t, uint16(0x202), m.hw.PC)

	m.step(t, 1)
	assert.Equal(t, uint8(0x42), m.hw.V[1])
}

func TestChip8ESkipBytes(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"), 0x6004, 0xf01b)
	m.step(t, 2)
	assert.Equal(t, uint16(0x208), m.hw.PC)

	m = newTestMachine(t, lookupDialect(t, "chip8e"), 0x0188, 0x6101, 0x6202)
	m.step(t, 2)
	assert.Equal(t, uint8(0), m.hw.V[1])
	assert.Equal(t, uint8(2), m.hw.V[2])
}

func TestChip8ETimerWait(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"), 0x6002, 0xf04f, 0x00f2, 0x6142)
	m.step(t, 2)
	assert.Equal(t, WaitingForTimer, m.State())
	assert.Equal(t, uint8(2), m.hw.DelayTimer)

	m.step(t, 3)
	assert.Equal(t, uint16(0x204), m.hw.PC)

	m.clock.Advance(TimerInterval)
	m.step(t, 1)
	assert.Equal(t, WaitingForTimer, m.State())

	m.clock.Advance(TimerInterval)
	m.step(t, 1)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, uint16(0x206), m.hw.PC)

	m.step(t, 1)
	assert.Equal(t, uint8(0x42), m.hw.V[1])
}

func TestChip8EWaitOpcode(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8e"), 0x0151, 0x6142)
	m.step(t, 2)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, uint8(0x42), m.hw.V[1])
}

func TestChip8XBackground(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x02a0, 0x02a0)
	m.step(t, 2)
	assert.Equal(t, uint8(2), m.hw.BackgroundColor())
	assert.Equal(t, palette.Green, m.f.Pixel(0, 0))
}

func TestChip8XDefaultForeground(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0xa306, 0xd011, 0x1304, 0x8000)
	m.step(t, 2)
	assert.Equal(t, palette.Red, m.f.Pixel(0, 0))
}

func TestChip8XAdd(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x6037, 0x6125, 0x5011)
	m.step(t, 3)
	assert.Equal(t, uint8(0x54), m.hw.V[0])
}

func TestChip8XColorZones(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x6010, 0x6101, 0x6203, 0xb020)
	m.step(t, 4)

	assert.Equal(t, uint8(3), m.hw.ForegroundColor(0, 4))
	assert.Equal(t, uint8(3), m.hw.ForegroundColor(15, 7))
	assert.Equal(t, uint8(1), m.hw.ForegroundColor(16, 4))
	assert.Equal(t, uint8(1), m.hw.ForegroundColor(0, 3))
	assert.Equal(t, uint8(1), m.hw.ForegroundColor(0, 8))
}

func TestChip8XColorColumn(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x600c, 0x6102, 0x6205, 0xb023)
	m.step(t, 4)

	assert.Equal(t, uint8(5), m.hw.ForegroundColor(8, 2))
	assert.Equal(t, uint8(5), m.hw.ForegroundColor(15, 4))
	assert.Equal(t, uint8(1), m.hw.ForegroundColor(7, 2))
	assert.Equal(t, uint8(1), m.hw.ForegroundColor(8, 5))
}

func TestChip8XSecondKeypad(t *testing.T) {
	var keys frontend.Keypad
	keys[3] = true

	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x6003, 0xe0f2, 0x6101, 0xe0f5, 0x6202)
	m.SetKeys(frontend.Keypad{}, keys)
	m.step(t, 4)
	assert.Equal(t, uint8(0), m.hw.V[1])
	assert.Equal(t, uint8(2), m.hw.V[2])
}

func TestChip8XTone(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "chip8x"), 0x6004, 0xf0f8)
	m.step(t, 2)
	assert.Equal(t, 5507.0, m.f.Frequency)
}

func TestRPLFlags(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "schip11"), 0x6142, 0xf175, 0x6100, 0xf185)
	m.step(t, 4)
	assert.Equal(t, uint8(0x42), m.hw.V[1])
	assert.Equal(t, uint8(0x42), m.hw.Flags[1])

	m = newTestMachine(t, lookupDialect(t, "xochip"), 0x6f09, 0xff75, 0x6f00, 0xff85)
	m.step(t, 4)
	assert.Equal(t, uint8(9), m.hw.V[0xf])
}

func TestXOChipPlanes(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "xochip"), 0xf301, 0xa208, 0xd011, 0x1206, 0x8040)
	m.step(t, 3)
	assert.Equal(t, uint8(3), m.hw.PlaneMask)

	assert.Equal(t, uint8(1), m.hw.Pixel(0, 0, 0))
	assert.Equal(t, uint8(0), m.hw.Pixel(1, 0, 0))
	assert.Equal(t, uint8(1), m.hw.Pixel(1, 2, 0))
	assert.Equal(t, uint8(0), m.hw.Pixel(0, 2, 0))

	m = newTestMachine(t, lookupDialect(t, "xochip"), 0xf701, 0xf201)
	m.step(t, 1)
	assert.Equal(t, uint8(3), m.hw.PlaneMask)
	m.step(t, 1)
	assert.Equal(t, uint8(2), m.hw.PlaneMask)
}

func TestXOChipClearSelectedPlane(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "xochip"), 0xf301, 0xa20a, 0xd011, 0xf101, 0x00e0, 0x8080)
	m.step(t, 5)
	assert.Equal(t, uint8(0), m.hw.Pixel(0, 0, 0))
	assert.Equal(t, uint8(1), m.hw.Pixel(1, 0, 0))
}

func TestXOChipRegisterRange(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "xochip"),
		0x6101, 0x6202, 0x6303, 0xa300, 0x5312,
		0xa300, 0x5133)
	m.step(t, 5)
	assert.Equal(t, []byte{3, 2, 1}, m.hw.Memory[0x300:0x303])
	assert.Equal(t, uint16(0x303), m.hw.I)

	m.step(t, 2)
	assert.Equal(t, [3]uint8{3, 2, 1}, [3]uint8(m.hw.V[1:4]))
}

func TestXOChipLongLoad(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "xochip"), 0xf000, 0x1234, 0x6142)
	m.step(t, 1)
	assert.Equal(t, uint16(0x1234), m.hw.I)
	assert.Equal(t, uint16(0x204), m.hw.PC)

	m.step(t, 1)
	assert.Equal(t, uint8(0x42), m.hw.V[1])
}

func TestXOChipAudio(t *testing.T) {
	m := newTestMachine(t, lookupDialect(t, "xochip"), 0xa20a, 0xf002, 0x6070, 0xf03a, 0x1208)
	for j := range frontend.AudioPatternSize {
		m.hw.Memory[0x20a+j] = byte(j + 1)
	}

	m.step(t, 2)
	assert.True(t, m.f.HasPattern())
	assert.Equal(t, byte(1), m.f.Pattern[0])
	assert.Equal(t, byte(16), m.f.Pattern[15])

	m.step(t, 2)
	assert.Equal(t, 8000.0, m.f.Frequency)
}

func TestPitchFrequency(t *testing.T) {
	assert.Equal(t, 4000.0, pitchFrequency(64))
	assert.Equal(t, 2000.0, pitchFrequency(16))
}
