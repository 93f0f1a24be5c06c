// Package hardware contains the simulated machine state of a CHIP-8 family
// system: memory, registers, timers, call stack, screen planes and keypads.
package hardware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/palette"
)

// ErrBounds is returned for memory, register or call stack accesses
// outside of the valid range.
var ErrBounds = errors.New("out of bounds access")

var errInvalidConfig = errors.New("invalid hardware configuration")

// Memory layout of the built in fonts.
const (
	SmallFontAddress = 0x000
	SmallFontHeight  = 5
	LargeFontAddress = 0x050
	LargeFontHeight  = 10
)

// DefaultProgramStart is the address that most dialects load programs to.
const DefaultProgramStart = 0x200

// maxMemorySize is the size of the address space that I can reach.
const maxMemorySize = 0x10000

// maxPlanes is the highest number of screen planes, limited by the 4 bit
// plane mask.
const maxPlanes = 4

// defaultForeground is the colour grid value after reset, red.
const defaultForeground = 1

// Config contains the hardware parameters of a dialect.
type Config struct {
	MemorySize   int    // size of the memory in bytes
	Width        int    // screen width in pixels
	Height       int    // screen height in pixels
	Planes       int    // number of screen planes
	AllowHighRes bool   // whether the screen can switch to high resolution
	ProgramStart uint16 // address that programs are loaded to
	LargeHexFont bool   // whether the large font contains the glyphs A-F
}

// Validate checks the parameters for consistency.
func (c Config) Validate() error {
	switch {
	case c.MemorySize <= int(c.ProgramStart) || c.MemorySize > maxMemorySize:
		return fmt.Errorf("%w: memory size %d", errInvalidConfig, c.MemorySize)
	case c.Width <= 0 || c.Width%8 != 0 || c.Height <= 0 || c.Height%8 != 0:
		return fmt.Errorf("%w: screen size %dx%d", errInvalidConfig, c.Width, c.Height)
	case c.AllowHighRes && (c.Width%16 != 0 || c.Height%16 != 0):
		return fmt.Errorf("%w: high resolution screen size %dx%d", errInvalidConfig, c.Width, c.Height)
	case c.Planes < 1 || c.Planes > maxPlanes:
		return fmt.Errorf("%w: %d screen planes", errInvalidConfig, c.Planes)
	case int(c.ProgramStart) < LargeFontAddress+len(largeFont)+len(largeHexFont):
		return fmt.Errorf("%w: program start %04X overlaps the fonts", errInvalidConfig, c.ProgramStart)
	}
	return nil
}

// Hardware is the simulated machine state.
type Hardware struct {
	config  Config
	palette palette.Palette

	Memory []byte
	V      [16]uint8 // general purpose registers
	I      uint16    // address register
	PC     uint16    // program counter
	RD0    uint8     // RD.0 register of the FxF2 extension
	Flags  [16]uint8 // RPL user flags

	DelayTimer uint8
	SoundTimer uint8

	HighRes   bool  // high resolution mode is active
	PlaneMask uint8 // bit mask of the planes that drawing affects

	stack      []uint16
	planes     [][]uint8
	foreground []uint8 // per pixel colour grid
	background uint8   // background colour register
	keypads    [2]frontend.Keypad
}

// New returns a new hardware instance in reset state.
func New(config Config, pal palette.Palette) (*Hardware, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	h := &Hardware{
		config:     config,
		palette:    pal,
		Memory:     make([]byte, config.MemorySize),
		planes:     make([][]uint8, config.Planes),
		foreground: make([]uint8, config.Width*config.Height),
	}
	for i := range h.planes {
		h.planes[i] = make([]uint8, config.Width*config.Height)
	}
	h.Reset()
	return h, nil
}

// Config returns the hardware parameters.
func (h *Hardware) Config() Config {
	return h.config
}

// Reset clears the whole machine state and installs the fonts.
func (h *Hardware) Reset() {
	clear(h.Memory)
	h.V = [16]uint8{}
	h.Flags = [16]uint8{}
	h.I = 0
	h.RD0 = 0
	h.PC = h.config.ProgramStart
	h.DelayTimer = 0
	h.SoundTimer = 0
	h.HighRes = false
	h.PlaneMask = 1
	h.stack = h.stack[:0]
	h.keypads = [2]frontend.Keypad{}
	h.background = 0

	for _, plane := range h.planes {
		clear(plane)
	}
	for i := range h.foreground {
		h.foreground[i] = defaultForeground
	}

	copy(h.Memory[SmallFontAddress:], smallFont[:])
	copy(h.Memory[LargeFontAddress:], largeFont[:])
	if h.config.LargeHexFont {
		copy(h.Memory[LargeFontAddress+len(largeFont):], largeHexFont[:])
	}
}

// Load copies the program to the program start address. Bytes that do not
// fit into memory are dropped. It returns the number of copied bytes.
func (h *Hardware) Load(program []byte) int {
	return copy(h.Memory[h.config.ProgramStart:], program)
}

// ReadMemory returns the byte at the address.
func (h *Hardware) ReadMemory(address int) (byte, error) {
	if address < 0 || address >= len(h.Memory) {
		return 0, fmt.Errorf("%w: reading memory address %04X", ErrBounds, address)
	}
	return h.Memory[address], nil
}

// WriteMemory sets the byte at the address.
func (h *Hardware) WriteMemory(address int, value byte) error {
	if address < 0 || address >= len(h.Memory) {
		return fmt.Errorf("%w: writing memory address %04X", ErrBounds, address)
	}
	h.Memory[address] = value
	return nil
}

// ReadWord returns the big endian 16 bit word at the address.
func (h *Hardware) ReadWord(address int) (uint16, error) {
	high, err := h.ReadMemory(address)
	if err != nil {
		return 0, err
	}
	low, err := h.ReadMemory(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// Register returns the value of a register whose index is computed at
// runtime.
func (h *Hardware) Register(index int) (uint8, error) {
	if index < 0 || index >= len(h.V) {
		return 0, fmt.Errorf("%w: register V%d", ErrBounds, index)
	}
	return h.V[index], nil
}

// SetRegister sets a register whose index is computed at runtime.
func (h *Hardware) SetRegister(index int, value uint8) error {
	if index < 0 || index >= len(h.V) {
		return fmt.Errorf("%w: register V%d", ErrBounds, index)
	}
	h.V[index] = value
	return nil
}

// Push puts a return address on the call stack.
func (h *Hardware) Push(address uint16) {
	h.stack = append(h.stack, address)
}

// Pop removes the last return address from the call stack.
func (h *Hardware) Pop() (uint16, error) {
	if len(h.stack) == 0 {
		return 0, fmt.Errorf("%w: call stack is empty", ErrBounds)
	}
	address := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return address, nil
}

// StackDepth returns the number of return addresses on the call stack.
func (h *Hardware) StackDepth() int {
	return len(h.stack)
}

// SetKeys updates the pressed state of both keypads.
func (h *Hardware) SetKeys(keypad1, keypad2 frontend.Keypad) {
	h.keypads[0] = keypad1
	h.keypads[1] = keypad2
}

// Key returns whether the key of keypad 0 or 1 is pressed. Keys outside
// of the keypad are never pressed.
func (h *Hardware) Key(keypad int, key uint8) bool {
	if int(key) >= frontend.KeyCount {
		return false
	}
	return h.keypads[keypad&1][key]
}

// PressedKey returns the lowest pressed key of the first keypad.
func (h *Hardware) PressedKey() (uint8, bool) {
	for i, pressed := range h.keypads[0] {
		if pressed {
			return uint8(i), true
		}
	}
	return 0, false
}

// Width returns the screen width in pixels.
func (h *Hardware) Width() int {
	return h.config.Width
}

// Height returns the screen height in pixels.
func (h *Hardware) Height() int {
	return h.config.Height
}

// Planes returns the number of screen planes.
func (h *Hardware) Planes() int {
	return len(h.planes)
}

// LowResScaled returns whether the screen shows a low resolution image with
// every logical pixel drawn as a 2x2 block.
func (h *Hardware) LowResScaled() bool {
	return h.config.AllowHighRes && !h.HighRes
}

// Pixel returns the bit of the plane at the position. Planes that do not
// exist read as 0.
func (h *Hardware) Pixel(plane, x, y int) uint8 {
	if plane < 0 || plane >= len(h.planes) {
		return 0
	}
	return h.planes[plane][y*h.config.Width+x]
}

// SetPixel sets the bit of the plane at the position and draws the
// resulting colour.
func (h *Hardware) SetPixel(plane, x, y int, bit uint8, f frontend.Frontend) {
	h.planes[plane][y*h.config.Width+x] = bit & 1
	f.Draw(x, y, h.palette.Color(h, x, y))
}

// ForegroundColor returns the colour grid value at the position.
func (h *Hardware) ForegroundColor(x, y int) uint8 {
	return h.foreground[y*h.config.Width+x]
}

// SetForegroundColor sets the colour grid value at the position and draws
// the resulting colour.
func (h *Hardware) SetForegroundColor(x, y int, color uint8, f frontend.Frontend) {
	h.foreground[y*h.config.Width+x] = color & 7
	f.Draw(x, y, h.palette.Color(h, x, y))
}

// BackgroundColor returns the background colour register.
func (h *Hardware) BackgroundColor() uint8 {
	return h.background
}

// SetBackgroundColor sets the background colour register and redraws the
// screen.
func (h *Hardware) SetBackgroundColor(color uint8, f frontend.Frontend) {
	h.background = color & 3
	h.Redraw(f)
}

// ClearPlanes clears all planes that are set in the mask and updates the
// frontend.
func (h *Hardware) ClearPlanes(mask uint8, f frontend.Frontend) {
	cleared := 0
	for i, plane := range h.planes {
		if mask&(1<<i) != 0 {
			clear(plane)
			cleared++
		}
	}
	if cleared == len(h.planes) {
		f.Clear(h.palette.Background(h))
		return
	}
	h.Redraw(f)
}

// Redraw draws every pixel of the screen.
func (h *Hardware) Redraw(f frontend.Frontend) {
	for y := range h.config.Height {
		for x := range h.config.Width {
			f.Draw(x, y, h.palette.Color(h, x, y))
		}
	}
}

// String returns a register dump.
func (h *Hardware) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC=%04X I=%04X", h.PC, h.I)
	for i, v := range h.V {
		fmt.Fprintf(&b, " V%X=%02X", i, v)
	}
	fmt.Fprintf(&b, " DT=%02X ST=%02X SP=%d", h.DelayTimer, h.SoundTimer, len(h.stack))
	return b.String()
}
