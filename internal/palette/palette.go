// Package palette maps the screen state of a machine to display colours.
package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RGB is a display colour.
type RGB [3]uint8

// Screen gives read access to the display state that a palette needs.
type Screen interface {
	// Pixel returns the bit of the given plane at the position.
	Pixel(plane, x, y int) uint8
	// ForegroundColor returns the per pixel colour index of dialects with a
	// colour grid.
	ForegroundColor(x, y int) uint8
	// BackgroundColor returns the background colour register.
	BackgroundColor() uint8
}

// Palette computes display colours.
type Palette interface {
	// Color returns the colour of the pixel at the position.
	Color(s Screen, x, y int) RGB
	// Background returns the colour of an empty screen.
	Background(s Screen) RGB
}

// Kind selects a palette implementation.
type Kind int

// Palette kinds.
const (
	KindMonochrome Kind = iota
	KindCHIP8X
	KindXOChip
)

var errUnknownKind = errors.New("unknown palette kind")

// Common colours.
var (
	Black  = RGB{0x00, 0x00, 0x00}
	White  = RGB{0xff, 0xff, 0xff}
	Red    = RGB{0xff, 0x00, 0x00}
	Green  = RGB{0x00, 0xff, 0x00}
	Blue   = RGB{0x00, 0x00, 0xff}
	Violet = RGB{0xff, 0x00, 0xff}
	Yellow = RGB{0xff, 0xff, 0x00}
	Aqua   = RGB{0x00, 0xff, 0xff}
)

// New returns the palette implementation for the kind.
func New(kind Kind) (Palette, error) {
	switch kind {
	case KindMonochrome:
		return Monochrome{On: White, Off: Black}, nil
	case KindCHIP8X:
		return CHIP8X{}, nil
	case KindXOChip:
		return XOChip{Colors: [4]RGB{Black, Green, Red, Yellow}}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errUnknownKind, kind)
	}
}

// ParseRGB parses a colour in the form #rrggbb or rrggbb.
func ParseRGB(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("invalid colour '%s': expected 6 hex digits", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("parsing colour '%s': %w", s, err)
	}
	return RGB{uint8(value >> 16), uint8(value >> 8), uint8(value)}, nil
}

// String returns the colour in #rrggbb form.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Monochrome shows plane 0 in the foreground colour.
type Monochrome struct {
	On  RGB
	Off RGB
}

// Color returns the foreground colour for set pixels.
func (m Monochrome) Color(s Screen, x, y int) RGB {
	if s.Pixel(0, x, y) != 0 {
		return m.On
	}
	return m.Off
}

// Background returns the colour of unset pixels.
func (m Monochrome) Background(Screen) RGB {
	return m.Off
}

// chip8xForeground is indexed by the colour grid value.
var chip8xForeground = [8]RGB{Black, Red, Blue, Violet, Green, Yellow, Aqua, White}

// CHIP8X uses the per pixel colour grid for set pixels and the background
// colour register otherwise.
type CHIP8X struct{}

// Color returns the colour of the pixel at the position.
func (CHIP8X) Color(s Screen, x, y int) RGB {
	if s.Pixel(0, x, y) == 0 {
		return CHIP8X{}.Background(s)
	}
	return chip8xForeground[s.ForegroundColor(x, y)&7]
}

// Background returns the colour selected by the background register.
func (CHIP8X) Background(s Screen) RGB {
	switch s.BackgroundColor() & 3 {
	case 1:
		return Black
	case 2:
		return Green
	case 3:
		return Red
	default:
		return Blue
	}
}

// XOChip blends the first two planes into one of four colours.
type XOChip struct {
	Colors [4]RGB
}

// Color returns the colour for the plane bits at the position.
func (p XOChip) Color(s Screen, x, y int) RGB {
	index := s.Pixel(0, x, y) | s.Pixel(1, x, y)<<1
	return p.Colors[index&3]
}

// Background returns the colour for no set plane.
func (p XOChip) Background(Screen) RGB {
	return p.Colors[0]
}
