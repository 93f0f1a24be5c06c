package palette

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type screen struct {
	planes     [2]uint8
	foreground uint8
	background uint8
}

func (s screen) Pixel(plane, _, _ int) uint8    { return s.planes[plane] }
func (s screen) ForegroundColor(_, _ int) uint8 { return s.foreground }
func (s screen) BackgroundColor() uint8         { return s.background }

func TestMonochrome(t *testing.T) {
	p, err := New(KindMonochrome)
	assert.NoError(t, err)

	assert.Equal(t, White, p.Color(screen{planes: [2]uint8{1, 0}}, 0, 0))
	assert.Equal(t, Black, p.Color(screen{}, 0, 0))
	assert.Equal(t, Black, p.Background(screen{}))
	// plane 1 is ignored
	assert.Equal(t, Black, p.Color(screen{planes: [2]uint8{0, 1}}, 0, 0))
}

func TestCHIP8X(t *testing.T) {
	p, err := New(KindCHIP8X)
	assert.NoError(t, err)

	tests := []struct {
		name string
		s    screen
		want RGB
	}{
		{"background default", screen{}, Blue},
		{"background black", screen{background: 1}, Black},
		{"background green", screen{background: 2}, Green},
		{"background red", screen{background: 3}, Red},
		{"foreground black", screen{planes: [2]uint8{1}, foreground: 0}, Black},
		{"foreground red", screen{planes: [2]uint8{1}, foreground: 1}, Red},
		{"foreground violet", screen{planes: [2]uint8{1}, foreground: 3}, Violet},
		{"foreground aqua", screen{planes: [2]uint8{1}, foreground: 6}, Aqua},
		{"foreground white", screen{planes: [2]uint8{1}, foreground: 7}, White},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Color(tt.s, 0, 0))
		})
	}
}

func TestXOChip(t *testing.T) {
	p, err := New(KindXOChip)
	assert.NoError(t, err)

	assert.Equal(t, Black, p.Color(screen{}, 0, 0))
	assert.Equal(t, Green, p.Color(screen{planes: [2]uint8{1, 0}}, 0, 0))
	assert.Equal(t, Red, p.Color(screen{planes: [2]uint8{0, 1}}, 0, 0))
	assert.Equal(t, Yellow, p.Color(screen{planes: [2]uint8{1, 1}}, 0, 0))
	assert.Equal(t, Black, p.Background(screen{}))
}

func TestNewUnknown(t *testing.T) {
	_, err := New(Kind(42))
	assert.ErrorContains(t, err, "unknown palette kind")
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("#10a0ff")
	assert.NoError(t, err)
	assert.Equal(t, RGB{0x10, 0xa0, 0xff}, c)
	assert.Equal(t, "#10a0ff", c.String())

	c, err = ParseRGB("000000")
	assert.NoError(t, err)
	assert.Equal(t, Black, c)

	_, err = ParseRGB("#fff")
	assert.Error(t, err)
	_, err = ParseRGB("#gggggg")
	assert.Error(t, err)
}
