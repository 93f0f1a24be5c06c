// Package headless implements a frontend without any display or audio
// output. It records the screen in memory and is used for batch runs and
// tests.
package headless

import (
	"strings"

	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/palette"
)

var _ frontend.Device = (*Headless)(nil)

// Headless is a frontend that keeps the screen in a framebuffer.
type Headless struct {
	frontend.Audio

	width  int
	height int
	pixels []palette.RGB

	keypad1 frontend.Keypad
	keypad2 frontend.Keypad
	quit    bool

	draws     int
	clears    int
	refreshes int
}

// New returns a headless frontend with a framebuffer of the given size.
func New(width, height int) *Headless {
	return &Headless{
		Audio:  frontend.NewAudio(),
		width:  width,
		height: height,
		pixels: make([]palette.RGB, width*height),
	}
}

// Draw sets a framebuffer pixel, positions outside are ignored.
func (h *Headless) Draw(x, y int, c palette.RGB) {
	h.draws++
	if x < 0 || y < 0 || x >= h.width || y >= h.height {
		return
	}
	h.pixels[y*h.width+x] = c
}

// Clear fills the framebuffer with the colour.
func (h *Headless) Clear(c palette.RGB) {
	h.clears++
	for i := range h.pixels {
		h.pixels[i] = c
	}
}

// Keys returns the keypad state set by SetKey.
func (h *Headless) Keys() (frontend.Keypad, frontend.Keypad) {
	return h.keypad1, h.keypad2
}

// SetKey sets the pressed state of a key of keypad 1 or 2.
func (h *Headless) SetKey(keypad, key int, pressed bool) {
	key &= 0xf
	if keypad == 2 {
		h.keypad2[key] = pressed
		return
	}
	h.keypad1[key] = pressed
}

// QuitRequested returns whether Quit was called.
func (h *Headless) QuitRequested() bool {
	return h.quit
}

// Quit makes the next QuitRequested call return true.
func (h *Headless) Quit() {
	h.quit = true
}

// Refresh counts the presented frames.
func (h *Headless) Refresh() error {
	h.refreshes++
	return nil
}

// Close does nothing.
func (h *Headless) Close() error {
	return nil
}

// Pixel returns the colour of the framebuffer pixel.
func (h *Headless) Pixel(x, y int) palette.RGB {
	return h.pixels[y*h.width+x]
}

// Draws returns the number of Draw calls.
func (h *Headless) Draws() int {
	return h.draws
}

// Clears returns the number of Clear calls.
func (h *Headless) Clears() int {
	return h.clears
}

// Refreshes returns the number of Refresh calls.
func (h *Headless) Refreshes() int {
	return h.refreshes
}

// String renders the framebuffer as text, every pixel that is not black is
// shown as '#'.
func (h *Headless) String() string {
	var b strings.Builder
	for y := range h.height {
		for x := range h.width {
			if h.pixels[y*h.width+x] != palette.Black {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
