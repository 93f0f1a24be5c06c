// Package terminal implements an interactive frontend that renders the
// screen into a terminal using termloop.
//
// Every screen pixel is shown as one terminal cell. The hex keys 0-9 and
// a-f are mapped to the first keypad, the arrow keys and enter are mapped
// to the keys 2, 4, 6, 8 and 5 of the second keypad. Ctrl+C quits.
package terminal

import (
	"sync"
	"time"

	tl "github.com/JoelOtter/termloop"
	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/chip8/internal/palette"
)

var _ frontend.Device = (*Terminal)(nil)

// keyReleaseDelay is the time after which a key counts as released. Terminals
// only report key presses, held keys repeat the press event.
const keyReleaseDelay = 100 * time.Millisecond

// frameRate is the number of termloop frames per second.
const frameRate = 60

// keypadKey identifies a key of one of the two keypads.
type keypadKey struct {
	keypad int
	key    int
}

// runeKeys maps typed characters to keys of the first keypad.
var runeKeys = map[rune]keypadKey{
	'0': {0, 0x0}, '1': {0, 0x1}, '2': {0, 0x2}, '3': {0, 0x3},
	'4': {0, 0x4}, '5': {0, 0x5}, '6': {0, 0x6}, '7': {0, 0x7},
	'8': {0, 0x8}, '9': {0, 0x9}, 'a': {0, 0xa}, 'b': {0, 0xb},
	'c': {0, 0xc}, 'd': {0, 0xd}, 'e': {0, 0xe}, 'f': {0, 0xf},
}

// specialKeys maps terminal keys to keys of the second keypad.
var specialKeys = map[tl.Key]keypadKey{
	tl.KeyArrowUp:    {1, 0x2},
	tl.KeyArrowLeft:  {1, 0x4},
	tl.KeyArrowRight: {1, 0x6},
	tl.KeyArrowDown:  {1, 0x8},
	tl.KeyEnter:      {1, 0x5},
}

// Terminal is a frontend that runs a termloop game.
type Terminal struct {
	frontend.Audio

	game   *tl.Game
	width  int
	height int

	mu       sync.Mutex
	back     []tl.Attr // screen updates of the interpreter
	front    []tl.Attr // presented screen
	status   string    // text shown below the screen
	pressed  map[keypadKey]time.Time
	quit     bool
	started  bool
	finished chan struct{}

	cancelOnce sync.Once
	cancelled  chan struct{}
}

// New returns a terminal frontend for a screen of the given size. Start has
// to be called to take over the terminal.
func New(width, height int) *Terminal {
	t := &Terminal{
		Audio:     frontend.NewAudio(),
		game:      tl.NewGame(),
		width:     width,
		height:    height,
		back:      make([]tl.Attr, width*height),
		front:     make([]tl.Attr, width*height),
		pressed:   map[keypadKey]time.Time{},
		finished:  make(chan struct{}),
		cancelled: make(chan struct{}),
	}

	black := colorAttr(palette.Black)
	for i := range t.back {
		t.back[i] = black
		t.front[i] = black
	}

	scr := t.game.Screen()
	scr.SetFps(frameRate)
	scr.AddEntity(&screenEntity{t: t})
	scr.AddEntity(&inputHandler{t: t})
	return t
}

// Start runs the termloop game loop in the background. The loop ends when
// the user presses Ctrl+C.
func (t *Terminal) Start() {
	t.mu.Lock()
	t.started = true
	t.mu.Unlock()

	go func() {
		t.game.Start()

		t.mu.Lock()
		t.quit = true
		t.mu.Unlock()
		close(t.finished)
	}()
}

// Draw sets a screen pixel, the change is shown after the next Refresh.
func (t *Terminal) Draw(x, y int, c palette.RGB) {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return
	}
	attr := colorAttr(c)

	t.mu.Lock()
	t.back[y*t.width+x] = attr
	t.mu.Unlock()
}

// Clear fills the screen with the colour.
func (t *Terminal) Clear(c palette.RGB) {
	attr := colorAttr(c)

	t.mu.Lock()
	for i := range t.back {
		t.back[i] = attr
	}
	t.mu.Unlock()
}

// Keys returns the pressed keys of both keypads. Keys are released
// automatically when their press event is not repeated.
func (t *Terminal) Keys() (frontend.Keypad, frontend.Keypad) {
	var keypads [2]frontend.Keypad

	t.mu.Lock()
	defer t.mu.Unlock()

	for key, pressedAt := range t.pressed {
		if time.Since(pressedAt) > keyReleaseDelay {
			delete(t.pressed, key)
			continue
		}
		keypads[key.keypad][key.key] = true
	}
	return keypads[0], keypads[1]
}

// QuitRequested returns whether the user ended the game loop.
func (t *Terminal) QuitRequested() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quit
}

// Refresh presents the screen updates since the last refresh.
func (t *Terminal) Refresh() error {
	t.mu.Lock()
	copy(t.front, t.back)
	t.mu.Unlock()
	return nil
}

// Cancel stops Close from waiting for the user to quit the game loop. It is
// called when the run ends through a signal.
func (t *Terminal) Cancel() {
	t.cancelOnce.Do(func() {
		close(t.cancelled)
	})
}

// Close shows that the program ended and waits for the user to quit the
// game loop, which restores the terminal. The wait ends early if the
// terminal is cancelled.
func (t *Terminal) Close() error {
	t.mu.Lock()
	copy(t.front, t.back)
	t.status = "program ended, press Ctrl+C to exit"
	started := t.started
	t.mu.Unlock()

	if started {
		select {
		case <-t.finished:
		case <-t.cancelled:
		}
	}
	return nil
}

// press records a key press event.
func (t *Terminal) press(key keypadKey) {
	t.mu.Lock()
	t.pressed[key] = time.Now()
	t.mu.Unlock()
}

// screenEntity renders the presented screen.
type screenEntity struct {
	t *Terminal
}

func (e *screenEntity) Draw(s *tl.Screen) {
	t := e.t
	t.mu.Lock()
	defer t.mu.Unlock()

	for y := range t.height {
		for x := range t.width {
			s.RenderCell(x, y, &tl.Cell{Bg: t.front[y*t.width+x], Ch: ' '})
		}
	}
	for x, ch := range []rune(t.status) {
		s.RenderCell(x, t.height, &tl.Cell{Fg: tl.ColorDefault, Bg: tl.ColorDefault, Ch: ch})
	}
}

func (e *screenEntity) Tick(tl.Event) {}

// inputHandler translates key events to keypad presses.
type inputHandler struct {
	t *Terminal
}

func (i *inputHandler) Draw(*tl.Screen) {}

func (i *inputHandler) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey {
		return
	}
	if key, ok := specialKeys[ev.Key]; ok {
		i.t.press(key)
		return
	}
	if key, ok := runeKeys[ev.Ch]; ok {
		i.t.press(key)
	}
}

// colorAttr converts the colour to a terminal colour of the 256 colour
// palette.
func colorAttr(c palette.RGB) tl.Attr {
	return tl.RgbTo256Color(int(c[0]), int(c[1]), int(c[2]))
}
