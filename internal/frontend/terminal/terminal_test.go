package terminal

import (
	"testing"
	"time"

	tl "github.com/JoelOtter/termloop"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/retrogolib/assert"
)

func TestDrawRefresh(t *testing.T) {
	term := New(8, 4)
	white := colorAttr(palette.White)
	black := colorAttr(palette.Black)

	term.Draw(1, 2, palette.White)
	term.Draw(8, 0, palette.White) // outside
	assert.Equal(t, white, term.back[2*8+1])
	assert.Equal(t, black, term.front[2*8+1])

	assert.NoError(t, term.Refresh())
	assert.Equal(t, white, term.front[2*8+1])

	term.Clear(palette.Black)
	assert.NoError(t, term.Refresh())
	assert.Equal(t, black, term.front[2*8+1])
}

func TestKeys(t *testing.T) {
	term := New(8, 4)
	input := &inputHandler{t: term}

	input.Tick(tl.Event{Type: tl.EventKey, Ch: 'a'})
	input.Tick(tl.Event{Type: tl.EventKey, Key: tl.KeyArrowLeft})
	input.Tick(tl.Event{Type: tl.EventKey, Ch: 'z'})

	keypad1, keypad2 := term.Keys()
	assert.True(t, keypad1[0xa])
	assert.False(t, keypad1[0x4])
	assert.True(t, keypad2[0x4])

	// keys are released when the press is not repeated
	term.mu.Lock()
	for key := range term.pressed {
		term.pressed[key] = time.Now().Add(-2 * keyReleaseDelay)
	}
	term.mu.Unlock()

	keypad1, keypad2 = term.Keys()
	assert.False(t, keypad1[0xa])
	assert.False(t, keypad2[0x4])
}

func TestCloseWithoutStart(t *testing.T) {
	term := New(8, 4)
	assert.False(t, term.QuitRequested())
	assert.NoError(t, term.Close())
	assert.Equal(t, "program ended, press Ctrl+C to exit", term.status)
}

func TestCloseCancelled(t *testing.T) {
	term := New(8, 4)
	term.mu.Lock()
	term.started = true // game loop that never ends
	term.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- term.Close()
	}()

	term.Cancel()
	term.Cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return after cancel")
	}
}
