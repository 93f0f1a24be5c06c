// Package frontend defines the contract between the interpreter and the
// presentation layer that renders the screen, plays audio and reads keys.
package frontend

import "github.com/retroenv/chip8/internal/palette"

// KeyCount is the number of keys of a hex keypad.
const KeyCount = 16

// Keypad contains the pressed state of every key of a keypad.
type Keypad [KeyCount]bool

// Frontend receives screen and audio updates from the interpreter.
type Frontend interface {
	// Draw sets the pixel at the screen position to the colour.
	Draw(x, y int, c palette.RGB)
	// Clear fills the whole screen with the colour.
	Clear(c palette.RGB)
	// SetAudioState starts or stops the tone output.
	SetAudioState(on bool)
	// SetAudioFrequency sets the tone or pattern playback frequency in Hz.
	SetAudioFrequency(hz float64)
	// SetAudioPattern sets one byte of the 16 byte audio pattern buffer.
	SetAudioPattern(index int, value byte)
}

// Input reports the keyboard state.
type Input interface {
	// Keys returns the pressed state of both keypads.
	Keys() (Keypad, Keypad)
	// QuitRequested returns whether the user asked to end the program.
	QuitRequested() bool
}

// Device is a complete frontend with output, input and lifecycle control.
type Device interface {
	Frontend
	Input

	// Refresh presents pending screen updates and polls for input events.
	Refresh() error
	// Close releases the resources of the device.
	Close() error
}

// AudioPatternSize is the length of the audio pattern buffer.
const AudioPatternSize = 16

// Audio holds the audio state that frontends share. It is embedded by
// device implementations.
type Audio struct {
	On        bool
	Frequency float64
	Pattern   [AudioPatternSize]byte
}

// DefaultFrequency is the tone frequency used until a program sets one.
const DefaultFrequency = 440.0

// NewAudio returns an audio state with the default frequency.
func NewAudio() Audio {
	return Audio{Frequency: DefaultFrequency}
}

// SetAudioState starts or stops the tone output.
func (a *Audio) SetAudioState(on bool) {
	a.On = on
}

// SetAudioFrequency sets the tone frequency in Hz.
func (a *Audio) SetAudioFrequency(hz float64) {
	a.Frequency = hz
}

// SetAudioPattern sets one byte of the audio pattern buffer, indexes out of
// range are ignored.
func (a *Audio) SetAudioPattern(index int, value byte) {
	if index < 0 || index >= AudioPatternSize {
		return
	}
	a.Pattern[index] = value
}

// HasPattern returns whether a program set a custom audio pattern.
func (a *Audio) HasPattern() bool {
	for _, b := range a.Pattern {
		if b != 0 {
			return true
		}
	}
	return false
}
