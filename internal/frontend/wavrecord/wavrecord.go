// Package wavrecord records the audio output of a device to a WAV file.
//
// The recorder wraps another device and passes all calls through to it.
// The tone or XO-CHIP audio pattern is rendered for the time that passes
// between screen refreshes. Audio data is buffered in memory and written to
// disk when the device is closed.
package wavrecord

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/chip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
)

var _ frontend.Device = (*Recorder)(nil)

// Audio format of the written file.
const (
	SampleRate = 44100
	bitDepth   = 16
	channels   = 1
	pcmFormat  = 1
)

// amplitude is the sample value of a high output level.
const amplitude = math.MaxInt16 / 4

// maxGap limits the audio that is rendered for one refresh, longer pauses
// of the caller are not recorded.
const maxGap = time.Second

// patternBits is the number of bits in an XO-CHIP audio pattern.
const patternBits = frontend.AudioPatternSize * 8

// Recorder is a device that records the audio output.
type Recorder struct {
	frontend.Device

	logger   *log.Logger
	filename string
	now      func() time.Time

	state   frontend.Audio
	last    time.Time
	carry   int64   // sample time fraction left over from the last render
	phase   float64 // position in the current wave period or pattern, 0 to 1
	samples []int
}

// Option configures a recorder.
type Option func(*Recorder)

// WithClock sets the time source that the rendered audio length is based on.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New returns a recorder that wraps the device and writes the audio to the
// file when it is closed.
func New(logger *log.Logger, device frontend.Device, filename string, opts ...Option) *Recorder {
	r := &Recorder{
		Device:   device,
		logger:   logger,
		filename: filename,
		now:      time.Now,
		state:    frontend.NewAudio(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.last = r.now()
	return r
}

// SetAudioState renders the audio up to now and starts or stops the tone.
func (r *Recorder) SetAudioState(on bool) {
	r.render()
	r.state.SetAudioState(on)
	r.Device.SetAudioState(on)
}

// SetAudioFrequency renders the audio up to now and sets the tone frequency.
func (r *Recorder) SetAudioFrequency(hz float64) {
	r.render()
	r.state.SetAudioFrequency(hz)
	r.Device.SetAudioFrequency(hz)
}

// SetAudioPattern sets one byte of the audio pattern buffer.
func (r *Recorder) SetAudioPattern(index int, value byte) {
	r.render()
	r.state.SetAudioPattern(index, value)
	r.Device.SetAudioPattern(index, value)
}

// Refresh renders the audio since the last call and refreshes the device.
func (r *Recorder) Refresh() error {
	r.render()
	if err := r.Device.Refresh(); err != nil {
		return fmt.Errorf("refreshing device: %w", err)
	}
	return nil
}

// Samples returns the number of recorded samples.
func (r *Recorder) Samples() int {
	return len(r.samples)
}

// Close writes the recorded audio to the file and closes the device.
func (r *Recorder) Close() error {
	r.render()

	errWrite := r.writeFile()
	errClose := r.Device.Close()
	return errors.Join(errWrite, errClose)
}

func (r *Recorder) writeFile() (rerr error) {
	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating WAV file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing WAV file: %w", err)
		}
	}()

	r.logger.Info("Writing audio",
		log.String("file", r.filename),
		log.Int("samples", len(r.samples)))
	return r.Encode(f)
}

// Encode writes the recorded audio in WAV format.
func (r *Recorder) Encode(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, SampleRate, bitDepth, channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding audio: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing WAV file: %w", err)
	}
	return nil
}

// render appends the samples for the time since the last call.
func (r *Recorder) render() {
	now := r.now()
	elapsed := min(now.Sub(r.last), maxGap)
	r.last = now
	if elapsed <= 0 {
		return
	}

	total := r.carry + int64(elapsed)*SampleRate
	count := total / int64(time.Second)
	r.carry = total % int64(time.Second)
	for range count {
		r.samples = append(r.samples, r.nextSample())
	}
}

// nextSample returns the next output sample. Without an audio pattern the
// tone is a square wave, XO-CHIP patterns are played back at the frequency
// in bits per second.
func (r *Recorder) nextSample() int {
	if !r.state.On || r.state.Frequency <= 0 {
		return 0
	}

	var high bool
	if r.state.HasPattern() {
		r.phase += r.state.Frequency / SampleRate / patternBits
		r.phase -= math.Floor(r.phase)
		bit := int(r.phase * patternBits)
		high = r.state.Pattern[bit/8]&(0x80>>(bit%8)) != 0
	} else {
		r.phase += r.state.Frequency / SampleRate
		r.phase -= math.Floor(r.phase)
		high = r.phase < 0.5
	}

	if high {
		return amplitude
	}
	return -amplitude
}

// Start starts the wrapped device if it runs an event loop.
func (r *Recorder) Start() {
	if s, ok := r.Device.(interface{ Start() }); ok {
		s.Start()
	}
}

// Cancel cancels the wrapped device if it waits for the user on close.
func (r *Recorder) Cancel() {
	if c, ok := r.Device.(interface{ Cancel() }); ok {
		c.Cancel()
	}
}
