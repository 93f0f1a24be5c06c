package wavrecord

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/retroenv/chip8/internal/frontend/headless"
	"github.com/retroenv/chip8/internal/palette"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestRecorder(t *testing.T) (*Recorder, *headless.Headless, *fakeClock, string) {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "audio.wav")
	clock := &fakeClock{now: time.Unix(0, 0)}
	device := headless.New(64, 32)
	r := New(log.NewTestLogger(t), device, filename, WithClock(clock.Now))
	return r, device, clock, filename
}

func TestRecorderForwards(t *testing.T) {
	r, device, _, _ := newTestRecorder(t)

	r.Draw(1, 1, palette.White)
	device.SetKey(1, 0xa, true)
	keypad1, _ := r.Keys()

	assert.NoError(t, r.Refresh())
	r.SetAudioState(true)
	r.SetAudioFrequency(1000)

	assert.Equal(t, 1, device.Draws())
	assert.Equal(t, 1, device.Refreshes())
	assert.True(t, keypad1[0xa])
	assert.True(t, device.On)
	assert.Equal(t, 1000.0, device.Frequency)
}

func TestRecorderSquareWave(t *testing.T) {
	r, _, clock, _ := newTestRecorder(t)

	clock.now = clock.now.Add(10 * time.Millisecond)
	assert.NoError(t, r.Refresh())
	assert.Equal(t, 441, r.Samples())
	assert.Equal(t, 0, r.samples[0]) // silent

	r.SetAudioFrequency(SampleRate / 4) // 4 samples per period
	r.SetAudioState(true)
	clock.now = clock.now.Add(time.Millisecond)
	assert.NoError(t, r.Refresh())

	tone := r.samples[441:]
	assert.Len(t, tone, 44)
	assert.Equal(t, amplitude, tone[0])
	assert.Equal(t, -amplitude, tone[1])
	assert.Equal(t, -amplitude, tone[2])
	assert.Equal(t, amplitude, tone[3])
	assert.Equal(t, amplitude, tone[4])
}

func TestRecorderPattern(t *testing.T) {
	r, _, clock, _ := newTestRecorder(t)

	// one pattern bit per sample, only the first byte is set
	r.SetAudioFrequency(SampleRate)
	r.SetAudioPattern(0, 0xff)
	r.SetAudioState(true)

	clock.now = clock.now.Add(time.Second / 100)
	assert.NoError(t, r.Refresh())

	assert.Equal(t, amplitude, r.samples[0])
	assert.Equal(t, amplitude, r.samples[6])
	assert.Equal(t, -amplitude, r.samples[7])
	assert.Equal(t, -amplitude, r.samples[100])
	assert.Equal(t, amplitude, r.samples[127])
}

func TestRecorderLimitsGap(t *testing.T) {
	r, _, clock, _ := newTestRecorder(t)

	clock.now = clock.now.Add(time.Minute)
	assert.NoError(t, r.Refresh())
	assert.Equal(t, SampleRate, r.Samples())
}

func TestRecorderWritesFile(t *testing.T) {
	r, _, clock, filename := newTestRecorder(t)

	r.SetAudioState(true)
	clock.now = clock.now.Add(100 * time.Millisecond)
	assert.NoError(t, r.Close())

	f, err := os.Open(filename)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	assert.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	assert.NoError(t, err)
	assert.Equal(t, SampleRate, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Len(t, buf.Data, r.Samples())
}

func TestRecorderCreateError(t *testing.T) {
	device := headless.New(64, 32)
	filename := filepath.Join(t.TempDir(), "missing", "audio.wav")
	r := New(log.NewTestLogger(t), device, filename)

	assert.ErrorContains(t, r.Close(), "creating WAV file")
}

type cancelDevice struct {
	*headless.Headless
	cancels int
}

func (d *cancelDevice) Cancel() {
	d.cancels++
}

func TestRecorderForwardsCancel(t *testing.T) {
	device := &cancelDevice{Headless: headless.New(64, 32)}
	r := New(log.NewTestLogger(t), device, filepath.Join(t.TempDir(), "audio.wav"))
	r.Cancel()
	assert.Equal(t, 1, device.cancels)

	// devices without a wait on close are ignored
	r = New(log.NewTestLogger(t), headless.New(64, 32), filepath.Join(t.TempDir(), "audio.wav"))
	r.Cancel()
}
