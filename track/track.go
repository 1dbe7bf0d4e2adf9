// Package track holds the decoded source audio an editing session works on.
package track

import (
	"errors"
	"fmt"
	"time"
)

const BitsPerSample = 16

// Track is an immutable decoded audio buffer: interleaved signed 16-bit PCM.
type Track struct {
	Path       string
	SampleRate int
	Channels   int
	Samples    []int16
}

// OpenError is returned when the source media cannot be read or decoded.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return "cannot open " + e.Path + ": " + e.Err.Error()
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// New wraps already decoded samples. len(samples) must be a multiple of channels.
func New(path string, samples []int16, sampleRate, channels int) (*Track, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(samples)%channels != 0 {
		return nil, errors.New("sample count is not a whole number of frames")
	}
	return &Track{
		Path:       path,
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}, nil
}

func (t *Track) Frames() int {
	return len(t.Samples) / t.Channels
}

func (t *Track) Duration() time.Duration {
	return t.FrameTime(t.Frames())
}

// FrameTime converts a frame index to a playback offset.
func (t *Track) FrameTime(frame int) time.Duration {
	return time.Duration(int64(frame) * int64(time.Second) / int64(t.SampleRate))
}

// FrameAt converts an offset to a frame index, clamped to [0, Frames()].
func (t *Track) FrameAt(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	f := int(int64(d) * int64(t.SampleRate) / int64(time.Second))
	return min(f, t.Frames())
}

// Slice returns the interleaved samples in [start, end). The result shares
// memory with the track and must not be modified.
func (t *Track) Slice(start, end time.Duration) []int16 {
	l, r := t.FrameAt(start), t.FrameAt(end)
	if r <= l {
		return nil
	}
	return t.Samples[l*t.Channels : r*t.Channels]
}
