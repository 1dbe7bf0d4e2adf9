package player

import (
	"sync"
	"sync/atomic"
	"time"

	"ankicut/track"
)

// stream is the backend-independent half of a player: a PCM cursor shared
// between the session thread and the audio callback.
type stream struct {
	samples  []int16
	channels int
	rate     int
	frames   int64

	cursor  atomic.Int64 // next frame to play
	playing atomic.Bool

	// mu orders play/pause against the end-of-track stop. read never
	// takes it on the copy path.
	mu sync.Mutex
}

func newStream(t *track.Track) *stream {
	return &stream{
		samples:  t.Samples,
		channels: t.Channels,
		rate:     t.SampleRate,
		frames:   int64(t.Frames()),
	}
}

// Play resumes playback. At the end of the track it starts over.
func (s *stream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Load() >= s.frames {
		s.cursor.Store(0)
	}
	s.playing.Store(true)
	return nil
}

func (s *stream) Pause() {
	s.mu.Lock()
	s.playing.Store(false)
	s.mu.Unlock()
}

func (s *stream) Playing() bool {
	return s.playing.Load()
}

func (s *stream) Position() time.Duration {
	return time.Duration(s.cursor.Load() * int64(time.Second) / int64(s.rate))
}

func (s *stream) Seek(pos time.Duration) {
	f := int64(pos) * int64(s.rate) / int64(time.Second)
	s.cursor.Store(min(max(f, 0), s.frames))
}

// read fills out with the next whole frames, or silence while paused. It is
// called from the audio thread.
func (s *stream) read(out []int16) {
	written := 0
	if s.playing.Load() {
		usable := len(out) - len(out)%s.channels
		cur := s.cursor.Load()
		n := copy(out[:usable], s.samples[cur*int64(s.channels):])
		s.advance(cur, cur+int64(n/s.channels))
		written = n
	}
	clear(out[written:])
}

// advance moves the cursor from -> to after a read. It reports false when a
// seek landed since from was loaded; the seek wins.
func (s *stream) advance(from, to int64) bool {
	if !s.cursor.CompareAndSwap(from, to) {
		return false
	}
	if to >= s.frames {
		s.stopAtEnd()
	}
	return true
}

// stopAtEnd clears playing only if the cursor is still at the end, so a Play
// or Seek that raced the final read keeps the stream running.
func (s *stream) stopAtEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor.Load() >= s.frames {
		s.playing.Store(false)
	}
}
