package player

import (
	"testing"
	"time"

	"ankicut/track"
)

func rampTrack(t *testing.T, rate, channels, frames int) *track.Track {
	t.Helper()
	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = int16(i/channels + 1)
	}
	tr, err := track.New("ramp", samples, rate, channels)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestStreamSilentWhilePaused(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 1, 100))
	out := []int16{9, 9, 9, 9}
	s.read(out)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %d, want silence", i, v)
		}
	}
	if s.Position() != 0 {
		t.Errorf("cursor moved while paused: %v", s.Position())
	}
}

func TestStreamReadAdvances(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 2, 100))
	s.Play()
	out := make([]int16, 21) // odd length: last sample is not a whole frame
	s.read(out)
	if out[0] != 1 || out[1] != 1 || out[18] != 10 {
		t.Errorf("unexpected samples %v", out)
	}
	if out[20] != 0 {
		t.Errorf("partial frame not silenced: %d", out[20])
	}
	if got := s.Position(); got != 10*time.Millisecond {
		t.Errorf("Position = %v, want 10ms", got)
	}
}

func TestStreamStopsAtEnd(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 1, 10))
	s.Play()
	out := make([]int16, 16)
	s.read(out)
	if s.Playing() {
		t.Error("still playing past the end")
	}
	if out[9] != 10 || out[10] != 0 {
		t.Errorf("tail not silenced: %v", out)
	}
	if got := s.Position(); got != 10*time.Millisecond {
		t.Errorf("Position = %v, want 10ms", got)
	}

	s.Play()
	if s.Position() != 0 {
		t.Errorf("Play at end should restart, got %v", s.Position())
	}
}

func TestStreamSeekClamps(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 1, 500))
	s.Seek(-time.Second)
	if s.Position() != 0 {
		t.Errorf("Position = %v, want 0", s.Position())
	}
	s.Seek(time.Hour)
	if s.Position() != 500*time.Millisecond {
		t.Errorf("Position = %v, want 500ms", s.Position())
	}
	s.Seek(250 * time.Millisecond)
	s.Play()
	out := make([]int16, 1)
	s.read(out)
	if out[0] != 251 {
		t.Errorf("read after seek = %d, want 251", out[0])
	}
}

func TestStreamSeekDuringReadWins(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 1, 1000))
	s.Play()
	cur := s.cursor.Load()
	s.Seek(500 * time.Millisecond) // lands between the copy and the swap
	if s.advance(cur, cur+10) {
		t.Fatal("advance overwrote a concurrent seek")
	}
	if got := s.Position(); got != 500*time.Millisecond {
		t.Errorf("Position = %v, want 500ms", got)
	}
	if !s.Playing() {
		t.Error("stream stopped after a lost swap")
	}
}

func TestStreamPlayRacingEndKeepsPlaying(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 1, 10))
	s.Play()
	// The final read swapped the cursor to the end, then Play restarted it
	// before the stop ran.
	s.cursor.Store(s.frames)
	s.Play()
	s.stopAtEnd()
	if !s.Playing() {
		t.Fatal("restart was cancelled by the end-of-track stop")
	}
	if s.Position() != 0 {
		t.Errorf("Position = %v, want 0", s.Position())
	}
}

func TestStreamConcurrentSeekAndRead(t *testing.T) {
	s := newStream(rampTrack(t, 1000, 2, 2000))
	s.Play()
	done := make(chan struct{})
	go func() {
		defer close(done)
		out := make([]int16, 64)
		for range 500 {
			s.read(out)
			if s.cursor.Load() >= s.frames {
				s.Play()
			}
		}
	}()
	for i := range 500 {
		s.Seek(time.Duration(i%2000) * time.Millisecond)
		if p := s.Position(); p < 0 || p > 2*time.Second {
			t.Errorf("Position out of range: %v", p)
		}
	}
	<-done
	if p := s.Position(); p < 0 || p > 2*time.Second {
		t.Errorf("final Position out of range: %v", p)
	}
}
