package player

import (
	"sync"
	"time"
)

// Fake is an in-memory Player. Its position only moves through Seek and
// SetRaw; it does not advance with wall-clock time.
type Fake struct {
	mu      sync.Mutex
	pos     time.Duration
	playing bool
	closed  bool

	PlayErr error
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlayErr != nil {
		return f.PlayErr
	}
	f.playing = true
	return nil
}

func (f *Fake) Pause() {
	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
}

func (f *Fake) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *Fake) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *Fake) Seek(pos time.Duration) {
	f.mu.Lock()
	f.pos = pos
	f.mu.Unlock()
}

// SetRaw sets the reported position as-is, including values a real backend
// may briefly report out of range.
func (f *Fake) SetRaw(pos time.Duration) { f.Seek(pos) }

func (f *Fake) Close() {
	f.mu.Lock()
	f.closed = true
	f.playing = false
	f.mu.Unlock()
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
