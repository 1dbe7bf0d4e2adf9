// Package player plays decoded tracks through the system audio output and
// coordinates the main and preview streams of an editing session.
package player

import (
	"time"

	"ankicut/track"
)

// Player is one independent playback stream. Position reads and seeks are
// individually atomic with respect to the backend's audio thread.
type Player interface {
	Play() error
	Pause()
	Playing() bool
	Position() time.Duration
	Seek(pos time.Duration)
	Close()
}

// OpenFunc opens a player for a file on disk.
type OpenFunc func(path string) (Player, error)

// OpenFile decodes path and opens a player on the default output device.
func OpenFile(path string) (Player, error) {
	t, err := track.Load(path)
	if err != nil {
		return nil, err
	}
	return Open(t)
}
