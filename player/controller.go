package player

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoPreview = errors.New("no preview loaded")

// Controller owns the main player and an optional preview player. It clamps
// every position it reads or writes to [0, duration].
type Controller struct {
	main     Player
	preview  Player
	duration time.Duration
	open     OpenFunc
}

// NewController takes ownership of main. open is used to load previews and
// may be nil, in which case previews are unavailable.
func NewController(main Player, duration time.Duration, open OpenFunc) *Controller {
	return &Controller{main: main, duration: duration, open: open}
}

// Duration is the length of the main track.
func (c *Controller) Duration() time.Duration { return c.duration }

// Play resumes main. It does not touch the preview.
func (c *Controller) Play() error { return c.main.Play() }

// Pause pauses main.
func (c *Controller) Pause() { c.main.Pause() }

// Playing reports whether main is playing.
func (c *Controller) Playing() bool { return c.main.Playing() }

// Toggle pauses main if it is playing. Otherwise it silences the preview and
// resumes main, so only one stream is ever audible.
func (c *Controller) Toggle() error {
	if c.main.Playing() {
		c.main.Pause()
		return nil
	}
	c.StopPreview()
	return c.main.Play()
}

// Seek moves main by delta and returns the clamped position.
func (c *Controller) Seek(delta time.Duration) time.Duration {
	pos := c.clamp(c.Position() + delta)
	c.main.Seek(pos)
	return pos
}

// Position reads main's position. Some backends briefly report negative
// values right after starting; those read as 0.
func (c *Controller) Position() time.Duration {
	return c.clamp(c.main.Position())
}

// LoadPreview opens path as the preview stream, replacing any previous one.
// The main stream is not touched.
func (c *Controller) LoadPreview(path string) error {
	if c.open == nil {
		return errors.New("preview playback unavailable")
	}
	p, err := c.open(path)
	if err != nil {
		return fmt.Errorf("loading preview: %w", err)
	}
	c.closePreview()
	c.preview = p
	return nil
}

// PlayPreview pauses main and plays the preview from its start.
func (c *Controller) PlayPreview() error {
	if c.preview == nil {
		return ErrNoPreview
	}
	c.main.Pause()
	c.preview.Seek(0)
	return c.preview.Play()
}

// StopPreview pauses the preview if one is playing.
func (c *Controller) StopPreview() {
	if c.preview != nil && c.preview.Playing() {
		c.preview.Pause()
	}
}

// PreviewPlaying reports whether a loaded preview is playing.
func (c *Controller) PreviewPlaying() bool {
	return c.preview != nil && c.preview.Playing()
}

// Close releases both players.
func (c *Controller) Close() {
	c.closePreview()
	c.main.Close()
}

func (c *Controller) closePreview() {
	if c.preview != nil {
		c.preview.Close()
		c.preview = nil
	}
}

func (c *Controller) clamp(d time.Duration) time.Duration {
	return min(max(d, 0), c.duration)
}
