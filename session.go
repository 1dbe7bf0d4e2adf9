package main

import (
	"errors"
	"fmt"
	"time"

	"ankicut/clipboard"
	"ankicut/config"
	"ankicut/export"
	"ankicut/log"
	"ankicut/marks"
	"ankicut/player"
	"ankicut/track"
)

// Action is one editing command, produced by a key press or a headless line.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggle
	ActionBack
	ActionBackLarge
	ActionForward
	ActionForwardLarge
	ActionMark
	ActionLeftWider
	ActionLeftNarrower
	ActionRightNarrower
	ActionRightWider
	ActionCut
)

var actionNames = map[string]Action{
	"quit":           ActionQuit,
	"toggle":         ActionToggle,
	"back":           ActionBack,
	"back-large":     ActionBackLarge,
	"forward":        ActionForward,
	"forward-large":  ActionForwardLarge,
	"mark":           ActionMark,
	"left-wider":     ActionLeftWider,
	"left-narrower":  ActionLeftNarrower,
	"right-narrower": ActionRightNarrower,
	"right-wider":    ActionRightWider,
	"cut":            ActionCut,
}

func parseAction(s string) (Action, bool) {
	a, ok := actionNames[s]
	return a, ok
}

type publisher interface {
	Publish(token string) error
}

// EditSession holds everything one editing run works on. All methods run on
// the UI goroutine.
type EditSession struct {
	track     *track.Track
	window    *marks.Window
	ctl       *player.Controller
	exporter  *export.Exporter
	publisher publisher
	cfg       config.Config

	status   string
	exports  int
	lastClip *export.Clip
}

func NewEditSession(t *track.Track, ctl *player.Controller, x *export.Exporter, pub publisher, cfg config.Config) *EditSession {
	return &EditSession{
		track:     t,
		window:    marks.New(t.Duration()),
		ctl:       ctl,
		exporter:  x,
		publisher: pub,
		cfg:       cfg,
		status:    "paused",
	}
}

func (s *EditSession) Duration() time.Duration { return s.track.Duration() }
func (s *EditSession) Position() time.Duration { return s.ctl.Position() }
func (s *EditSession) Playing() bool { return s.ctl.Playing() }
func (s *EditSession) Status() string { return s.status }
func (s *EditSession) Exports() int { return s.exports }
func (s *EditSession) LastClip() *export.Clip { return s.lastClip }
func (s *EditSession) Span() (l, r time.Duration) { return s.window.Span() }

// Start begins playback of the main stream.
func (s *EditSession) Start() error {
	if err := s.ctl.Play(); err != nil {
		return err
	}
	s.status = "playing"
	return nil
}

// Do applies a, reporting whether the session should end.
func (s *EditSession) Do(a Action) (quit bool) {
	switch a {
	case ActionQuit:
		return true
	case ActionToggle:
		s.toggle()
	case ActionBack:
		s.seek(-s.cfg.SeekSmall)
	case ActionBackLarge:
		s.seek(-s.cfg.SeekLarge)
	case ActionForward:
		s.seek(s.cfg.SeekSmall)
	case ActionForwardLarge:
		s.seek(s.cfg.SeekLarge)
	case ActionMark:
		pos := s.ctl.Position()
		s.window.Record(pos)
		s.status = "marked " + formatClock(pos)
	case ActionLeftWider:
		s.window.NudgeLeft(-s.cfg.NudgeStep)
		s.status = "window " + s.windowText()
	case ActionLeftNarrower:
		s.window.NudgeLeft(s.cfg.NudgeStep)
		s.status = "window " + s.windowText()
	case ActionRightNarrower:
		s.window.NudgeRight(-s.cfg.NudgeStep)
		s.status = "window " + s.windowText()
	case ActionRightWider:
		s.window.NudgeRight(s.cfg.NudgeStep)
		s.status = "window " + s.windowText()
	case ActionCut:
		s.cut()
	}
	return false
}

func (s *EditSession) toggle() {
	if err := s.ctl.Toggle(); err != nil {
		s.status = "playback failed: " + err.Error()
		log.Errorf("playback error: %v", err)
		return
	}
	if s.ctl.Playing() {
		s.status = "playing"
	} else {
		s.status = "paused"
	}
}

func (s *EditSession) seek(delta time.Duration) {
	pos := s.ctl.Seek(delta)
	s.status = "at " + formatClock(pos)
}

// cut exports the window, publishes its token and queues a preview. Every
// failure is reported on the status line and the session carries on.
func (s *EditSession) cut() {
	s.ctl.Pause()
	s.ctl.StopPreview()

	l, r := s.window.Span()
	start := time.Now()
	clip, err := s.exporter.Export(s.track, l, r)
	if err != nil {
		s.status = exportErrorText(err)
		log.Warnf("export failed: %v", err)
		return
	}
	s.exports++
	s.lastClip = &clip
	log.ClipExported(log.Export{
		Source:   s.track.Path,
		Filename: clip.Filename,
		Start:    clip.Start,
		End:      clip.End,
		Length:   clip.Duration(),
		Format:   string(s.exporter.Format),
		EncodeMs: float64(time.Since(start).Microseconds()) / 1000,
	})

	s.status = "saved " + clip.Filename
	if err := s.publisher.Publish(clip.Token); err != nil {
		s.status += ", clipboard failed: " + publishErrorText(err)
		log.Warnf("%v", err)
	} else {
		s.status = "copied " + clip.Token
	}

	if !s.cfg.Preview {
		return
	}
	if err := s.ctl.LoadPreview(clip.Path); err != nil {
		s.status += " (preview unavailable)"
		log.Warnf("preview: %v", err)
		return
	}
	if err := s.ctl.PlayPreview(); err != nil {
		s.status += " (preview failed)"
		log.Warnf("preview: %v", err)
	}
}

func exportErrorText(err error) string {
	var de *export.DirError
	switch {
	case errors.Is(err, export.ErrEmptyWindow):
		return "nothing to cut: mark two different positions"
	case errors.As(err, &de):
		return "cannot write to " + de.Dir + ": " + de.Err.Error()
	}
	return "export failed: " + err.Error()
}

func publishErrorText(err error) string {
	var pe *clipboard.PublishError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func (s *EditSession) windowText() string {
	l, r := s.window.Span()
	return formatClock(l) + " - " + formatClock(r)
}

func (s *EditSession) Close() {
	s.ctl.Close()
	log.SessionEnd(s.exports)
}

// formatClock renders d as HH:MM:SS.t, truncating to tenths.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int64(d / (100 * time.Millisecond))
	h := tenths / 36000
	m := tenths / 600 % 60
	sec := tenths / 10 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%d", h, m, sec, tenths%10)
}
