//go:build linux

package player

import (
	"fmt"

	"github.com/jfreymuth/pulse"

	"ankicut/track"
)

type pulsePlayer struct {
	*stream
	client   *pulse.Client
	playback *pulse.PlaybackStream
}

// Open starts a PulseAudio playback stream for t. The stream runs for the
// player's lifetime and emits silence while paused.
func Open(t *track.Track) (Player, error) {
	c, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}

	s := newStream(t)
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		s.read(buf)
		return len(buf), nil
	})

	var layout pulse.PlaybackOption = pulse.PlaybackMono
	if t.Channels == 2 {
		layout = pulse.PlaybackStereo
	}
	pb, err := c.NewPlayback(reader,
		layout,
		pulse.PlaybackSampleRate(t.SampleRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("pulse playback: %w", err)
	}
	pb.Start()

	return &pulsePlayer{stream: s, client: c, playback: pb}, nil
}

func (p *pulsePlayer) Close() {
	p.Pause()
	p.playback.Stop()
	p.playback.Close()
	p.client.Close()
}
