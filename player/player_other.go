//go:build !linux

package player

import (
	"encoding/binary"
	"fmt"

	"github.com/gen2brain/malgo"

	"ankicut/track"
)

type malgoPlayer struct {
	*stream
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	scratch []int16
}

// Open starts a miniaudio playback device for t. The device runs for the
// player's lifetime and emits silence while paused.
func Open(t *track.Track) (Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo context: %w", err)
	}

	p := &malgoPlayer{stream: newStream(t), ctx: ctx}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = uint32(t.Channels)
	config.SampleRate = uint32(t.SampleRate)

	dev, err := malgo.InitDevice(ctx.Context, config, malgo.DeviceCallbacks{
		Data: p.dataCallback,
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo start: %w", err)
	}
	p.device = dev
	return p, nil
}

func (p *malgoPlayer) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount) * p.channels
	if cap(p.scratch) < n {
		p.scratch = make([]int16, n)
	}
	buf := p.scratch[:n]
	p.read(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint16(pOutput[i*2:], uint16(s))
	}
}

func (p *malgoPlayer) Close() {
	p.Pause()
	p.device.Uninit()
	p.ctx.Uninit()
	p.ctx.Free()
}
