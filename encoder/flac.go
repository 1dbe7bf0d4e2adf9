package encoder

import (
	"fmt"
	"io"
	"sync"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

type FlacEncoder struct {
	enc         *flac.Encoder
	format      Format
	channels    frame.Channels
	totalFrames uint64
	mu          sync.Mutex
}

// NewFlac writes verbatim (uncompressed-subframe) FLAC. Close closes w when
// it implements io.Closer.
func NewFlac(w io.Writer, f Format) (*FlacEncoder, error) {
	var channels frame.Channels
	switch f.Channels {
	case 1:
		channels = frame.ChannelsMono
	case 2:
		channels = frame.ChannelsLR
	default:
		return nil, fmt.Errorf("flac: unsupported channel count %d", f.Channels)
	}
	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(f.SampleRate),
		NChannels:     uint8(f.Channels),
		BitsPerSample: BitsPerSample,
		NSamples:      0,
	}
	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return nil, fmt.Errorf("creating flac encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)
	return &FlacEncoder{enc: enc, format: f, channels: channels}, nil
}

func (e *FlacEncoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	nch := e.format.Channels
	n := len(block) / nch
	if n == 0 {
		return nil
	}
	if n > BlockSize {
		return fmt.Errorf("flac: block of %d frames exceeds %d", n, BlockSize)
	}

	subframes := make([]*frame.Subframe, nch)
	for ch := range subframes {
		samples32 := make([]int32, n)
		for i := range samples32 {
			samples32[i] = int32(block[i*nch+ch])
		}
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred: frame.PredVerbatim,
			},
			Samples:  samples32,
			NSamples: n,
		}
	}

	f := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(n),
			SampleRate:    uint32(e.format.SampleRate),
			Channels:      e.channels,
			BitsPerSample: BitsPerSample,
		},
		Subframes: subframes,
	}

	if err := e.enc.WriteFrame(f); err != nil {
		return fmt.Errorf("writing flac frame: %w", err)
	}
	e.totalFrames += uint64(n)
	return nil
}

func (e *FlacEncoder) Close() error {
	return e.enc.Close()
}

func (e *FlacEncoder) TotalFrames() uint64 {
	return e.totalFrames
}
