package encoder

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavPCM = 1

type WavEncoder struct {
	enc         *wav.Encoder
	format      Format
	buf         audio.IntBuffer
	totalFrames uint64
	mu          sync.Mutex
}

// NewWav writes a 16-bit PCM RIFF file. The header sizes are patched on
// Close, which is why w must be seekable.
func NewWav(w io.WriteSeeker, f Format) (*WavEncoder, error) {
	if f.Channels < 1 {
		return nil, fmt.Errorf("wav: invalid channel count %d", f.Channels)
	}
	return &WavEncoder{
		enc:    wav.NewEncoder(w, f.SampleRate, BitsPerSample, f.Channels, wavPCM),
		format: f,
		buf: audio.IntBuffer{
			Format:         &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			SourceBitDepth: BitsPerSample,
		},
	}, nil
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := e.buf.Data[:0]
	for _, s := range block {
		data = append(data, int(s))
	}
	e.buf.Data = data
	if err := e.enc.Write(&e.buf); err != nil {
		return fmt.Errorf("writing wav block: %w", err)
	}
	e.totalFrames += uint64(len(block) / e.format.Channels)
	return nil
}

func (e *WavEncoder) Close() error {
	return e.enc.Close()
}

func (e *WavEncoder) TotalFrames() uint64 {
	return e.totalFrames
}
