package encoder

import (
	"fmt"
	"io"
)

const (
	BitsPerSample = 16
	BlockSize     = 4096 // frames per EncodeBlock call
)

// Format describes the interleaved PCM handed to an encoder.
type Format struct {
	SampleRate int
	Channels   int
}

// Encoder consumes interleaved 16-bit blocks and writes an audio file.
type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	TotalFrames() uint64
}

// Kind names an output container.
type Kind string

const (
	FLAC Kind = "flac"
	WAV  Kind = "wav"
	MP3  Kind = "mp3"
)

func (k Kind) Ext() string { return string(k) }

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case FLAC, WAV, MP3:
		return k, nil
	}
	return "", fmt.Errorf("unknown format %q (use flac, wav, or mp3)", s)
}

// New returns an encoder of the given kind writing to w.
func New(kind Kind, w io.WriteSeeker, f Format) (Encoder, error) {
	switch kind {
	case FLAC:
		return NewFlac(w, f)
	case WAV:
		return NewWav(w, f)
	case MP3:
		return NewMp3(w, f)
	}
	return nil, fmt.Errorf("unknown format %q", kind)
}
