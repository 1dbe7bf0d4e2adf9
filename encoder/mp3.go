package encoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

const mp3Bitrate = "128k"

// Mp3Encoder pipes PCM through an ffmpeg subprocess and copies the MP3
// stream it produces into w.
type Mp3Encoder struct {
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stderr      bytes.Buffer
	format      Format
	scratch     []byte
	totalFrames uint64
	mu          sync.Mutex
}

func NewMp3(w io.Writer, f Format) (*Mp3Encoder, error) {
	e := &Mp3Encoder{format: f}
	e.cmd = exec.Command("ffmpeg",
		"-f", "s16le",
		"-ar", fmt.Sprint(f.SampleRate),
		"-ac", fmt.Sprint(f.Channels),
		"-i", "pipe:0",
		"-f", "mp3",
		"-b:a", mp3Bitrate,
		"-loglevel", "error",
		"pipe:1",
	)
	e.cmd.Stdout = w
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	e.stdin = stdin
	if err := e.cmd.Start(); err != nil {
		return nil, fmt.Errorf("mp3: starting ffmpeg: %w", err)
	}
	return e, nil
}

func (e *Mp3Encoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	need := len(block) * 2
	if cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	buf := e.scratch[:need]
	for i, s := range block {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := e.stdin.Write(buf); err != nil {
		return fmt.Errorf("mp3: feeding ffmpeg: %w", err)
	}
	e.totalFrames += uint64(len(block) / e.format.Channels)
	return nil
}

// Close flushes ffmpeg and waits for it to exit.
func (e *Mp3Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		if msg := strings.TrimSpace(e.stderr.String()); msg != "" {
			return fmt.Errorf("mp3: ffmpeg: %s", msg)
		}
		return fmt.Errorf("mp3: ffmpeg: %w", err)
	}
	return nil
}

func (e *Mp3Encoder) TotalFrames() uint64 {
	return e.totalFrames
}
