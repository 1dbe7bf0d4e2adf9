package track

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

// Sample format requested from ffmpeg for containers we don't decode natively.
const (
	ffmpegSampleRate = 44100
	ffmpegChannels   = 2
)

// Load decodes the file at path. WAV and FLAC are decoded in-process, anything
// else (and multichannel WAV/FLAC) goes through ffmpeg. Failures are *OpenError.
func Load(path string) (*Track, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	var (
		t   *Track
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		t, err = decodeWAV(path)
	case ".flac":
		t, err = decodeFLAC(path)
	default:
		t, err = decodeFFmpeg(path)
	}
	if errors.Is(err, errTooManyChannels) {
		t, err = decodeFFmpeg(path)
	}
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if t.Frames() == 0 {
		return nil, &OpenError{Path: path, Err: errors.New("no audio data")}
	}
	return t, nil
}

var errTooManyChannels = errors.New("more than two channels")

func decodeWAV(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV data: %w", err)
	}
	channels := int(d.NumChans)
	if channels > 2 {
		return nil, errTooManyChannels
	}

	depth := int(d.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		if depth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = to16(v, depth)
	}
	if rem := len(samples) % channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}
	return New(path, samples, int(d.SampleRate), channels)
}

func decodeFLAC(path string) (*Track, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing flac: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	if channels > 2 {
		return nil, errTooManyChannels
	}
	depth := int(stream.Info.BitsPerSample)

	samples := make([]int16, 0, int(stream.Info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding flac frame: %w", err)
		}
		n := frame.Subframes[0].NSamples
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, to16(int(frame.Subframes[ch].Samples[i]), depth))
			}
		}
	}
	return New(path, samples, int(stream.Info.SampleRate), channels)
}

// decodeFFmpeg runs ffmpeg to decode any container it understands to raw
// interleaved stereo PCM.
func decodeFFmpeg(path string) (*Track, error) {
	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(ffmpegSampleRate),
		"-ac", fmt.Sprint(ffmpegChannels),
		"-loglevel", "error",
		"pipe:1",
	)
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("ffmpeg decode: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("ffmpeg decode: %w", err)
	}

	frameBytes := 2 * ffmpegChannels
	out = out[:len(out)-len(out)%frameBytes]
	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2:]))
	}
	return New(path, samples, ffmpegSampleRate, ffmpegChannels)
}

// to16 rescales a signed sample of the given bit depth to 16 bits.
func to16(v, depth int) int16 {
	switch {
	case depth > BitsPerSample:
		v >>= depth - BitsPerSample
	case depth < BitsPerSample && depth > 0:
		v <<= BitsPerSample - depth
	}
	return int16(v)
}
