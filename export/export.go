// Package export writes the marked window of a track to the media directory.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ankicut/encoder"
	"ankicut/track"
)

const stampLayout = "20060102-150405"

var ErrEmptyWindow = errors.New("window is empty: mark two different positions")

// DirError is returned when the media directory is missing or not writable.
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	return "media directory " + e.Dir + ": " + e.Err.Error()
}

func (e *DirError) Unwrap() error { return e.Err }

// Clip describes a file written by Export.
type Clip struct {
	Filename string
	Path     string
	Start    time.Duration
	End      time.Duration
	Frames   int
	Token    string
}

func (c Clip) Duration() time.Duration { return c.End - c.Start }

// SoundToken is the Anki field reference for a media file.
func SoundToken(filename string) string {
	return "[sound:" + filename + "]"
}

type Exporter struct {
	Dir    string
	Format encoder.Kind
	Now    func() time.Time
}

func New(dir string, format encoder.Kind) *Exporter {
	return &Exporter{Dir: dir, Format: format, Now: time.Now}
}

// Export encodes samples in [start, end) to a new timestamped file in Dir.
// It never overwrites an existing file.
func (x *Exporter) Export(t *track.Track, start, end time.Duration) (Clip, error) {
	if end <= start {
		return Clip{}, ErrEmptyWindow
	}
	samples := t.Slice(start, end)
	if len(samples) == 0 {
		return Clip{}, ErrEmptyWindow
	}

	fi, err := os.Stat(x.Dir)
	if err != nil {
		return Clip{}, &DirError{Dir: x.Dir, Err: err}
	}
	if !fi.IsDir() {
		return Clip{}, &DirError{Dir: x.Dir, Err: errors.New("not a directory")}
	}

	f, name, err := x.create()
	if err != nil {
		return Clip{}, err
	}
	path := f.Name()
	// Encoders may close f themselves.
	defer f.Close()

	frames, err := encode(f, x.Format, t, samples)
	if err != nil {
		f.Close()
		os.Remove(path)
		return Clip{}, fmt.Errorf("encoding %s: %w", name, err)
	}

	return Clip{
		Filename: name,
		Path:     path,
		Start:    start,
		End:      end,
		Frames:   int(frames),
		Token:    SoundToken(name),
	}, nil
}

func (x *Exporter) create() (*os.File, string, error) {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	stamp := now().Format(stampLayout)
	ext := x.Format.Ext()

	for n := 1; ; n++ {
		name := stamp + "." + ext
		if n > 1 {
			name = fmt.Sprintf("%s-%d.%s", stamp, n, ext)
		}
		path := filepath.Join(x.Dir, name)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", &DirError{Dir: x.Dir, Err: err}
		}
	}
}

// encode writes samples to f and returns the number of frames encoded.
func encode(f *os.File, kind encoder.Kind, t *track.Track, samples []int16) (uint64, error) {
	enc, err := encoder.New(kind, f, encoder.Format{SampleRate: t.SampleRate, Channels: t.Channels})
	if err != nil {
		return 0, err
	}
	step := encoder.BlockSize * t.Channels
	for off := 0; off < len(samples); off += step {
		if err := enc.EncodeBlock(samples[off:min(off+step, len(samples))]); err != nil {
			enc.Close()
			return 0, err
		}
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	return enc.TotalFrames(), nil
}
