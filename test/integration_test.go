//go:build integration

package test_test

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("ANKICUT_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "ANKICUT_TEST_BIN not set; build ankicut and point it at the binary")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// generateToneWAV writes a 16-bit mono 440 Hz tone.
func generateToneWAV(path string, sampleRate int, durationS float64) error {
	const headerSize = 44
	numSamples := int(float64(sampleRate) * durationS)
	dataSize := numSamples * 2

	buf := make([]byte, headerSize+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(headerSize-8+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i := 0; i < numSamples; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate)))
		binary.LittleEndian.PutUint16(buf[headerSize+i*2:], uint16(v))
	}
	return os.WriteFile(path, buf, 0644)
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

type result struct {
	logDir   string
	mediaDir string
	out      string
	err      error
}

func runAnkicut(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	r := result{logDir: t.TempDir(), mediaDir: t.TempDir()}
	cmdArgs := append([]string{"--logpath", r.logDir, "--anki-media", r.mediaDir, "--headless"}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())

	out, err := cmd.CombinedOutput()
	r.out, r.err = string(out), err
	return r
}

func source(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := generateToneWAV(path, 16000, 30); err != nil {
		t.Fatal(err)
	}
	return path
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func TestCutWritesClipAndLogs(t *testing.T) {
	r := runAnkicut(t, cmds("forward", "mark", "forward-large", "mark", "cut", "quit"), source(t))
	if r.err != nil {
		t.Fatalf("ankicut exited with error: %v\noutput: %s", r.err, r.out)
	}
	if !regexp.MustCompile(`clipboard: \[sound:\d{8}-\d{6}\.flac\]`).MatchString(r.out) {
		t.Errorf("no token in output:\n%s", r.out)
	}

	entries, _ := os.ReadDir(r.mediaDir)
	if len(entries) != 1 {
		t.Fatalf("expected one clip, got %d", len(entries))
	}

	exports := readLog(t, r.logDir, "exports_log.txt")
	if !strings.Contains(exports, entries[0].Name()) {
		t.Errorf("exports_log.txt missing %s: %q", entries[0].Name(), exports)
	}
	diag := readLog(t, r.logDir, "diagnostics_log.txt")
	for _, want := range []string{"session_start", "clip_exported", "session_end"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics missing %s", want)
		}
	}
}

func TestTwoCutsSameSecond(t *testing.T) {
	r := runAnkicut(t, cmds("mark", "forward", "mark", "cut", "cut", "quit"), source(t))
	if r.err != nil {
		t.Fatalf("ankicut exited with error: %v\noutput: %s", r.err, r.out)
	}
	entries, _ := os.ReadDir(r.mediaDir)
	if len(entries) != 2 {
		t.Fatalf("expected two clips, got %d", len(entries))
	}
}

func TestEmptyWindowWritesNothing(t *testing.T) {
	r := runAnkicut(t, cmds("cut", "quit"), source(t))
	if r.err != nil {
		t.Fatalf("ankicut exited with error: %v\noutput: %s", r.err, r.out)
	}
	if !strings.Contains(r.out, "nothing to cut") {
		t.Errorf("output %q", r.out)
	}
	entries, _ := os.ReadDir(r.mediaDir)
	if len(entries) != 0 {
		t.Errorf("expected no clips, got %d", len(entries))
	}
}

func TestMissingSourceExitsOne(t *testing.T) {
	r := runAnkicut(t, "", filepath.Join(t.TempDir(), "missing.mp3"))
	ee, ok := r.err.(*exec.ExitError)
	if !ok || ee.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v\noutput: %s", r.err, r.out)
	}
}

func TestMP3Export(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	r := runAnkicut(t, cmds("mark", "forward", "mark", "cut", "quit"), "--format", "mp3", source(t))
	if r.err != nil {
		t.Fatalf("ankicut exited with error: %v\noutput: %s", r.err, r.out)
	}
	if !strings.Contains(r.out, ".mp3]") {
		t.Errorf("no mp3 token in output:\n%s", r.out)
	}
}
