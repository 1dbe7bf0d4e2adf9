// Package doctor checks that the tools and devices ankicut relies on work on
// this machine.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ankicut/clipboard"
	"ankicut/player"
	"ankicut/track"
)

// Check is one diagnostic. Run returns a short detail on success.
type Check struct {
	Name string
	Run  func() (string, error)
}

// Options selects what the default checks look at.
type Options struct {
	MediaDir string
	Source   string // optional media file to decode
	NoAudio  bool
}

// Run executes checks in order and returns an exit code (0=all pass, 1=any fail).
func Run(w io.Writer, checks []Check) int {
	fmt.Fprintln(w, "ankicut doctor - system diagnostics")
	fmt.Fprintln(w, "===================================")

	failed := 0
	results := make([]string, len(checks))
	for i, c := range checks {
		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(checks), c.Name)
		detail, err := c.Run()
		if err != nil {
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			results[i] = "FAIL"
			failed++
			continue
		}
		fmt.Fprintf(w, "  PASS: %s\n", detail)
		results[i] = "PASS"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryTable(checks, results))
	if failed == 0 {
		fmt.Fprintln(w, "All checks passed!")
		return 0
	}
	fmt.Fprintf(w, "%d of %d checks failed. See details above.\n", failed, len(checks))
	return 1
}

func summaryTable(checks []Check, results []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Check", "Result"})
	for i, c := range checks {
		tw.AppendRow(table.Row{i + 1, c.Name, results[i]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 3, Align: text.AlignCenter},
	})
	return tw.Render()
}

// DefaultChecks returns the checks for a normal installation.
func DefaultChecks(o Options) []Check {
	checks := []Check{
		{Name: "Media directory", Run: func() (string, error) { return checkMediaDir(o.MediaDir) }},
		{Name: "ffmpeg (mp3 export, other media)", Run: checkFFmpeg},
		{Name: "Clipboard", Run: checkClipboard},
	}
	if !o.NoAudio {
		checks = append(checks, Check{Name: "Audio output", Run: checkAudio})
	}
	if o.Source != "" {
		checks = append(checks, Check{Name: "Decode " + filepath.Base(o.Source), Run: func() (string, error) {
			return checkSource(o.Source)
		}})
	}
	return checks
}

func checkMediaDir(dir string) (string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	probe, err := os.CreateTemp(dir, ".ankicut-doctor-*")
	if err != nil {
		return "", fmt.Errorf("not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	abs, _ := filepath.Abs(dir)
	return abs + " is writable", nil
}

func checkFFmpeg() (string, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", errors.New("ffmpeg not found on PATH; only wav and flac sources with flac or wav export will work")
	}
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("running ffmpeg: %w", err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	return first, nil
}

func checkClipboard() (string, error) {
	if !clipboard.Available() {
		return "", errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
	}
	prev, _ := clipboard.Read()
	defer clipboard.Copy(prev)

	sentinel := fmt.Sprintf("[sound:ankicut-doctor-%d.flac]", time.Now().UnixNano())
	if err := clipboard.Copy(sentinel); err != nil {
		return "", fmt.Errorf("copy failed: %w", err)
	}
	got, err := clipboard.Read()
	if err != nil {
		return "", fmt.Errorf("read back failed: %w", err)
	}
	if got != sentinel {
		return "", fmt.Errorf("read back %q, want %q", got, sentinel)
	}
	return "copy and read back verified", nil
}

// checkAudio opens the output device with a short silent track.
func checkAudio() (string, error) {
	t, err := track.New("silence", make([]int16, 4410*2), 44100, 2)
	if err != nil {
		return "", err
	}
	p, err := player.Open(t)
	if err != nil {
		return "", fmt.Errorf("cannot open audio output: %w", err)
	}
	defer p.Close()
	if err := p.Play(); err != nil {
		return "", fmt.Errorf("cannot start playback: %w", err)
	}
	time.Sleep(150 * time.Millisecond)
	return "output device opened", nil
}

func checkSource(path string) (string, error) {
	t, err := track.Load(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, %d Hz, %d ch", t.Duration().Round(100*time.Millisecond), t.SampleRate, t.Channels), nil
}
