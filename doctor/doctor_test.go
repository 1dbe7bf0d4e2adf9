package doctor

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunAllPass(t *testing.T) {
	var out bytes.Buffer
	code := Run(&out, []Check{
		{Name: "one", Run: func() (string, error) { return "ok", nil }},
		{Name: "two", Run: func() (string, error) { return "fine", nil }},
	})
	if code != 0 {
		t.Errorf("code = %d, want 0", code)
	}
	for _, want := range []string{"[1/2] one", "PASS: ok", "[2/2] two", "Result", "All checks passed!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	var out bytes.Buffer
	ran := false
	code := Run(&out, []Check{
		{Name: "broken", Run: func() (string, error) { return "", errors.New("boom") }},
		{Name: "after", Run: func() (string, error) { ran = true; return "ok", nil }},
	})
	if code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if !ran {
		t.Error("later check skipped")
	}
	if !strings.Contains(out.String(), "FAIL: boom") || !strings.Contains(out.String(), "1 of 2 checks failed") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestCheckMediaDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := checkMediaDir(dir); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Error("probe file left behind")
	}

	if _, err := checkMediaDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing dir passed")
	}
}

func TestDefaultChecks(t *testing.T) {
	checks := DefaultChecks(Options{MediaDir: ".", NoAudio: true})
	if len(checks) != 3 {
		t.Fatalf("got %d checks, want 3", len(checks))
	}
	checks = DefaultChecks(Options{MediaDir: ".", Source: "/tmp/a.mp3"})
	if len(checks) != 5 || checks[4].Name != "Decode a.mp3" {
		t.Errorf("unexpected checks %v", len(checks))
	}
}

func TestCheckSourceMissing(t *testing.T) {
	if _, err := checkSource(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("missing source passed")
	}
}
