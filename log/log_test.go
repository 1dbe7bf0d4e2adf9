package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("ANKICUT_LOG_PATH", "/tmp/ankicut-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/ankicut-env-log" {
		t.Errorf("got %q, want /tmp/ankicut-env-log", got)
	}
}

func TestResolveDirFlagBeatsEnv(t *testing.T) {
	t.Setenv("ANKICUT_LOG_PATH", "/tmp/ankicut-env-log")
	got, err := ResolveDir("/tmp/flag-log")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/flag-log" {
		t.Errorf("got %q, want /tmp/flag-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("ANKICUT_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "ankicut") {
		t.Errorf("default directory %q does not mention ankicut", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "exports_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestClipExported(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	SessionStart("3f1c", "lecture.mp3", "/media", "flac")
	ClipExported(Export{
		Source:   "lecture.mp3",
		Filename: "20240309-140507.flac",
		Start:    4800 * time.Millisecond,
		End:      15 * time.Second,
		Length:   10200 * time.Millisecond,
		Format:   "flac",
	})

	data, err := os.ReadFile(filepath.Join(tmp, "exports_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Split(strings.TrimSuffix(string(data), "\n"), "\t")
	if len(fields) != 6 {
		t.Fatalf("expected 6 tab-separated fields, got %q", data)
	}
	if fields[2] != "20240309-140507.flac" || fields[3] != "4.8s" || fields[4] != "15s" {
		t.Errorf("unexpected fields %q", fields)
	}

	diag, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(diag), "clip_exported") || !strings.Contains(string(diag), "3f1c") ||
		!strings.Contains(string(diag), "clip_s=10.2") {
		t.Errorf("diagnostics log missing export event: %q", diag)
	}
}

func TestNoopBeforeInit(t *testing.T) {
	setupLogDir(t)
	Infof("dropped %d", 1)
	ClipExported(Export{Filename: "x.flac"})
	SessionEnd(0)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
