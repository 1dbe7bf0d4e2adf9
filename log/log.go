package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	exportFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
	sessionID  string
)

// Export describes one written clip for the exports log.
type Export struct {
	Source   string
	Filename string
	Start    time.Duration
	End      time.Duration
	Length   time.Duration
	Format   string
	EncodeMs float64
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: --logpath flag
	if flagPath != "" {
		return absFromWd(flagPath)
	}

	// Priority 2: ANKICUT_LOG_PATH environment variable
	if envPath := os.Getenv("ANKICUT_LOG_PATH"); envPath != "" {
		return absFromWd(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absFromWd(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	exportPath := filepath.Join(dir, "exports_log.txt")
	exportFile, err = os.OpenFile(exportPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if exportFile != nil {
		exportFile.Close()
		exportFile = nil
	}
	logReady = false
	sessionID = ""
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// ClipExported records a clip in both logs. The exports log gets one
// tab-separated line: time, pid, filename, start, end, source.
func ClipExported(e Export) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", sessionID).
		Str("file", e.Filename).
		Str("format", e.Format).
		Dur("start", e.Start).
		Dur("end", e.End).
		Float64("clip_s", e.Length.Seconds()).
		Float64("encode_ms", e.EncodeMs).
		Msg("clip_exported")

	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\t%s\t%s\n",
		time.Now().Format("2006-01-02 15:04:05"), pid,
		e.Filename, e.Start, e.End, e.Source)
	exportFile.WriteString(line)
}

func SessionStart(id, source, mediaDir, format string) {
	if !logReady {
		return
	}
	sessionID = id
	diagLog.Info().
		Str("session", id).
		Str("source", source).
		Str("media_dir", mediaDir).
		Str("format", format).
		Msg("session_start")
}

func SessionEnd(exports int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("session", sessionID).
		Int("exports", exports).
		Msg("session_end")
}
