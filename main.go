package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"ankicut/clipboard"
	"ankicut/config"
	"ankicut/doctor"
	"ankicut/export"
	"ankicut/log"
	"ankicut/player"
	"ankicut/shutdown"
	"ankicut/track"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	mediaDir  string
	format    string
	tick      time.Duration
	seekSmall time.Duration
	seekLarge time.Duration
	nudge     time.Duration
	noPreview bool
	cfgPath   string
	logPath   string
	headless  bool
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var f cliFlags

	root := &cobra.Command{
		Use:   "ankicut [flags] FILE",
		Short: "Cut audio clips for Anki while listening",
		Long: `ankicut plays a media file, lets you mark an in/out window with the
keyboard and writes the window to your Anki media folder. The
[sound:...] reference for the new clip is copied to the clipboard.`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

			if err := resolveConfig(&cfg, f, changed); err != nil {
				return err
			}
			return run(cmd, cfg, args[0], f.headless)
		},
	}

	fs := root.Flags()
	fs.StringVar(&f.mediaDir, "anki-media", "", "Anki collection.media directory (env ANKI_MEDIA)")
	fs.StringVar(&f.format, "format", cfg.Format, "clip format: flac, wav, or mp3 (env ANKICUT_FORMAT)")
	fs.DurationVar(&f.tick, "tick", cfg.TickInterval, "screen refresh interval (env ANKICUT_TICK)")
	fs.DurationVar(&f.seekSmall, "seek-small", cfg.SeekSmall, "short seek step")
	fs.DurationVar(&f.seekLarge, "seek-large", cfg.SeekLarge, "long seek step")
	fs.DurationVar(&f.nudge, "nudge-step", cfg.NudgeStep, "window edge nudge step")
	fs.BoolVar(&f.noPreview, "no-preview", false, "do not play the clip after cutting")
	fs.StringVar(&f.cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/ankicut/config.toml)")
	fs.StringVar(&f.logPath, "logpath", "", "log directory (env ANKICUT_LOG_PATH, default: OS-specific location)")
	fs.BoolVar(&f.headless, "headless", false, "read commands from stdin instead of the keyboard")

	root.AddCommand(newDoctorCmd())
	return root
}

func newDoctorCmd() *cobra.Command {
	var (
		f       cliFlags
		noAudio bool
	)
	cmd := &cobra.Command{
		Use:   "doctor [FILE]",
		Short: "Check ffmpeg, clipboard, audio output and the media directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(fl *pflag.Flag) { changed[fl.Name] = true })

			// The media directory is checked by the doctor itself.
			cfg := config.Default()
			if err := layerConfig(&cfg, f, changed); err != nil {
				return err
			}
			if err := cfg.ValidateSettings(); err != nil {
				return err
			}
			opts := doctor.Options{MediaDir: cfg.MediaDir, NoAudio: noAudio}
			if len(args) == 1 {
				opts.Source = args[0]
			}
			if code := doctor.Run(cmd.OutOrStdout(), doctor.DefaultChecks(opts)); code != 0 {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.mediaDir, "anki-media", "", "Anki collection.media directory (env ANKI_MEDIA)")
	fs.StringVar(&f.cfgPath, "config", "", "config file (default $XDG_CONFIG_HOME/ankicut/config.toml)")
	fs.BoolVar(&noAudio, "no-audio", false, "skip the audio output check")
	return cmd
}

// resolveConfig layers the configuration and validates it.
func resolveConfig(cfg *config.Config, f cliFlags, changed map[string]bool) error {
	if err := layerConfig(cfg, f, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

// layerConfig applies flags, environment and the config file over defaults.
func layerConfig(cfg *config.Config, f cliFlags, changed map[string]bool) error {
	if changed["anki-media"] {
		cfg.MediaDir = f.mediaDir
	}
	if changed["format"] {
		cfg.Format = f.format
	}
	if changed["tick"] {
		cfg.TickInterval = f.tick
	}
	if changed["seek-small"] {
		cfg.SeekSmall = f.seekSmall
	}
	if changed["seek-large"] {
		cfg.SeekLarge = f.seekLarge
	}
	if changed["nudge-step"] {
		cfg.NudgeStep = f.nudge
	}
	if changed["no-preview"] {
		cfg.Preview = !f.noPreview
	}
	cfg.LogPath = f.logPath

	cfgFile := f.cfgPath
	if cfgFile == "" {
		cfgFile = config.DefaultPath()
	}
	if cfgFile != "" && (f.cfgPath != "" || config.FileExists(cfgFile)) {
		fc, err := config.LoadFile(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := config.ApplyFile(cfg, fc, changed); err != nil {
			return err
		}
	}
	return config.ApplyEnv(cfg, changed)
}

func run(cmd *cobra.Command, cfg config.Config, path string, headless bool) error {
	logDir, err := log.ResolveDir(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to resolve log directory: %w", err)
	}
	log.SetDir(logDir)
	initCrashLog()
	if err := log.Init(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	t, err := track.Load(path)
	if err != nil {
		log.Errorf("%v", err)
		return err
	}

	id := uuid.New().String()
	log.SessionStart(id, t.Path, cfg.MediaDir, cfg.Format)
	log.Infof("loaded %s: %s, %d Hz, %d ch", t.Path, t.Duration(), t.SampleRate, t.Channels)

	exporter := export.New(cfg.MediaDir, cfg.Kind())

	if headless {
		out := cmd.OutOrStdout()
		pub := clipboard.NewPublisherFunc(func(token string) error {
			_, err := fmt.Fprintln(out, "clipboard:", token)
			return err
		})
		ctl := player.NewController(player.NewFake(), t.Duration(), func(string) (player.Player, error) {
			return player.NewFake(), nil
		})
		sess := NewEditSession(t, ctl, exporter, pub, cfg)
		defer sess.Close()
		return runHeadless(sess, cmd.InOrStdin(), out)
	}

	if !isInteractive(os.Stdin) || !isInteractive(os.Stdout) {
		return errors.New("ankicut needs an interactive terminal (use --headless for scripted input)")
	}
	if !clipboard.Available() {
		log.Warn("no clipboard helper found; tokens will only be shown on screen")
	}

	mainPlayer, err := player.Open(t)
	if err != nil {
		log.Errorf("audio device: %v", err)
		return fmt.Errorf("opening audio device: %w", err)
	}
	ctl := player.NewController(mainPlayer, t.Duration(), player.OpenFile)
	sess := NewEditSession(t, ctl, exporter, clipboard.NewPublisher(), cfg)
	defer sess.Close()
	if err := sess.Start(); err != nil {
		log.Errorf("playback: %v", err)
		return fmt.Errorf("starting playback: %w", err)
	}

	model := newTUIModel(sess, cfg.TickInterval)
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.setWidth(w)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())

	stop := shutdown.OnSignal(func(sig os.Signal) {
		log.Infof("%v received, quitting", sig)
		program.Quit()
	})
	defer stop()

	if _, err := program.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		return err
	}
	if clip := sess.LastClip(); clip != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "last clip: %s %s\n", clip.Path, clip.Token)
	}
	return nil
}

func isInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// initCrashLog appends Go runtime crash output to crash_log.txt in the log
// directory.
func initCrashLog() {
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}
