package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with string durations for TOML.
type FileConfig struct {
	MediaDir  string `toml:"media_dir"`
	Format    string `toml:"format"`
	Tick      string `toml:"tick"`
	SeekSmall string `toml:"seek_small"`
	SeekLarge string `toml:"seek_large"`
	NudgeStep string `toml:"nudge_step"`
	Preview   *bool  `toml:"preview"`
}

func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/ankicut/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(h, ".config")
	}
	return filepath.Join(base, "ankicut", "config.toml")
}

// ApplyFile copies file values into cfg, skipping flags in changed.
func ApplyFile(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("anki-media", fc.MediaDir, &cfg.MediaDir)
	s.setString("format", fc.Format, &cfg.Format)

	if err := s.setDuration("tick", fc.Tick, &cfg.TickInterval); err != nil {
		return err
	}
	if err := s.setDuration("seek-small", fc.SeekSmall, &cfg.SeekSmall); err != nil {
		return err
	}
	if err := s.setDuration("seek-large", fc.SeekLarge, &cfg.SeekLarge); err != nil {
		return err
	}
	if err := s.setDuration("nudge-step", fc.NudgeStep, &cfg.NudgeStep); err != nil {
		return err
	}

	s.setBool("no-preview", fc.Preview, &cfg.Preview)
	return nil
}

func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
