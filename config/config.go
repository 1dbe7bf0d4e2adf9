// Package config layers ankicut settings: defaults, then the TOML file,
// then environment, then explicitly set flags.
package config

import (
	"fmt"
	"os"
	"time"

	"ankicut/encoder"
)

// Config holds the resolved editor settings.
type Config struct {
	MediaDir     string
	Format       string
	TickInterval time.Duration
	SeekSmall    time.Duration
	SeekLarge    time.Duration
	NudgeStep    time.Duration
	Preview      bool
	LogPath      string
}

func Default() Config {
	return Config{
		MediaDir:     ".",
		Format:       string(encoder.FLAC),
		TickInterval: 500 * time.Millisecond,
		SeekSmall:    3 * time.Second,
		SeekLarge:    10 * time.Second,
		NudgeStep:    200 * time.Millisecond,
		Preview:      true,
	}
}

// Validate checks the configuration, including that MediaDir exists, and
// fills derived defaults.
func (c *Config) Validate() error {
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	fi, err := os.Stat(c.MediaDir)
	if err != nil {
		return fmt.Errorf("media directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("media directory %s is not a directory", c.MediaDir)
	}
	return nil
}

// ValidateSettings is Validate without touching the filesystem.
func (c *Config) ValidateSettings() error {
	if c.MediaDir == "" {
		c.MediaDir = "."
	}
	if _, err := encoder.ParseKind(c.Format); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.SeekSmall <= 0 || c.SeekLarge <= 0 {
		return fmt.Errorf("seek steps must be positive")
	}
	if c.NudgeStep <= 0 {
		return fmt.Errorf("nudge step must be positive")
	}
	return nil
}

// Kind returns the validated export format.
func (c *Config) Kind() encoder.Kind {
	k, _ := encoder.ParseKind(c.Format)
	return k
}

// configSetter only writes values whose flag was not set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}
