package config

import "os"

// ApplyEnv copies ANKI_MEDIA, ANKICUT_FORMAT and ANKICUT_TICK into cfg,
// skipping flags in changed.
func ApplyEnv(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("anki-media", os.Getenv("ANKI_MEDIA"), &cfg.MediaDir)
	s.setString("format", os.Getenv("ANKICUT_FORMAT"), &cfg.Format)
	return s.setDuration("tick", os.Getenv("ANKICUT_TICK"), &cfg.TickInterval)
}
