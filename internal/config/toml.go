// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typeout/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Typing TypingConfig `toml:"typing"`
}

// TypingConfig maps typing animation settings.
type TypingConfig struct {
	Speed             *int    `toml:"speed"`
	PauseBetweenLines *int    `toml:"pause-between-lines"`
	Sound             *bool   `toml:"sound"`
	Theme             *string `toml:"theme"`
	Cursor            *bool   `toml:"cursor"`
	CursorBlink       *int    `toml:"cursor-blink"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Apply overlays the values present in the file onto settings.
func (c TypingConfig) Apply(settings model.TypingSettings) model.TypingSettings {
	if c.Speed != nil {
		settings.TypingSpeed = *c.Speed
	}
	if c.PauseBetweenLines != nil {
		settings.PauseBetweenLines = *c.PauseBetweenLines
	}
	if c.Sound != nil {
		settings.SoundEnabled = *c.Sound
	}
	if c.Theme != nil {
		settings.Theme = *c.Theme
	}
	if c.Cursor != nil {
		settings.CursorVisible = *c.Cursor
	}
	if c.CursorBlink != nil {
		settings.CursorBlink = *c.CursorBlink
	}
	return settings
}
