// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Factory defaults for typing settings.
const (
	DefaultTypingSpeed       = 50
	DefaultPauseBetweenLines = 200
	DefaultCursorBlink       = 500
	DefaultTheme             = "default"
)

// DefaultSourceText is animated when no source file is given.
const DefaultSourceText = `{
  "manifest_version": 3,
  "name": "Hello World",
  "description": "My first extension",
  "version": "1.0",
  "action": {
    "default_popup": "popup.html"
  }
}`

// Phase is the derived state of a typing run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	default:
		return "idle"
	}
}

// TypingState is the mutable progress record of the typing animation.
// CurrentLineIndex and CurrentCharIndex point at the next rune to reveal.
type TypingState struct {
	PreviewText      string
	IsTyping         bool
	IsPaused         bool
	CurrentLineIndex int
	CurrentCharIndex int
}

// Phase reports whether the state is idle, running or paused.
func (s TypingState) Phase() Phase {
	switch {
	case s.IsTyping && s.IsPaused:
		return PhasePaused
	case s.IsTyping:
		return PhaseRunning
	default:
		return PhaseIdle
	}
}

// TypingSettings is the read-only configuration snapshot for a run.
// Timings are in milliseconds.
type TypingSettings struct {
	TypingSpeed       int
	PauseBetweenLines int
	SoundEnabled      bool
	Theme             string
	CursorVisible     bool
	CursorBlink       int
}

// DefaultSettings returns the factory defaults.
func DefaultSettings() TypingSettings {
	return TypingSettings{
		TypingSpeed:       DefaultTypingSpeed,
		PauseBetweenLines: DefaultPauseBetweenLines,
		SoundEnabled:      true,
		Theme:             DefaultTheme,
		CursorVisible:     true,
		CursorBlink:       DefaultCursorBlink,
	}
}

// Validate rejects settings the engine cannot honor.
func (s TypingSettings) Validate() error {
	if s.TypingSpeed < 0 {
		return fmt.Errorf("typing speed must be >= 0")
	}
	if s.PauseBetweenLines < 0 {
		return fmt.Errorf("pause between lines must be >= 0")
	}
	if s.CursorBlink < 0 {
		return fmt.Errorf("cursor blink must be >= 0")
	}
	return nil
}

// Mutation changes one or more fields of a TypingState.
type Mutation func(*TypingState)

// SetPreview replaces the preview text.
func SetPreview(text string) Mutation {
	return func(s *TypingState) { s.PreviewText = text }
}

// SetTyping sets the typing flag.
func SetTyping(v bool) Mutation {
	return func(s *TypingState) { s.IsTyping = v }
}

// SetPaused sets the paused flag.
func SetPaused(v bool) Mutation {
	return func(s *TypingState) { s.IsPaused = v }
}

// SetCursor moves the cursor to the given line and rune offset.
func SetCursor(line, char int) Mutation {
	return func(s *TypingState) {
		s.CurrentLineIndex = line
		s.CurrentCharIndex = char
	}
}

// ResetProgress returns every progress field to its initial value.
func ResetProgress() Mutation {
	return func(s *TypingState) { *s = TypingState{} }
}

// RunOutcome describes how a run ended.
type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeStopped   RunOutcome = "stopped"
)

// RunRecord captures a finished typing run.
type RunRecord struct {
	ID                string
	StartedAt         time.Time
	EndedAt           time.Time
	Outcome           RunOutcome
	TypingSpeed       int
	PauseBetweenLines int
	SourceChars       int
	RevealedChars     int
	DurationMs        int64
}

// HistoryConfig defines filters for listing recorded runs.
type HistoryConfig struct {
	Since *time.Time
	Last  int
}
