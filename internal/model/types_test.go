package model

import "testing"

func TestPhase(t *testing.T) {
	cases := []struct {
		state TypingState
		want  Phase
	}{
		{TypingState{}, PhaseIdle},
		{TypingState{IsTyping: true}, PhaseRunning},
		{TypingState{IsTyping: true, IsPaused: true}, PhasePaused},
	}
	for _, tc := range cases {
		if got := tc.state.Phase(); got != tc.want {
			t.Fatalf("phase of %+v: expected %s, got %s", tc.state, tc.want, got)
		}
	}
}

func TestDefaultSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if s.TypingSpeed != 50 || s.PauseBetweenLines != 200 || !s.SoundEnabled {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	s.TypingSpeed = -1
	if err := s.Validate(); err == nil {
		t.Fatalf("expected negative speed to be rejected")
	}
}
