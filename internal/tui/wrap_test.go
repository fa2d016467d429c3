package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), plain, plain, true)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[2].s != plain.Render(" ") || runes[2].width != 1 {
		t.Fatalf("expected trailing cursor cell")
	}
}

func TestBuildStyledRunesNoCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("a\nb"), plain, plain, false)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if !runes[1].isNewline {
		t.Fatalf("expected newline marker")
	}
}

func TestBuildStyledRunesExpandsTabs(t *testing.T) {
	runes := buildStyledRunes([]rune("\tx"), plain, plain, false)
	if runes[0].width != 4 || !runes[0].isSpace {
		t.Fatalf("expected tab to expand to a 4-wide space")
	}
}

func TestWrapKeepsHardNewlines(t *testing.T) {
	runes := buildStyledRunes([]rune("ab\ncd"), plain, plain, false)
	if got := wrapStyledRunes(runes, 10); got != "ab\ncd" {
		t.Fatalf("unexpected wrap: %q", got)
	}
	if got := wrapStyledRunes(runes, 0); got != "ab\ncd" {
		t.Fatalf("unexpected unwrapped output: %q", got)
	}
}

func TestWrapBreaksAtSpace(t *testing.T) {
	runes := buildStyledRunes([]rune("one two three"), plain, plain, false)
	if got := wrapStyledRunes(runes, 8); got != "one two \nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapBreaksLongWord(t *testing.T) {
	runes := buildStyledRunes([]rune("abcdef"), plain, plain, false)
	if got := wrapStyledRunes(runes, 4); got != "abcd\nef" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapWideRunes(t *testing.T) {
	runes := buildStyledRunes([]rune("日本語"), plain, plain, false)
	if got := wrapStyledRunes(runes, 4); got != "日本\n語" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
