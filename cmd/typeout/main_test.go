package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typeout/internal/engine"
	"github.com/verte-zerg/typeout/internal/model"
	"github.com/verte-zerg/typeout/internal/state"
	"github.com/verte-zerg/typeout/internal/store"
)

func TestNormalizeSource(t *testing.T) {
	got := normalizeSource("a\r\nb\r\n")
	if got != "a\nb" {
		t.Fatalf("expected %q, got %q", "a\nb", got)
	}
}

func TestDeltaPrinterWritesOnlyNewText(t *testing.T) {
	var buf bytes.Buffer
	p := &deltaPrinter{w: &buf}
	p.print("a")
	p.print("ab")
	p.print("ab")
	p.print("ab\nc")
	if buf.String() != "ab\nc" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestReadSourceDefaultsAndStdin(t *testing.T) {
	cmd := &cobra.Command{}
	got, err := readSource(cmd, nil)
	if err != nil {
		t.Fatalf("read default: %v", err)
	}
	if got != model.DefaultSourceText {
		t.Fatalf("expected default source text")
	}

	cmd.SetIn(strings.NewReader("hi\n"))
	got, err = readSource(cmd, []string{"-"})
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
}

func TestRunPlainStreamsAndRecords(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	typing := state.New(model.TypingState{})
	eng := engine.New(typing, nil)
	settings := model.DefaultSettings()
	settings.TypingSpeed = 0
	settings.PauseBetweenLines = 0

	var out bytes.Buffer
	if err := runPlain(context.Background(), &out, typing, eng, db, "ab\ncd", settings); err != nil {
		t.Fatalf("runPlain: %v", err)
	}
	if out.String() != "ab\ncd\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	runs, err := db.ListRuns(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Outcome != model.OutcomeCompleted || runs[0].RevealedChars != 4 {
		t.Fatalf("unexpected run %+v", runs[0])
	}
}

func TestDefaultConfigTemplateListsThemes(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, want := range []string{"[typing]", "speed = 50", "editor"} {
		if !strings.Contains(tmpl, want) {
			t.Fatalf("expected template to contain %q", want)
		}
	}
}
