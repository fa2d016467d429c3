package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typeout/internal/engine"
	"github.com/verte-zerg/typeout/internal/model"
	"github.com/verte-zerg/typeout/internal/state"
	"github.com/verte-zerg/typeout/internal/theme"
)

type memoryRecorder struct {
	mu   sync.Mutex
	runs []model.RunRecord
}

func (r *memoryRecorder) InsertRun(_ context.Context, run model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func newTestModel(t *testing.T, source string, rec RunRecorder) (*Model, *state.Store) {
	t.Helper()
	st := state.New(model.TypingState{})
	eng := engine.New(st, nil)
	th, _ := theme.Lookup("editor")
	m := NewModel(context.Background(), st, eng, Options{
		Source:   source,
		Settings: model.TypingSettings{CursorVisible: true},
		Theme:    th,
		History:  rec,
	})
	t.Cleanup(m.unsubscribe)
	return m, st
}

func spaceKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func TestSpaceRunsAndRecordsCompletedRun(t *testing.T) {
	rec := &memoryRecorder{}
	m, st := newTestModel(t, "ab\ncd", rec)

	_, cmd := m.Update(spaceKey())
	if cmd == nil {
		t.Fatalf("expected toggle command")
	}
	msg := cmd()
	if _, ok := msg.(runFinishedMsg); !ok {
		t.Fatalf("expected runFinishedMsg, got %T", msg)
	}
	m.Update(msg)

	if got := st.Snapshot().PreviewText; got != "ab\ncd" {
		t.Fatalf("unexpected preview: %q", got)
	}
	if len(rec.runs) != 1 {
		t.Fatalf("expected one recorded run, got %d", len(rec.runs))
	}
	run := rec.runs[0]
	if run.Outcome != model.OutcomeCompleted || run.SourceChars != 4 || run.RevealedChars != 4 || run.ID == "" {
		t.Fatalf("unexpected run record: %+v", run)
	}

	m.Update(runFinishedMsg{})
	if len(rec.runs) != 1 {
		t.Fatalf("expected duplicate finish to be ignored")
	}
}

func TestRestartRecordsStoppedRun(t *testing.T) {
	rec := &memoryRecorder{}
	m, st := newTestModel(t, "abc", rec)

	st.Update(model.SetTyping(true), model.SetPreview("a"), model.SetCursor(0, 1))
	m.runID = "run-1"
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if len(rec.runs) != 1 || rec.runs[0].Outcome != model.OutcomeStopped || rec.runs[0].RevealedChars != 1 {
		t.Fatalf("unexpected runs: %+v", rec.runs)
	}
	if st.Snapshot() != (model.TypingState{}) {
		t.Fatalf("expected restart to reset state: %+v", st.Snapshot())
	}
}

func TestStateMessagesRefreshView(t *testing.T) {
	m, _ := newTestModel(t, "hello", nil)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})
	m.Update(stateMsg(model.TypingState{PreviewText: "hel", IsTyping: true, CurrentCharIndex: 3}))

	view := m.View()
	if !containsAll(view, []string{"hel", "manifest.json", "RUNNING"}) {
		t.Fatalf("view missing content: %s", view)
	}
}

func TestSoundKeyTogglesSwitch(t *testing.T) {
	m, st := newTestModel(t, "x", nil)
	sw := &switchStub{}
	m.sound = sw
	st.Update(model.SetTyping(true))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if !sw.enabled || sw.starts != 1 {
		t.Fatalf("expected sound enabled and started while running: %+v", sw)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if sw.enabled {
		t.Fatalf("expected sound disabled")
	}
}
