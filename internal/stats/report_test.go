package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typeout/internal/model"
	"github.com/verte-zerg/typeout/internal/store"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		run := model.RunRecord{
			ID:                uuid.NewString(),
			StartedAt:         start,
			EndedAt:           start.Add(30 * time.Second),
			Outcome:           model.OutcomeCompleted,
			TypingSpeed:       50,
			PauseBetweenLines: 200,
			SourceChars:       100,
			RevealedChars:     100,
			DurationMs:        30000,
		}
		if err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := WriteReport(ctx, &buf, st, model.HistoryConfig{Last: 2}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Runs: 2 (2 completed)") {
		t.Fatalf("missing summary line: %s", out)
	}
	if !strings.Contains(out, "Avg CPM: 200.0") {
		t.Fatalf("missing cpm: %s", out)
	}
	if strings.Count(out, "completed ") != 2 {
		t.Fatalf("expected two history rows: %s", out)
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No runs recorded." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRunMetrics(t *testing.T) {
	cpm, wpm := RunMetrics(300, 60000)
	if cpm != 300 || wpm != 60 {
		t.Fatalf("unexpected metrics: cpm=%v wpm=%v", cpm, wpm)
	}
	if cpm, wpm := RunMetrics(10, 0); cpm != 0 || wpm != 0 {
		t.Fatalf("expected zero metrics for zero duration")
	}
}

func TestCompletion(t *testing.T) {
	if got := Completion(model.RunRecord{SourceChars: 4, RevealedChars: 1}); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
	if got := Completion(model.RunRecord{}); got != 1 {
		t.Fatalf("expected empty source to count as complete, got %v", got)
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}
