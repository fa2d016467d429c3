// Package stats contains run statistics and history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typeout/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RunMetrics computes the effective characters and words per minute of a
// run. A word is five characters.
func RunMetrics(revealed int, durationMs int64) (cpm, wpm float64) {
	if durationMs <= 0 {
		return 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	cpm = float64(revealed) / minutes
	wpm = cpm / 5.0
	return cpm, wpm
}

// Completion returns the share of the source revealed by a run.
func Completion(run model.RunRecord) float64 {
	if run.SourceChars <= 0 {
		return 1
	}
	return float64(run.RevealedChars) / float64(run.SourceChars)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for runs.
func RenderSummary(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	completed := 0
	var totalCPM float64
	var totalMs int64
	cpms := make([]float64, len(runs))
	for i, r := range runs {
		if r.Outcome == model.OutcomeCompleted {
			completed++
		}
		cpm, _ := RunMetrics(r.RevealedChars, r.DurationMs)
		cpms[i] = cpm
		totalCPM += cpm
		totalMs += r.DurationMs
	}
	count := float64(len(runs))
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d (%d completed)", len(runs), completed),
		fmt.Sprintf("Avg CPM: %.1f", totalCPM/count),
		fmt.Sprintf("Total time: %.1fs", float64(totalMs)/1000),
		fmt.Sprintf("CPM trend: %s", Sparkline(MovingAverage(cpms, 5))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per run.
func RenderHistory(w io.Writer, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return nil
	}
	cols := []column{
		{title: "Ended"},
		{title: "Outcome"},
		{title: "Speed", right: true},
		{title: "Pause", right: true},
		{title: "Chars", right: true},
		{title: "Done", right: true},
		{title: "CPM", right: true},
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		cpm, _ := RunMetrics(r.RevealedChars, r.DurationMs)
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Outcome),
			fmt.Sprintf("%dms", r.TypingSpeed),
			fmt.Sprintf("%dms", r.PauseBetweenLines),
			fmt.Sprintf("%d/%d", r.RevealedChars, r.SourceChars),
			fmt.Sprintf("%.0f%%", Completion(r)*100),
			fmt.Sprintf("%.1f", cpm),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
