package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Outcome"}, {title: "Speed", right: true}, {title: "CPM", right: true}}
	rows := [][]string{
		{"completed", "50ms", "212.4"},
		{"stopped", "5ms", "9.0"},
	}

	lines := formatTable(cols, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Outcome   Speed   CPM" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "completed  50ms 212.4" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "stopped     5ms   9.0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableMeasuresWideRunes(t *testing.T) {
	lines := formatTable([]column{{title: "A"}, {title: "B"}}, [][]string{{"日本", "x"}, {"ab"}})
	if lines[1] != "日本 x" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab" {
		t.Fatalf("expected trailing blanks trimmed, got %q", lines[2])
	}
	if lines[0] != "A    B" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
}

func TestFormatTableNoColumns(t *testing.T) {
	if lines := formatTable(nil, [][]string{{"a"}}); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
