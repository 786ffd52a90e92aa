package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Session", "Solves", "ao5"}
	rows := [][]string{
		{"Session 1", "1,204", "12.31"},
		{"Session 魔", "7", "1:02.50"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Session    Solves     ao5" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Session 1   1,204   12.31" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Session 魔      7 1:02.50" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestPrintTableWritesTitle(t *testing.T) {
	var buf bytes.Buffer
	if err := printTable(&buf, "Title", []string{"A"}, [][]string{{"x"}}, nil); err != nil {
		t.Fatalf("printTable failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Title\nA\nx\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
