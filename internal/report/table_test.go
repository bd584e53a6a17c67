package report

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Variant", "Expression", "Result"}
	rows := [][]string{
		{"basic", "2 + 3", "5"},
		{"scientific", "sqrt(2)", "1.41421"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Variant    Expression  Result" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "basic      2 + 3            5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "scientific sqrt(2)    1.41421" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"日本", "x"}, {"ab", "y"}}, nil)
	if lines[1] != "日本 x" || lines[2] != "ab   y" {
		t.Fatalf("unexpected wide-rune alignment: %q", lines)
	}
}

func TestFormatTableClipsLongCells(t *testing.T) {
	long := strings.Repeat("9", 80)
	lines := formatTable([]string{"Result"}, [][]string{{long}}, nil)
	if got := len([]rune(lines[1])); got != maxCellWidth {
		t.Fatalf("expected clipped width %d, got %d", maxCellWidth, got)
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected ellipsis, got %q", lines[1])
	}
}
