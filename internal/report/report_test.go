package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "calcdeck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0)
	for i, result := range []string{"5", "Infinity", "12", "-3"} {
		entry := model.TapeEntry{
			SessionID:  "s1",
			Variant:    "basic",
			Expression: "x",
			Result:     result,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.InsertTape(ctx, entry); err != nil {
			t.Fatalf("insert tape: %v", err)
		}
	}
	for _, name := range []string{"tip", "bmi", "tip"} {
		if _, err := st.InsertToolRun(ctx, model.ToolRun{Tool: name, Inputs: map[string]string{}}); err != nil {
			t.Fatalf("insert tool run: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 3})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Tape) != 3 || report.Tape[0].Result != "Infinity" {
		t.Fatalf("unexpected tape %+v", report.Tape)
	}
	if len(report.ToolRuns) != 3 {
		t.Fatalf("expected 3 tool runs, got %d", len(report.ToolRuns))
	}
	if len(report.Counts) != 1 || report.Counts[0].Entries != 4 {
		t.Fatalf("unexpected counts %+v", report.Counts)
	}
	s := report.Summary
	if s.Entries != 3 || s.Finite != 2 || s.NonFinite != 1 || s.Smallest != -3 || s.Largest != 12 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.TopTool != "tip" || s.TopCount != 2 {
		t.Fatalf("unexpected top tool %+v", s)
	}
}

func TestRenderSummary(t *testing.T) {
	tape := []model.TapeEntry{
		{SessionID: "a", Variant: "basic", Result: "1"},
		{SessionID: "b", Variant: "basic", Result: "NaN", Chained: true},
		{SessionID: "b", Variant: "scientific", Result: "9"},
	}
	r := Report{
		Tape:    tape,
		Counts:  []model.VariantCount{{Variant: "basic", Entries: 2, Session: 2}},
		Summary: Summarize(tape, nil),
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Evaluations: 3 (1 chained)",
		"Sessions: 2",
		"  basic: 2 in 2 sessions",
		"Largest result: 9",
		"NaN/Infinity results: 1",
		"Results:  @",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Report{}); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderTape(&buf, nil); err != nil {
		t.Fatalf("render tape: %v", err)
	}
	if err := RenderToolRuns(&buf, nil); err != nil {
		t.Fatalf("render tool runs: %v", err)
	}
	want := "No history found.\nNo tape entries found.\nNo tool runs found.\n"
	if buf.String() != want {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderToolRuns(t *testing.T) {
	runs := []model.ToolRun{{
		Tool:    "tax",
		Inputs:  map[string]string{"rate": "8", "price": "100"},
		Outputs: []model.ToolLine{{Label: "Tax", Value: "$8.00"}, {Label: "Total", Value: "$108.00"}},
	}}
	var buf bytes.Buffer
	if err := RenderToolRuns(&buf, runs); err != nil {
		t.Fatalf("render tool runs: %v", err)
	}
	if !strings.Contains(buf.String(), "price=100 rate=8 Tax: $8.00, Total: $108.00") {
		t.Fatalf("unexpected tool runs output:\n%s", buf.String())
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat sparkline should use the middle glyph, got %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestChartFitsWidth(t *testing.T) {
	lines := Chart([]float64{1, 5, 2, 8, 3}, 40, 4)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w != 40 {
			t.Fatalf("expected width 40, got %d for %q", w, line)
		}
	}
	if !strings.HasPrefix(lines[0], "  8 │ ") || !strings.HasPrefix(lines[3], "  1 │ ") {
		t.Fatalf("unexpected axis labels: %q", lines)
	}
	if Chart(nil, 40, 4) != nil {
		t.Fatalf("expected nil chart for no values")
	}
}
