package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
	"github.com/verte-zerg/calcdeck/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a tape and its tool runs.
type Summary struct {
	Entries   int
	Sessions  int
	Chained   int
	Finite    int
	NonFinite int
	Smallest  float64
	Largest   float64
	ToolRuns  int
	TopTool   string
	TopCount  int
}

// Summarize computes the summary for tape entries and tool runs.
func Summarize(tape []model.TapeEntry, runs []model.ToolRun) Summary {
	s := Summary{Entries: len(tape), ToolRuns: len(runs)}
	sessions := map[string]struct{}{}
	values := ResultValues(tape)
	for _, e := range tape {
		sessions[e.SessionID] = struct{}{}
		if e.Chained {
			s.Chained++
		}
	}
	s.Sessions = len(sessions)
	s.Finite = len(values)
	s.NonFinite = len(tape) - len(values)
	for i, v := range values {
		if i == 0 || v < s.Smallest {
			s.Smallest = v
		}
		if i == 0 || v > s.Largest {
			s.Largest = v
		}
	}

	byTool := map[string]int{}
	for _, r := range runs {
		byTool[r.Tool]++
	}
	for name, count := range byTool {
		if count > s.TopCount || (count == s.TopCount && name < s.TopTool) {
			s.TopTool, s.TopCount = name, count
		}
	}
	return s
}

// ResultValues parses tape results, skipping NaN and infinities.
func ResultValues(tape []model.TapeEntry) []float64 {
	values := make([]float64, 0, len(tape))
	for _, e := range tape {
		v := jsnum.ParseFloat(e.Result)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func bounds(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, r Report) error {
	s := r.Summary
	if s.Entries == 0 && s.ToolRuns == 0 {
		_, err := fmt.Fprintln(w, "No history found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Evaluations: %d (%d chained)", s.Entries, s.Chained),
		fmt.Sprintf("Sessions: %d", s.Sessions),
	}
	for _, c := range r.Counts {
		lines = append(lines, fmt.Sprintf("  %s: %d in %d sessions", c.Variant, c.Entries, c.Session))
	}
	if s.Finite > 0 {
		lines = append(lines,
			fmt.Sprintf("Smallest result: %s", jsnum.Format(s.Smallest)),
			fmt.Sprintf("Largest result: %s", jsnum.Format(s.Largest)),
		)
	}
	if s.NonFinite > 0 {
		lines = append(lines, fmt.Sprintf("NaN/Infinity results: %d", s.NonFinite))
	}
	lines = append(lines, fmt.Sprintf("Tool runs: %d", s.ToolRuns))
	if s.TopTool != "" {
		lines = append(lines, fmt.Sprintf("Most used tool: %s (%d)", s.TopTool, s.TopCount))
	}
	if spark := Sparkline(ResultValues(r.Tape)); spark != "" {
		lines = append(lines, "Results: "+spark)
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderTape prints the tape as a table.
func RenderTape(w io.Writer, tape []model.TapeEntry) error {
	if len(tape) == 0 {
		_, err := fmt.Fprintln(w, "No tape entries found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Tape"); err != nil {
		return err
	}
	headers := []string{"Time", "Variant", "Expression", "Result"}
	rows := make([][]string, 0, len(tape))
	for _, e := range tape {
		expr := e.Expression
		if e.Chained {
			expr += " ⇢"
		}
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Variant,
			expr,
			e.Result,
		})
	}
	lines := formatTable(headers, rows, map[int]bool{3: true})
	return writeLines(w, append(lines, ""))
}

// RenderToolRuns prints tool runs as a table.
func RenderToolRuns(w io.Writer, runs []model.ToolRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No tool runs found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Tool Runs"); err != nil {
		return err
	}
	headers := []string{"Time", "Tool", "Inputs", "Outputs"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Tool,
			FormatInputs(r.Inputs),
			FormatOutputs(r.Outputs),
		})
	}
	lines := formatTable(headers, rows, nil)
	return writeLines(w, append(lines, ""))
}

// FormatInputs renders inputs as sorted key=value pairs.
func FormatInputs(inputs map[string]string) string {
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+inputs[k])
	}
	return strings.Join(parts, " ")
}

// FormatOutputs renders output lines as "label: value" pairs.
func FormatOutputs(lines []model.ToolLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Label+": "+l.Value)
	}
	return strings.Join(parts, ", ")
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
