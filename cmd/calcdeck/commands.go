package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/config"
	"github.com/verte-zerg/calcdeck/internal/historyui"
	"github.com/verte-zerg/calcdeck/internal/jsnum"
	"github.com/verte-zerg/calcdeck/internal/logging"
	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/report"
	"github.com/verte-zerg/calcdeck/internal/store"
	"github.com/verte-zerg/calcdeck/internal/tools"
)

const (
	terminalWidthBackup = 80
	plainChartHeight    = 8
)

var (
	evalVariant string
	evalTrace   bool

	toolNoRecord bool

	historyVariant string
	historyTool    string
	historySince   string
	historyLast    int
	historyPlain   bool
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <keys>...",
		Short: "Press keys on a calculator and print the display",
		Long: "Press keys on a fresh calculator and print the final display.\n" +
			"Keys: digits, '.', operators, '=', c (clear), b (backspace) and, on the\n" +
			"scientific calculator, sin cos tan log sqrt pi. Operators apply left to\n" +
			"right as pressed.",
		Example: "  calcdeck eval 12 + 3 '*' 2 =\n  calcdeck eval --variant scientific 81 sqrt",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runEvalCmd,
	}
	cmd.Flags().StringVar(&evalVariant, "variant", defaultVariant, "calculator (basic or scientific)")
	cmd.Flags().BoolVar(&evalTrace, "trace", false, "print the display after every key and each evaluation")
	return cmd
}

func runEvalCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "variant", &evalVariant, fileCfg.Calculator.Variant)
	variant, err := calc.ParseVariant(evalVariant)
	if err != nil {
		return err
	}
	events, err := calc.ParseKeys(variant, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !evalTrace {
		tr := calc.Run(variant, events)
		_, err := fmt.Fprintln(out, tr.Final)
		return err
	}

	var lines, evaluated []string
	acc := calc.New(variant, nil)
	acc.OnEvaluate(func(ev calc.Evaluation) {
		evaluated = append(evaluated, fmt.Sprintf("  %s = %s", ev.Expression(), jsnum.Format(ev.Result)))
	})
	for _, ev := range events {
		acc.Press(ev)
		lines = append(lines, fmt.Sprintf("%-6s %s", ev.String(), acc.Display()))
		lines = append(lines, evaluated...)
		evaluated = evaluated[:0]
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools [name]",
		Short: "List formula tools or show one tool's inputs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runToolsCmd,
	}
}

func runToolsCmd(cmd *cobra.Command, args []string) error {
	reg := tools.NewRegistry()
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		t, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q (run: calcdeck tools)", args[0])
		}
		return writeToolFields(out, t)
	}

	byCategory := map[tools.Category][]tools.Tool{}
	nameWidth := 0
	for _, t := range reg.Tools() {
		byCategory[t.Category] = append(byCategory[t.Category], t)
		nameWidth = max(nameWidth, runewidth.StringWidth(t.Name))
	}
	var lines []string
	for _, cat := range tools.Categories() {
		list := byCategory[cat]
		if len(list) == 0 {
			continue
		}
		lines = append(lines, strings.ToUpper(string(cat[:1]))+string(cat[1:]))
		for _, t := range list {
			lines = append(lines, "  "+runewidth.FillRight(t.Name, nameWidth)+"  "+t.Title)
		}
	}
	return writeLines(out, lines)
}

func writeToolFields(w io.Writer, t tools.Tool) error {
	lines := []string{t.Title}
	keyWidth := 0
	for _, f := range t.Fields {
		keyWidth = max(keyWidth, runewidth.StringWidth(f.Key))
	}
	for _, f := range t.Fields {
		line := fmt.Sprintf("  %s  %s (default %q)", runewidth.FillRight(f.Key, keyWidth), f.Label, f.Default)
		if len(f.Options) > 0 {
			line += " one of: " + strings.Join(f.Options, ", ")
		}
		lines = append(lines, line)
	}
	return writeLines(w, lines)
}

func newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tool <name> [key=value]...",
		Short:   "Run a formula tool",
		Example: "  calcdeck tool loan amount=20000 rate=4.5 years=5\n  calcdeck tool temperature value=100 from=C to=F",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runToolCmd,
	}
	cmd.Flags().BoolVar(&toolNoRecord, "no-record", false, "do not save the run to history")
	return cmd
}

func runToolCmd(cmd *cobra.Command, args []string) error {
	inputs, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}
	reg := tools.NewRegistry()
	res, err := reg.Run(args[0], inputs)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		lines = append(lines, l.Label+": "+l.Value)
	}
	if err := writeLines(cmd.OutOrStdout(), lines); err != nil {
		return err
	}
	if toolNoRecord {
		return nil
	}
	return recordToolRun(cmd.Context(), res)
}

// parseAssignments turns key=value arguments into an input map.
func parseAssignments(args []string) (map[string]string, error) {
	inputs := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q (expected key=value)", arg)
		}
		if _, dup := inputs[key]; dup {
			return nil, fmt.Errorf("input %q given more than once", key)
		}
		inputs[key] = strings.TrimSpace(value)
	}
	return inputs, nil
}

func recordToolRun(ctx context.Context, res tools.Result) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("history disabled: %v\n", err)
		return nil
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	run := model.ToolRun{Tool: res.Tool, Inputs: res.Inputs, CreatedAt: time.Now()}
	for _, l := range res.Lines {
		run.Outputs = append(run.Outputs, model.ToolLine{Label: l.Label, Value: l.Value})
	}
	if _, err := st.InsertToolRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record tool run: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the calculator tape and tool runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyVariant, "variant", "", "calculator filter")
	cmd.Flags().StringVar(&historyTool, "tool", "", "tool filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N entries")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print tables instead of opening the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.HistoryConfig{
		Tool:  strings.ToLower(strings.TrimSpace(historyTool)),
		Since: sinceTime,
		Last:  historyLast,
	}
	if historyVariant != "" {
		v, err := calc.ParseVariant(historyVariant)
		if err != nil {
			return err
		}
		cfg.Variant = string(v)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain {
		return renderPlainHistory(cmd.Context(), cmd.OutOrStdout(), st, cfg, terminalWidth())
	}

	logger, err := fileLogger(fileCfg)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)
	logger.Info("history browser opened", zap.String("variant", cfg.Variant), zap.String("tool", cfg.Tool), zap.Int("last", cfg.Last))

	program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func renderPlainHistory(ctx context.Context, w io.Writer, src report.Source, cfg model.HistoryConfig, width int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := report.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := report.RenderSummary(w, r); err != nil {
		return err
	}
	if r.Summary.Entries == 0 && r.Summary.ToolRuns == 0 {
		return nil
	}
	if values := report.ResultValues(r.Tape); len(values) > 1 {
		lines := append([]string{report.ChartTitle(values)}, report.Chart(values, width, plainChartHeight)...)
		if err := writeLines(w, append(lines, "")); err != nil {
			return err
		}
	}
	if err := report.RenderTape(w, r.Tape); err != nil {
		return err
	}
	return report.RenderToolRuns(w, r.ToolRuns)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
