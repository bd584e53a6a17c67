package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/calcdeck/internal/config"
	"github.com/verte-zerg/calcdeck/internal/model"
	"github.com/verte-zerg/calcdeck/internal/store"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "eval", "12", "+", "3", "*", "2", "=")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out != "30\n" {
		t.Fatalf("expected 30, got %q", out)
	}
}

func TestEvalCommandTrace(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "eval", "--trace", "12 + 3 * 2 =")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	for _, want := range []string{"  12 + 3 = 15", "  15 * 2 = 30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in trace:\n%s", want, out)
		}
	}
	if strings.Index(out, "12 + 3 = 15") > strings.Index(out, "15 * 2 = 30") {
		t.Fatalf("evaluations out of order:\n%s", out)
	}
}

func TestEvalCommandScientificFromConfig(t *testing.T) {
	dir := isolateXDG(t)
	path := filepath.Join(dir, "config", "calcdeck", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[calculator]\nvariant = \"scientific\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "eval", "81", "sqrt")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if out != "9\n" {
		t.Fatalf("expected 9, got %q", out)
	}
}

func TestEvalCommandErrors(t *testing.T) {
	isolateXDG(t)
	if _, err := execute(t, "eval", "--variant", "graphing", "1"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := execute(t, "eval", "81", "sqrt"); err == nil {
		t.Fatalf("expected sqrt to be rejected on the basic calculator")
	}
}

func TestToolsCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	for _, want := range []string{"General", "Finance", "Tip Calculator", "planetary-age"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in listing:\n%s", want, out)
		}
	}

	out, err = execute(t, "tools", "TIP")
	if err != nil {
		t.Fatalf("tools tip: %v", err)
	}
	if !strings.HasPrefix(out, "Tip Calculator\n") || !strings.Contains(out, `(default "50")`) {
		t.Fatalf("unexpected tool fields:\n%s", out)
	}

	if _, err := execute(t, "tools", "nope"); err == nil {
		t.Fatalf("expected unknown tool error")
	}
}

func TestToolCommandRecordsRun(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "tool", "tip", "bill=100", "percent=15", "split=2")
	if err != nil {
		t.Fatalf("tool: %v", err)
	}
	if out != "Tip: $15.00\nTotal Per Person: $57.50\n" {
		t.Fatalf("unexpected output %q", out)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	runs, err := st.ListToolRuns(context.Background(), model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Tool != "tip" || runs[0].Inputs["bill"] != "100" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestToolCommandNoRecord(t *testing.T) {
	isolateXDG(t)
	if _, err := execute(t, "tool", "--no-record", "bmi"); err != nil {
		t.Fatalf("tool: %v", err)
	}
	if _, err := os.Stat(config.DefaultDBPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no database, stat err=%v", err)
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"amount=20000", " rate = 4.5", "note="})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got["amount"] != "20000" || got["rate"] != "4.5" || got["note"] != "" {
		t.Fatalf("unexpected inputs: %v", got)
	}

	for _, args := range [][]string{{"amount"}, {"=5"}, {"a=1", "a=2"}} {
		if _, err := parseAssignments(args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRenderPlainHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "calcdeck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	ctx := context.Background()
	now := time.Now()
	err = st.InsertTape(ctx,
		model.TapeEntry{SessionID: "s1", Variant: "basic", Expression: "12 + 3", Result: "15", Chained: true, CreatedAt: now},
		model.TapeEntry{SessionID: "s1", Variant: "basic", Expression: "15 * 2", Result: "30", CreatedAt: now.Add(time.Second)},
	)
	if err != nil {
		t.Fatalf("insert tape: %v", err)
	}

	var out bytes.Buffer
	if err := renderPlainHistory(ctx, &out, st, model.HistoryConfig{}, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Summary", "Evaluations: 2 (1 chained)", "Tape", "12 + 3 ⇢", "No tool runs found."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRenderPlainHistoryEmpty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "calcdeck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()
	var out bytes.Buffer
	if err := renderPlainHistory(context.Background(), &out, st, model.HistoryConfig{}, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.String() != "No history found.\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calcdeck", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != config.DefaultTemplate {
		t.Fatalf("expected template to be written")
	}

	if err := os.WriteFile(path, []byte("[log]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[log]\n" {
		t.Fatalf("existing config was overwritten")
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := loadDotEnv(); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile(".env", []byte("CALCDECK_TEST_VALUE=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("CALCDECK_TEST_VALUE", "")
	if err := os.Unsetenv("CALCDECK_TEST_VALUE"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}
	if err := loadDotEnv(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("CALCDECK_TEST_VALUE"); got != "from-dotenv" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
