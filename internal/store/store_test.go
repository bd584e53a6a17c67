package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/calcdeck/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "calcdeck.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func TestTapeRoundTripAndFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []model.TapeEntry{
		{SessionID: "a", Variant: "basic", Expression: "2 + 3", Result: "5", CreatedAt: base},
		{SessionID: "a", Variant: "scientific", Expression: "sqrt(16)", Result: "4", CreatedAt: base.Add(time.Minute)},
		{SessionID: "b", Variant: "basic", Expression: "5 * 2", Result: "10", Chained: true, CreatedAt: base.Add(2 * time.Minute)},
	}
	if err := st.InsertTape(ctx, entries...); err != nil {
		t.Fatalf("insert tape: %v", err)
	}

	all, err := st.ListTape(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list tape: %v", err)
	}
	if len(all) != 3 || all[0].Expression != "2 + 3" || all[2].Result != "10" || !all[2].Chained {
		t.Fatalf("unexpected tape %+v", all)
	}
	if !all[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected timestamp %v", all[1].CreatedAt)
	}

	basic, err := st.ListTape(ctx, model.HistoryConfig{Variant: "basic"})
	if err != nil {
		t.Fatalf("list basic: %v", err)
	}
	if len(basic) != 2 {
		t.Fatalf("expected 2 basic entries, got %d", len(basic))
	}

	last, err := st.ListTape(ctx, model.HistoryConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].Expression != "sqrt(16)" || last[1].Expression != "5 * 2" {
		t.Fatalf("unexpected last entries %+v", last)
	}

	since := base.Add(90 * time.Second)
	recent, err := st.ListTape(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].SessionID != "b" {
		t.Fatalf("unexpected recent entries %+v", recent)
	}
}

func TestVariantCounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.InsertTape(ctx,
		model.TapeEntry{SessionID: "a", Variant: "basic", Expression: "1 + 1", Result: "2"},
		model.TapeEntry{SessionID: "b", Variant: "basic", Expression: "1 + 2", Result: "3"},
		model.TapeEntry{SessionID: "b", Variant: "scientific", Expression: "2 ^ 3", Result: "8"},
	); err != nil {
		t.Fatalf("insert tape: %v", err)
	}
	counts, err := st.VariantCounts(ctx, nil)
	if err != nil {
		t.Fatalf("variant counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 variants, got %+v", counts)
	}
	if counts[0].Variant != "basic" || counts[0].Entries != 2 || counts[0].Session != 2 {
		t.Fatalf("unexpected basic counts %+v", counts[0])
	}
	if counts[1].Variant != "scientific" || counts[1].Entries != 1 || counts[1].Session != 1 {
		t.Fatalf("unexpected scientific counts %+v", counts[1])
	}
}

func TestToolRunsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	run := model.ToolRun{
		Tool:    "tip",
		Inputs:  map[string]string{"bill": "100", "percent": "15", "split": "2"},
		Outputs: []model.ToolLine{{Label: "Tip", Value: "$15.00"}, {Label: "Total Per Person", Value: "$57.50"}},
	}
	id, err := st.InsertToolRun(ctx, run)
	if err != nil {
		t.Fatalf("insert tool run: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if _, err := st.InsertToolRun(ctx, model.ToolRun{Tool: "bmi", Inputs: map[string]string{}}); err != nil {
		t.Fatalf("insert second run: %v", err)
	}

	runs, err := st.ListToolRuns(ctx, model.HistoryConfig{Tool: "tip"})
	if err != nil {
		t.Fatalf("list tool runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Inputs["split"] != "2" || len(got.Outputs) != 2 || got.Outputs[1].Value != "$57.50" {
		t.Fatalf("unexpected run %+v", got)
	}
	all, err := st.ListToolRuns(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list all runs: %v", err)
	}
	if len(all) != 2 || all[0].Tool != "tip" || all[1].Tool != "bmi" {
		t.Fatalf("unexpected runs %+v", all)
	}
}

func TestInsertTapeEmpty(t *testing.T) {
	st := openTestStore(t)
	if err := st.InsertTape(context.Background()); err != nil {
		t.Fatalf("empty insert should succeed: %v", err)
	}
}

func TestSinceIncludesEntriesWithinTheBoundSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	err := st.InsertTape(ctx,
		model.TapeEntry{SessionID: "a", Variant: "basic", Expression: "1 + 1", Result: "2", CreatedAt: since.Add(-time.Millisecond)},
		model.TapeEntry{SessionID: "a", Variant: "basic", Expression: "2 + 2", Result: "4", CreatedAt: since},
		model.TapeEntry{SessionID: "a", Variant: "basic", Expression: "3 + 3", Result: "6", CreatedAt: since.Add(500 * time.Millisecond)},
	)
	if err != nil {
		t.Fatalf("insert tape: %v", err)
	}
	if _, err := st.InsertToolRun(ctx, model.ToolRun{Tool: "tip", Inputs: map[string]string{}, CreatedAt: since.Add(250 * time.Millisecond)}); err != nil {
		t.Fatalf("insert run: %v", err)
	}

	tape, err := st.ListTape(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list tape: %v", err)
	}
	if len(tape) != 2 || tape[0].Expression != "2 + 2" || tape[1].Expression != "3 + 3" {
		t.Fatalf("unexpected tape %+v", tape)
	}
	if !tape[1].CreatedAt.Equal(since.Add(500 * time.Millisecond)) {
		t.Fatalf("unexpected timestamp %v", tape[1].CreatedAt)
	}

	runs, err := st.ListToolRuns(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	counts, err := st.VariantCounts(ctx, &since)
	if err != nil {
		t.Fatalf("variant counts: %v", err)
	}
	if len(counts) != 1 || counts[0].Entries != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
