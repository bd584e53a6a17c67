package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/model"
)

type fakeRecorder struct {
	entries []model.TapeEntry
	err     error
}

func (f *fakeRecorder) InsertTape(_ context.Context, entries ...model.TapeEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func typeKeys(m *Model, keys string) {
	for _, r := range keys {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelEvaluatesAndRecords(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewModel(calc.Basic, rec, nil)
	typeKeys(m, "12+3")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.pads[m.active].display; got != "15" {
		t.Fatalf("expected display 15, got %q", got)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 tape entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Expression != "12 + 3" || e.Result != "15" || e.Variant != "basic" || e.SessionID != m.SessionID() {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestModelTabsAreIndependent(t *testing.T) {
	m := NewModel(calc.Basic, nil, nil)
	typeKeys(m, "7*")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.pads[m.active].variant != calc.Scientific {
		t.Fatalf("expected scientific tab")
	}
	typeKeys(m, "16r")
	if got := m.pads[m.active].display; got != "4" {
		t.Fatalf("expected sqrt result 4, got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	typeKeys(m, "6=")
	if got := m.pads[m.active].display; got != "42" {
		t.Fatalf("expected basic tab to keep its pending operation, got %q", got)
	}
}

func TestModelIgnoresKeysOutsideVariant(t *testing.T) {
	m := NewModel(calc.Basic, nil, nil)
	typeKeys(m, "9r^p")
	if got := m.pads[m.active].display; got != "9" {
		t.Fatalf("expected 9, got %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.pads[m.active].display; got != "0" {
		t.Fatalf("expected 0 after backspace, got %q", got)
	}
}

func TestModelStartsOnRequestedVariant(t *testing.T) {
	m := NewModel(calc.Scientific, nil, nil)
	typeKeys(m, "p")
	if got := m.pads[m.active].display; got != "3.1415926536" {
		t.Fatalf("expected pi, got %q", got)
	}
}

func TestModelRecordFailureIsShownNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	m := NewModel(calc.Basic, rec, nil)
	typeKeys(m, "2+2=")
	if got := m.pads[m.active].display; got != "4" {
		t.Fatalf("expected 4, got %q", got)
	}
	if !strings.Contains(m.renderFooter(), "tape not saved") {
		t.Fatalf("expected warning in footer, got %q", m.renderFooter())
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel(calc.Basic, nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestViewShowsDisplayAndRecent(t *testing.T) {
	m := NewModel(calc.Basic, nil, nil)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	typeKeys(m, "5*5=")
	view := m.View()
	for _, want := range []string{"25", "5 * 5 = 25", "Basic", "Scientific", "tape off"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
