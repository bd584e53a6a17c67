// Package tui provides the Bubble Tea calculator interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/calc"
	"github.com/verte-zerg/calcdeck/internal/jsnum"
	"github.com/verte-zerg/calcdeck/internal/model"
)

const (
	recentLimit   = 5
	minPanelWidth = 16
	maxPanelWidth = 40
)

// Recorder persists evaluations. *store.Store satisfies it.
type Recorder interface {
	InsertTape(ctx context.Context, entries ...model.TapeEntry) error
}

// pad is one calculator tab.
type pad struct {
	variant calc.Variant
	acc     *calc.Accumulator
	display string
	recent  []string
}

// Model implements the Bubble Tea calculator UI.
type Model struct {
	pads      []*pad
	active    int
	recorder  Recorder
	logger    *zap.Logger
	sessionID string
	saveErr   bool

	width  int
	height int
}

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	displayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6E6E6E"))
	recentStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	keypadStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a calculator model with one tab per variant, starting
// on start. recorder and logger may be nil.
func NewModel(start calc.Variant, recorder Recorder, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		recorder:  recorder,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
	for i, v := range calc.Variants() {
		p := &pad{variant: v}
		p.acc = calc.New(v, func(s string) { p.display = s })
		p.acc.OnEvaluate(func(ev calc.Evaluation) { m.record(p, ev) })
		p.display = p.acc.Display()
		m.pads = append(m.pads, p)
		if v == start {
			m.active = i
		}
	}
	m.logger.Info("calculator session started", zap.String("session_id", m.sessionID), zap.String("variant", string(start)))
	return m
}

// SessionID identifies the tape entries this model records.
func (m *Model) SessionID() string {
	return m.sessionID
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right":
			m.active = (m.active + 1) % len(m.pads)
			return m, nil
		case "shift+tab", "left":
			m.active = (m.active + len(m.pads) - 1) % len(m.pads)
			return m, nil
		}
		p := m.pads[m.active]
		if ev, ok := keyEvent(p.variant, msg); ok {
			p.acc.Press(ev)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	p := m.pads[m.active]
	panelWidth := maxPanelWidth
	if m.width > 0 {
		panelWidth = max(minPanelWidth, min(maxPanelWidth, m.width-4))
	}

	sections := []string{m.renderTabs(), displayStyle.Width(panelWidth).Render(fitDisplay(p.display, panelWidth))}
	if state := p.acc.State(); state.Operator != calc.NoOperator && state.HasPrevious {
		pending := jsnum.Format(state.Previous) + " " + string(state.Operator)
		sections = append(sections, recentStyle.Render(fitDisplay(pending, panelWidth+2)))
	}
	for _, line := range p.recent {
		sections = append(sections, recentStyle.Render(fitDisplay(line, panelWidth+2)))
	}
	sections = append(sections, "", keypadStyle.Render(strings.Join(wrapCells(keypad(p.variant), panelWidth+2), "\n")))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.pads))
	for i, p := range m.pads {
		label := strings.ToUpper(string(p.variant[:1])) + string(p.variant[1:])
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderFooter() string {
	segments := []string{"tab switch", "q quit"}
	if m.recorder == nil {
		segments = append(segments, "tape off")
	}
	footer := footerStyle.Render(strings.Join(segments, " · "))
	if m.saveErr {
		footer += footerStyle.Render(" · ") + warnStyle.Render("tape not saved, see log")
	}
	return footer
}

func (m *Model) record(p *pad, ev calc.Evaluation) {
	result := jsnum.Format(ev.Result)
	p.recent = append(p.recent, fmt.Sprintf("%s = %s", ev.Expression(), result))
	if len(p.recent) > recentLimit {
		p.recent = p.recent[len(p.recent)-recentLimit:]
	}
	m.logger.Debug("evaluation",
		zap.String("session_id", m.sessionID),
		zap.String("variant", string(ev.Variant)),
		zap.String("expression", ev.Expression()),
		zap.String("result", result),
		zap.Bool("chained", ev.Chained),
	)
	if m.recorder == nil {
		return
	}
	entry := model.TapeEntry{
		SessionID:  m.sessionID,
		Variant:    string(ev.Variant),
		Expression: ev.Expression(),
		Result:     result,
		Chained:    ev.Chained,
		CreatedAt:  time.Now(),
	}
	if err := m.recorder.InsertTape(context.Background(), entry); err != nil {
		m.saveErr = true
		m.logger.Error("failed to save tape entry", zap.String("session_id", m.sessionID), zap.Error(err))
	}
}
