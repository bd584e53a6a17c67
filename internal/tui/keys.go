package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/calcdeck/internal/calc"
)

// Single-letter shortcuts for scientific functions and constants.
var letterKeys = map[rune]string{
	's': string(calc.FuncSin),
	'o': string(calc.FuncCos),
	't': string(calc.FuncTan),
	'l': string(calc.FuncLog),
	'r': string(calc.FuncSqrt),
	'p': string(calc.ConstPi),
}

// keyEvent maps a key press to an accumulator event for variant v.
func keyEvent(v calc.Variant, msg tea.KeyMsg) (calc.Event, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return calc.Event{Kind: calc.KindEquals}, true
	case tea.KeyEsc:
		return calc.Event{Kind: calc.KindClear}, true
	case tea.KeyBackspace, tea.KeyDelete:
		return calc.Event{Kind: calc.KindBackspace}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return calc.Event{}, false
		}
	default:
		return calc.Event{}, false
	}

	r := msg.Runes[0]
	token := string(r)
	if name, ok := letterKeys[r]; ok {
		token = name
	}
	ev, err := calc.ParseKey(v, token)
	if err != nil {
		return calc.Event{}, false
	}
	return ev, true
}
