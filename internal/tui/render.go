package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/calcdeck/internal/calc"
)

// fitDisplay right-aligns value in width columns. Values that do not fit
// keep their tail, since the most recent digits matter most.
func fitDisplay(value string, width int) string {
	if width <= 0 {
		return value
	}
	w := runewidth.StringWidth(value)
	if w <= width {
		return strings.Repeat(" ", width-w) + value
	}
	runes := []rune(value)
	out := "…"
	used := runewidth.StringWidth(out)
	start := len(runes)
	for start > 0 {
		rw := runewidth.RuneWidth(runes[start-1])
		if used+rw > width {
			break
		}
		used += rw
		start--
	}
	out += string(runes[start:])
	return strings.Repeat(" ", max(0, width-runewidth.StringWidth(out))) + out
}

type keyCell struct {
	key   string
	label string
}

func (c keyCell) text() string {
	if c.label == "" {
		return c.key
	}
	return c.key + " " + c.label
}

func keypad(v calc.Variant) []keyCell {
	cells := []keyCell{{key: "0-9"}, {key: "."}}
	for _, op := range v.Operators() {
		cells = append(cells, keyCell{key: string(op)})
	}
	cells = append(cells, keyCell{key: "=", label: "enter"}, keyCell{key: "c", label: "clear"}, keyCell{key: "⌫", label: "back"})
	for _, fn := range v.Funcs() {
		cells = append(cells, keyCell{key: shortcut(string(fn)), label: string(fn)})
	}
	for _, c := range v.Constants() {
		cells = append(cells, keyCell{key: shortcut(string(c)), label: string(c)})
	}
	return cells
}

func shortcut(name string) string {
	for r, n := range letterKeys {
		if n == name {
			return string(r)
		}
	}
	return name
}

// wrapCells lays key cells out in rows no wider than width, separated by
// two spaces.
func wrapCells(cells []keyCell, width int) []string {
	const gap = "  "
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, c := range cells {
		text := c.text()
		w := runewidth.StringWidth(text)
		if lineWidth > 0 && width > 0 && lineWidth+len(gap)+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString(gap)
			lineWidth += len(gap)
		}
		line.WriteString(text)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
