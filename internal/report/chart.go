package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

const (
	defaultChartHeight = 8
	minChartWidth      = 10
	chartSeparator     = " │ "
	brailleBase        = 0x2800
)

// Braille dot bits indexed by [column][row] inside one cell.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Chart draws values as a braille line chart fitting totalWidth columns.
// The first lines label the range; the axis shows the max, mid and min.
func Chart(values []float64, totalWidth, height int) []string {
	if len(values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}
	labels := []string{jsnum.Format(hi), jsnum.Format((hi + lo) / 2), jsnum.Format(lo)}
	axis := 0
	for _, l := range labels {
		axis = max(axis, runewidth.StringWidth(l))
	}
	width := max(totalWidth-axis-runewidth.StringWidth(chartSeparator), minChartWidth)

	points := resample(values, width*2)
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dots := height * 4
	prev := -1
	for x, v := range points {
		row := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
		row = max(0, min(row, dots-1))
		from, to := row, row
		if prev >= 0 {
			from, to = min(prev, row), max(prev, row)
		}
		for y := from; y <= to; y++ {
			cells[y/4][x/2] |= brailleDots[x%2][y%4]
		}
		prev = row
	}

	lines := make([]string, 0, height)
	for y, row := range cells {
		label := ""
		switch {
		case y == 0:
			label = labels[0]
		case y == height-1:
			label = labels[2]
		case y == height/2:
			label = labels[1]
		}
		var b strings.Builder
		b.WriteString(runewidth.FillLeft(label, axis))
		b.WriteString(chartSeparator)
		for _, mask := range row {
			b.WriteRune(rune(brailleBase + int(mask)))
		}
		lines = append(lines, b.String())
	}
	return lines
}

// ChartTitle describes the charted series.
func ChartTitle(values []float64) string {
	return fmt.Sprintf("Results (%d finite)", len(values))
}

// resample stretches or averages values to exactly n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > n {
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	for i := range out {
		pos := 0.0
		if n > 1 {
			pos = float64(i) * float64(len(values)-1) / float64(n-1)
		}
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}
