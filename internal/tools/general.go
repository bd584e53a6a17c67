package tools

import (
	"math"
	"time"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

const (
	feetToMeters = 0.3048
	usdToEur     = 0.92
	msPerDay     = 1000 * 60 * 60 * 24
	// Reference wall-clock hour in zone A for the timezone tool.
	baseHour = 10.0
)

func generalTools() []Tool {
	return []Tool{
		{
			Name:     "date-age",
			Title:    "Date & Age Calculator",
			Category: General,
			Fields: []Field{
				{Key: "start", Label: "Start date (YYYY-MM-DD)", Default: "2000-01-01"},
				{Key: "end", Label: "End date (YYYY-MM-DD, empty for today)"},
			},
			compute: dateAge,
		},
		{
			Name:     "timezone",
			Title:    "Time Zone Converter",
			Category: General,
			Fields: []Field{
				{Key: "from", Label: "UTC offset A (hours)", Default: "0"},
				{Key: "to", Label: "UTC offset B (hours)", Default: "5.5"},
			},
			compute: timezone,
		},
		{
			Name:     "length",
			Title:    "Unit Converter (Length)",
			Category: General,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "1"},
				{Key: "from", Label: "From", Default: "M", Options: []string{"M", "FT"}},
				{Key: "to", Label: "To", Default: "FT", Options: []string{"M", "FT"}},
			},
			compute: func(_ *env, in values) []Line {
				return []Line{line("Result", convertPair(in, "FT", "M", feetToMeters, 3, isNaNOnly))}
			},
		},
		{
			Name:     "currency",
			Title:    "Currency Converter",
			Category: General,
			Fields: []Field{
				{Key: "value", Label: "Amount", Default: "100"},
				{Key: "from", Label: "From", Default: "USD", Options: []string{"USD", "EUR"}},
				{Key: "to", Label: "To", Default: "EUR", Options: []string{"USD", "EUR"}},
			},
			compute: func(_ *env, in values) []Line {
				return []Line{line("Result", convertPair(in, "USD", "EUR", usdToEur, 2, isNaNOrNegative))}
			},
		},
		{
			Name:     "percentage",
			Title:    "Percentage Calculator",
			Category: General,
			Fields: []Field{
				{Key: "part", Label: "Part (A)", Default: "25"},
				{Key: "total", Label: "Total (B)", Default: "200"},
			},
			compute: percentage,
		},
		{
			Name:     "random",
			Title:    "Random Number Generator",
			Category: General,
			Fields: []Field{
				{Key: "min", Label: "Minimum", Default: "1"},
				{Key: "max", Label: "Maximum", Default: "100"},
			},
			compute: random,
		},
	}
}

func dateAge(e *env, in values) []Line {
	end := in["end"]
	if end == "" {
		end = e.now().UTC().Format("2006-01-02")
	}
	start, okStart := parseDate(in["start"])
	stop, okStop := parseDate(end)
	if !okStart || !okStop {
		return []Line{line("Age", "Invalid Dates")}
	}
	diff := math.Abs(float64(stop.Sub(start).Milliseconds()))
	days := math.Ceil(diff / msPerDay)
	years := math.Floor(days / 365.25)
	remaining := math.Floor(math.Mod(days, 365.25))
	return []Line{line("Age", jsnum.Format(years)+" Years, "+jsnum.Format(remaining)+" Days")}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timezone(_ *env, in values) []Line {
	diff := in.float("to") - in.float("from")
	result := baseHour + diff
	if result >= 24 {
		result -= 24
	} else if result < 0 {
		result += 24
	}
	hours := math.Floor(result)
	minutes := math.Floor((result-hours)*60 + 0.5)

	ampm := "AM"
	if hours >= 12 && hours < 24 {
		ampm = "PM"
	}
	display := math.Mod(hours, 12)
	if display == 0 {
		display = 12
	}
	mins := jsnum.Format(minutes)
	if minutes < 10 {
		mins = "0" + mins
	}
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	return []Line{
		line("Time", jsnum.Format(display)+":"+mins+" "+ampm),
		line("Difference", sign+jsnum.Format(jsnum.RoundTo(diff, 1))),
	}
}

func isNaNOnly(v float64) bool { return math.IsNaN(v) }

func isNaNOrNegative(v float64) bool { return math.IsNaN(v) || v < 0 }

// convertPair converts between two units linked by factor (a * factor = b).
// Equal units pass the value through.
func convertPair(in values, a, b string, factor float64, digits int, invalid func(float64) bool) string {
	v := in.float("value")
	if invalid(v) {
		return "0.00"
	}
	result := v
	switch {
	case in["from"] == a && in["to"] == b:
		result = v * factor
	case in["from"] == b && in["to"] == a:
		result = v / factor
	}
	return jsnum.ToFixed(result, digits)
}

func percentage(_ *env, in values) []Line {
	a, b := in.float("part"), in.float("total")
	if anyNaN(a, b) || b == 0 {
		return []Line{line("Percentage", "0.00%")}
	}
	return []Line{line("Percentage", jsnum.ToFixed(a/b*100, 2)+"%")}
}

func random(e *env, in values) []Line {
	lo, hi := in.int("min"), in.int("max")
	if anyNaN(lo, hi) || lo > hi {
		return []Line{line("Result", "Error")}
	}
	return []Line{line("Result", jsnum.Format(e.rand.Between(lo, hi)))}
}
