package tools

import (
	"math"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

const (
	jouleToCalorie = 0.239006
	psiToBar       = 0.0689476
	kmhToMph       = 0.621371
)

// Orbital periods in Earth years.
var planets = []struct {
	name   string
	period float64
}{
	{"Mercury", 0.2408467},
	{"Venus", 0.61519726},
	{"Mars", 1.8808158},
	{"Jupiter", 11.862615},
	{"Saturn", 29.447498},
	{"Uranus", 84.016846},
	{"Neptune", 164.79132},
}

func planetNames() []string {
	names := make([]string, 0, len(planets))
	for _, p := range planets {
		names = append(names, p.name)
	}
	return names
}

func scienceTools() []Tool {
	return []Tool{
		{
			Name:     "temperature",
			Title:    "Temperature Converter",
			Category: Science,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "100"},
				{Key: "from", Label: "From", Default: "C", Options: []string{"C", "F"}},
				{Key: "to", Label: "To", Default: "F", Options: []string{"C", "F"}},
			},
			compute: temperature,
		},
		{
			Name:     "energy",
			Title:    "Energy Converter",
			Category: Science,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "1000"},
				{Key: "from", Label: "From", Default: "JOULE", Options: []string{"JOULE", "CALORIE"}},
				{Key: "to", Label: "To", Default: "CALORIE", Options: []string{"JOULE", "CALORIE"}},
			},
			compute: func(_ *env, in values) []Line {
				return []Line{line("Result", convertPair(in, "JOULE", "CALORIE", jouleToCalorie, 3, isNaNOnly))}
			},
		},
		{
			Name:     "pressure",
			Title:    "Pressure Converter",
			Category: Science,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "14.7"},
				{Key: "from", Label: "From", Default: "PSI", Options: []string{"PSI", "BAR"}},
				{Key: "to", Label: "To", Default: "BAR", Options: []string{"PSI", "BAR"}},
			},
			compute: func(_ *env, in values) []Line {
				return []Line{line("Result", convertPair(in, "PSI", "BAR", psiToBar, 3, isNaNOnly))}
			},
		},
		{
			Name:     "speed",
			Title:    "Speed Converter",
			Category: Science,
			Fields: []Field{
				{Key: "value", Label: "Value", Default: "100"},
				{Key: "from", Label: "From", Default: "KMH", Options: []string{"KMH", "MPH"}},
				{Key: "to", Label: "To", Default: "MPH", Options: []string{"KMH", "MPH"}},
			},
			compute: func(_ *env, in values) []Line {
				return []Line{line("Result", convertPair(in, "KMH", "MPH", kmhToMph, 2, isNaNOnly))}
			},
		},
		{
			Name:     "planetary-age",
			Title:    "Age on Other Planets",
			Category: Science,
			Fields: []Field{
				{Key: "age", Label: "Earth age (years)", Default: "30"},
				{Key: "planet", Label: "Planet", Default: "Mars", Options: planetNames()},
			},
			compute: planetaryAge,
		},
	}
}

func temperature(_ *env, in values) []Line {
	v := in.float("value")
	if math.IsNaN(v) {
		return []Line{line("Result", "0.00")}
	}
	result := v
	switch {
	case in["from"] == "C" && in["to"] == "F":
		result = v*9/5 + 32
	case in["from"] == "F" && in["to"] == "C":
		result = (v - 32) * 5 / 9
	}
	return []Line{line("Result", jsnum.ToFixed(result, 2))}
}

func planetaryAge(_ *env, in values) []Line {
	age := in.float("age")
	if math.IsNaN(age) || age < 0 {
		return []Line{line("Planetary Age", "--")}
	}
	period := math.NaN()
	for _, p := range planets {
		if p.name == in["planet"] {
			period = p.period
		}
	}
	return []Line{line("Planetary Age", jsnum.ToFixed(age/period, 2))}
}
