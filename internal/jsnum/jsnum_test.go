package jsnum

import (
	"math"
	"testing"
)

func TestParseFloatPrefixes(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"12", 12},
		{"0.", 0},
		{".5", 0.5},
		{"  3.25abc", 3.25},
		{"1e3", 1000},
		{"1e", 1},
		{"1e+", 1},
		{"2.5e-1x", 0.25},
		{"-7", -7},
		{"+7", 7},
		{"Infinity5", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"1e400", math.Inf(1)},
		{"1.2.3", 1.2},
	}
	for _, tc := range cases {
		if got := ParseFloat(tc.in); got != tc.want {
			t.Fatalf("ParseFloat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFloatRejects(t *testing.T) {
	for _, in := range []string{"", "-", ".", "NaN", "abc", "e5", "Inf"} {
		if got := ParseFloat(in); !math.IsNaN(got) {
			t.Fatalf("ParseFloat(%q) = %v, want NaN", in, got)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := ParseInt("42.9"); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if got := ParseInt(" -3 people"); got != -3 {
		t.Fatalf("expected -3, got %v", got)
	}
	if got := ParseInt("x1"); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	a, b := 0.1, 0.2
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{10, "10"},
		{-2.5, "-2.5"},
		{a + b, "0.30000000000000004"},
		{1e21, "1e+21"},
		{123456789012345680000, "123456789012345680000"},
		{1.5e-7, "1.5e-7"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{2e25, "2e+25"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToFixed(t *testing.T) {
	cases := []struct {
		in   float64
		d    int
		want string
	}{
		{math.Pi, 10, "3.1415926536"},
		{0.5, 0, "1"},
		{2.5, 0, "3"},
		{1.005, 2, "1.00"},
		{1.125, 2, "1.13"},
		{-1.125, 2, "-1.13"},
		{9.995, 2, "9.99"},
		{99.999, 2, "100.00"},
		{0, 2, "0.00"},
		{math.Copysign(0, -1), 2, "0.00"},
		{-0.001, 2, "-0.00"},
		{1e21, 2, "1e+21"},
		{math.NaN(), 2, "NaN"},
		{math.Inf(1), 5, "Infinity"},
	}
	for _, tc := range cases {
		if got := ToFixed(tc.in, tc.d); got != tc.want {
			t.Fatalf("ToFixed(%v, %d) = %q, want %q", tc.in, tc.d, got, tc.want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(math.Sin(math.Pi), 5); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := RoundTo(0.7071067811865476, 5); got != 0.70711 {
		t.Fatalf("expected 0.70711, got %v", got)
	}
	if got := RoundTo(math.Inf(-1), 5); !math.IsInf(got, -1) {
		t.Fatalf("expected -Inf, got %v", got)
	}
}
