package calc

import (
	"math"
	"testing"

	"github.com/verte-zerg/calcdeck/internal/jsnum"
)

func mustParse(t *testing.T, s string) float64 {
	t.Helper()
	v := jsnum.ParseFloat(s)
	if math.IsNaN(v) {
		t.Fatalf("not a numeral: %q", s)
	}
	return v
}

func formatFloat(f float64) string {
	return jsnum.Format(f)
}
