package calc

import (
	"testing"

	"github.com/verte-zerg/calcdeck/internal/generator"
)

func TestRandomSequencesKeepInvariants(t *testing.T) {
	gen := generator.NewWithSeed(11)
	for _, v := range Variants() {
		keys := []string{"0", "1", "2", "5", "9", ".", "=", "C", "B"}
		for _, op := range v.Operators() {
			keys = append(keys, string(op))
		}
		for _, fn := range v.Funcs() {
			keys = append(keys, string(fn))
		}
		for _, c := range v.Constants() {
			keys = append(keys, string(c))
		}
		for round := 0; round < 200; round++ {
			seq := gen.Sequence(keys, 30)
			var events []Event
			for _, key := range seq {
				ev, err := ParseKey(v, key)
				if err != nil {
					t.Fatalf("parse %q: %v", key, err)
				}
				events = append(events, ev)
			}
			tr := Run(v, events)
			if len(tr.Displays) != len(events) {
				t.Fatalf("%s %v: expected one display per event, got %d", v, seq, len(tr.Displays))
			}
			for _, d := range tr.Displays {
				if d == "" {
					t.Fatalf("%s %v: empty display", v, seq)
				}
			}
		}
	}
}
