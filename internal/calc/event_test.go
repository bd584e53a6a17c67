package calc

import "testing"

func TestParseKeyPerVariant(t *testing.T) {
	if _, err := ParseKey(Basic, "%"); err != nil {
		t.Fatalf("basic should accept %%: %v", err)
	}
	if _, err := ParseKey(Basic, "^"); err == nil {
		t.Fatalf("basic should reject ^")
	}
	if _, err := ParseKey(Scientific, "%"); err == nil {
		t.Fatalf("scientific should reject %%")
	}
	for _, key := range []string{"^", "sin", "COS", "tan", "log", "sqrt", "pi"} {
		if _, err := ParseKey(Scientific, key); err != nil {
			t.Fatalf("scientific should accept %q: %v", key, err)
		}
	}
	if _, err := ParseKey(Basic, "sqrt"); err == nil {
		t.Fatalf("basic should reject sqrt")
	}
}

func TestParseKeysExpandsNumerals(t *testing.T) {
	events, err := ParseKeys(Basic, "12.5 + 3 =")
	if err != nil {
		t.Fatalf("parse keys: %v", err)
	}
	var got string
	for _, ev := range events {
		got += ev.String()
	}
	if got != "12.5+3=" {
		t.Fatalf("unexpected events: %q", got)
	}
}

func TestRunCollectsDisplays(t *testing.T) {
	tr, err := RunKeys(Basic, "9 9 B C 4")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"9", "99", "9", "0", "4"}
	if len(tr.Displays) != len(want) {
		t.Fatalf("expected %v, got %v", want, tr.Displays)
	}
	for i := range want {
		if tr.Displays[i] != want[i] {
			t.Fatalf("display %d: expected %q, got %q", i, want[i], tr.Displays[i])
		}
	}
	if tr.Final != "4" || len(tr.Evaluations) != 0 {
		t.Fatalf("unexpected trace: %+v", tr)
	}
}

func TestRunKeysRejectsUnknownKey(t *testing.T) {
	if _, err := RunKeys(Basic, "1 + x"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Scientific ")
	if err != nil || v != Scientific {
		t.Fatalf("expected scientific, got %q (%v)", v, err)
	}
	if _, err := ParseVariant("graphing"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
	if ops := Basic.Operators(); len(ops) != 5 || ops[4] != OpPercent {
		t.Fatalf("unexpected basic operators: %v", ops)
	}
	if fns := Basic.Funcs(); len(fns) != 0 {
		t.Fatalf("basic should have no functions: %v", fns)
	}
}
